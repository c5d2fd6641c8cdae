package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Meta is the pagination block attached to list responses.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Normalize clamps page to >= 1 and limit to [1, MaxLimit]; a non-positive
// limit becomes defaultLimit (DefaultLimit when defaultLimit is not positive).
func Normalize(page, limit, defaultLimit int) (int, int) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func Offset(page, limit int) int {
	return (page - 1) * limit
}

func NewMeta(page, limit int, total int64) Meta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Meta{Page: page, Limit: limit, Total: total, Pages: pages}
}
