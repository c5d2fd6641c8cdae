package models

import "strings"

// Role is ordered: user < admin < owner.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

var roleLevels = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
	RoleOwner: 3,
}

// ParseRole normalizes case and surrounding whitespace. Unknown values report ok=false.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleLevels[r]
	return r, ok
}

// Level is 0 for unknown roles.
func (r Role) Level() int {
	n, _ := ParseRole(string(r))
	return roleLevels[n]
}

func (r Role) Valid() bool {
	return r.Level() > 0
}

// AtLeast fails closed for unknown roles on either side.
func (r Role) AtLeast(min Role) bool {
	have, want := r.Level(), min.Level()
	return have > 0 && want > 0 && have >= want
}

// In reports exact membership after normalization.
func (r Role) In(roles ...Role) bool {
	n, ok := ParseRole(string(r))
	if !ok {
		return false
	}
	for _, candidate := range roles {
		if c, ok := ParseRole(string(candidate)); ok && c == n {
			return true
		}
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r.AtLeast(RoleAdmin)
}

func (r Role) IsOwner() bool {
	return r.AtLeast(RoleOwner)
}
