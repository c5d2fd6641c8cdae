package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/social-feed/social-feed/internal/services"
	"github.com/social-feed/social-feed/pkg/response"
)

// pathID 解析路径中的 uuid，失败时已写入 400
func pathID(c *gin.Context, name string, log logrus.FieldLogger) (uuid.UUID, bool) {
	id, err := services.ParseID(c.Param(name))
	if err != nil {
		response.Error(c, log, err)
		return uuid.Nil, false
	}
	return id, true
}

// pageParams 非数字按 0 处理，由 pagination.Normalize 兜底
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return page, limit
}
