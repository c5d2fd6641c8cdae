package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health 不依赖数据库，只表示进程存活
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
