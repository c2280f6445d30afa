package views

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserController struct {
}

// 操作三态：完成 / 取消（带原因）/ 错误
const (
	OpFinished  = "finished"
	OpCancelled = "cancelled"
	OpError     = "error"
)

func reportFinished(c *gin.Context, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["status"] = OpFinished
	c.JSON(http.StatusOK, data)
}

func reportCancelled(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"status": OpCancelled, "message": message})
}

func reportError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": OpError, "message": message})
}
