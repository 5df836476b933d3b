package mygin

import (
	"github.com/gin-gonic/gin"

	"github.com/naiba/hostdeck/model"
)

func ShowError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, model.CommonResponse[any]{
		Success: false,
		Error:   msg,
	})
}
