package mygin

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/naiba/hostdeck/model"
	"github.com/naiba/hostdeck/service/singleton"
)

// Waf 拒绝处于封禁期内的来源 IP
func Waf(c *gin.Context) {
	err := model.CheckIP(singleton.DB, c.ClientIP(), time.Now())
	if err == nil {
		return
	}
	if errors.Is(err, model.ErrIPBlocked) {
		ShowError(c, http.StatusForbidden, err.Error())
		return
	}
	log.Printf("HOSTDECK>> waf: %v", err)
}

func blockClient(c *gin.Context, reason uint8) {
	if err := model.BlockIP(singleton.DB, c.ClientIP(), reason, time.Now()); err != nil {
		log.Printf("HOSTDECK>> waf: block %s: %v", c.ClientIP(), err)
	}
}
