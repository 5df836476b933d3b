package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/naiba/hostdeck/model"
	"github.com/naiba/hostdeck/pkg/mygin"
	"github.com/naiba/hostdeck/service/singleton"
)

func ServeWeb() *http.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(singleton.Conf.TrustedProxies); err != nil {
		log.Printf("HOSTDECK>> trusted_proxies: %v", err)
	}
	if singleton.Conf.Debug {
		gin.SetMode(gin.DebugMode)
		r.Use(gin.Logger())
		pprof.Register(r)
	}
	InitUpgrader()
	routers(r)

	return &http.Server{
		Addr:              singleton.Conf.Listen,
		Handler:           r,
		ReadHeaderTimeout: time.Second * 5,
	}
}

func routers(r *gin.Engine) {
	api := r.Group("api/v1")
	api.Use(mygin.Waf, mygin.Authorize)

	api.GET("/hosts", commonHandler(listHosts))
	api.POST("/hosts", commonHandler(createHost))
	api.PATCH("/hosts/:id", commonHandler(updateHost))
	api.DELETE("/hosts/:id", commonHandler(deleteHost))
	api.POST("/hosts/:id/toggle", commonHandler(toggleHost))
	api.POST("/hosts/:id/duplicate", commonHandler(duplicateHost))
	api.POST("/hosts/:id/remove", commonHandler(removeHost))
	api.POST("/hosts/reorder", commonHandler(reorderHosts))
	api.POST("/hosts/drop", commonHandler(dropHost))
	api.POST("/hosts/reload", commonHandler(reloadHosts))

	api.GET("/sync", commonHandler(getSyncStatus))
	api.GET("/sync/history", commonHandler(listSyncHistory))

	api.GET("/ws/hosts", commonHandler(hostStream))

	api.GET("/waf", commonHandler(listBlockedIP))
	api.DELETE("/waf/:ip", commonHandler(unblockIP))
}

type handlerFunc[T any] func(c *gin.Context) (T, error)

func commonHandler[T any](handler handlerFunc[T]) func(*gin.Context) {
	return func(c *gin.Context) {
		data, err := handler(c)
		if err == nil {
			c.JSON(http.StatusOK, model.CommonResponse[T]{Success: true, Data: data})
			return
		}

		var (
			gormErr *gormError
			wsErr   *wsError
		)
		switch {
		case errors.As(err, &wsErr):
			// 连接已被升级，无法再写入 HTTP 响应
			if wsErr.msg != "" {
				log.Printf("HOSTDECK>> websocket: %s", wsErr.msg)
			}
		case errors.As(err, &gormErr):
			log.Printf("HOSTDECK>> gorm error: %s", gormErr.msg)
			c.JSON(http.StatusOK, model.CommonResponse[any]{Error: "database error"})
		default:
			c.JSON(http.StatusOK, model.CommonResponse[any]{Error: err.Error()})
		}
	}
}

type gormError struct {
	msg string
}

func newGormError(format string, args ...any) error {
	return &gormError{msg: fmt.Sprintf(format, args...)}
}

func (ge *gormError) Error() string {
	return ge.msg
}

type wsError struct {
	msg string
}

func newWsError(format string, args ...any) error {
	return &wsError{msg: fmt.Sprintf(format, args...)}
}

func (we *wsError) Error() string {
	return we.msg
}
