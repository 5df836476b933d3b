package controller

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/naiba/hostdeck/pkg/utils"
	"github.com/naiba/hostdeck/pkg/websocketx"
	"github.com/naiba/hostdeck/service/singleton"
)

const wsPingInterval = 30 * time.Second

var upgrader *websocket.Upgrader

func InitUpgrader() {
	upgrader = &websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 32768,
	}
	// Allow CORS from loopback addresses in debug mode
	if singleton.Conf.Debug {
		upgrader.CheckOrigin = checkDebugOrigin
	}
}

// checkDebugOrigin accepts same-host origins and any origin served from
// localhost or a loopback address, such as a frontend dev server.
func checkDebugOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Websocket host stream
// @Summary Websocket host stream
// @Description Sends the host list once on connect and again after every change
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.HostListResponse
// @Router /ws/hosts [get]
func hostStream(c *gin.Context) (any, error) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return nil, newWsError("%v", err)
	}
	conn := websocketx.NewConn(ws)
	defer conn.Close()

	changed, unsubscribe := singleton.SubscribeHosts()
	defer unsubscribe()

	// 读循环只用于感知连接关闭
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	if err := writeHostList(conn); err != nil {
		return nil, newWsError("%v", err)
	}
	for {
		select {
		case <-closed:
			return nil, newWsError("")
		case <-changed:
			if err := writeHostList(conn); err != nil {
				return nil, newWsError("%v", err)
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return nil, newWsError("%v", err)
			}
		}
	}
}

func writeHostList(conn *websocketx.Conn) error {
	b, err := utils.Json.Marshal(hostList())
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, b)
}
