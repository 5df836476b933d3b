package websocketx

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// Conn serializes writes; gorilla/websocket allows one concurrent writer.
type Conn struct {
	*websocket.Conn
	writeLock sync.Mutex
}

func NewConn(c *websocket.Conn) *Conn {
	return &Conn{Conn: c}
}

func (conn *Conn) WriteMessage(msgType int, data []byte) error {
	conn.writeLock.Lock()
	defer conn.writeLock.Unlock()
	var err error
	lo.TryCatchWithErrorValue(func() error {
		err = conn.Conn.WriteMessage(msgType, data)
		return nil
	}, func(res any) {
		if e, ok := res.(error); ok {
			err = e
			return
		}
		err = fmt.Errorf("websocket write panicked: %v", res)
	})
	return err
}
