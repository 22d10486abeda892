package booking

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/t0mb36/veloApp-sub001/internal/cart"
	"github.com/t0mb36/veloApp-sub001/internal/logger"
	"github.com/t0mb36/veloApp-sub001/internal/session"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	eventBacklog = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CartEvents godoc
// @Summary      Cart change stream
// @Description  Upgrades to a websocket that sends the current cart on connect, then one event per cart change.
// @Tags         cart
// @Router       /cart/events [get]
func (h *Handler) CartEvents(c *gin.Context) {
	sess, ok := session.Require(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "session_id", sess.ID, "error", err)
		return
	}
	defer conn.Close()

	events := make(chan cart.Event, eventBacklog)
	overflow := make(chan struct{})
	unsubscribe := sess.Cart.Subscribe(func(ev cart.Event) {
		select {
		case events <- ev:
		default:
			// Slow reader: drop the stream.
			select {
			case <-overflow:
			default:
				close(overflow)
			}
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	go readPump(conn, done)

	if err := writeEvent(conn, cart.Event{Type: cart.Current, Cart: sess.Cart.Snapshot()}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if err := writeEvent(conn, ev); err != nil {
				logger.Debug("cart stream write failed", "session_id", sess.ID, "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-overflow:
			logger.Warn("cart stream overflow, closing", "session_id", sess.ID)
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"),
				time.Now().Add(writeWait))
			return
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, ev cart.Event) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}

// readPump drains client frames so pongs and close frames are processed.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
