package gateway

import (
	"encoding/json"
	"io"
	"net"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JCaesar45/Chart-the-Stock-Market/internal/hub"
	"github.com/JCaesar45/Chart-the-Stock-Market/internal/protocol"
	"github.com/JCaesar45/Chart-the-Stock-Market/internal/store"
)

const (
	maxMessageSize = 512 * 1024
)

// ClientAdapter bridges one websocket connection to the hub. The hub only
// ever sees the opaque connection id.
type ClientAdapter struct {
	id     string
	conn   net.Conn
	hub    *hub.Hub
	send   chan []byte
	logger *zap.Logger

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

func NewClient(conn net.Conn, h *hub.Hub, logger *zap.Logger) *ClientAdapter {
	return &ClientAdapter{
		id:         uuid.NewString(),
		conn:       conn,
		hub:        h,
		send:       make(chan []byte, 256),
		logger:     logger,
		writeWait:  5 * time.Second,
		pongWait:   60 * time.Second,
		pingPeriod: 50 * time.Second,
	}
}

// Start launches the pumps and registers the client with the hub. The write
// pump must be running before Join so the initial snapshot can drain.
func (c *ClientAdapter) Start() {
	go c.writePump()
	go c.readPump()
	c.hub.Join(c)
}

func (c *ClientAdapter) ID() string { return c.id }
func (c *ClientAdapter) Close()     { close(c.send) } // Only close channel, let writePump close conn

func (c *ClientAdapter) SendJSON(v interface{}) {
	b, err := json.Marshal(v)
	if err == nil {
		c.SendBytes(b)
	}
}

func (c *ClientAdapter) SendBytes(b []byte) {
	select {
	case c.send <- b:
	default:
		// Drop message if buffer full (Backpressure)
	}
}

func (c *ClientAdapter) readPump() {
	defer func() {
		c.hub.Leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))

	for {
		header, err := ws.ReadHeader(c.conn)
		if err != nil {
			break
		}

		if header.Length > int64(maxMessageSize) {
			c.logger.Warn("Msg too big", zap.Int64("size", header.Length))
			break
		}

		if !header.Fin {
			c.logger.Warn("Client sent fragmented message (not supported)")
			break
		}

		payload := make([]byte, header.Length)
		if _, err := io.ReadFull(c.conn, payload); err != nil {
			break
		}

		if header.Masked {
			ws.Cipher(payload, header.Mask, 0)
		}

		if header.OpCode == ws.OpClose {
			break
		}
		if header.OpCode == ws.OpPong {
			c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
			continue
		}

		if header.OpCode == ws.OpText {
			var msg protocol.ClientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				c.hub.ReportError(c, "Invalid JSON")
				continue
			}

			msg.Symbol = store.Normalize(msg.Symbol)
			c.hub.HandleCommand(c, msg)
		}
	}
}

func (c *ClientAdapter) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if !ok {
				c.conn.Write(ws.CompiledClose)
				return
			}
			if err := wsutil.WriteServerText(c.conn, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := wsutil.WriteServerMessage(c.conn, ws.OpPing, nil); err != nil {
				return
			}
		}
	}
}
