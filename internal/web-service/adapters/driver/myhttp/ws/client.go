package ws

import (
	"context"
	"encoding/json"
	"time"

	"taxi-booking/internal/web-service/core/domain/wsdto"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	egressSize = 16
)

type Client struct {
	ctx      context.Context
	cancel   context.CancelFunc
	conn     *websocket.Conn
	dis      *Dispatcher
	egress   chan wsdto.Event
	driverID uuid.UUID
}

func NewClient(ctx context.Context, conn *websocket.Conn, dis *Dispatcher, driverID uuid.UUID) *Client {
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		ctx:      ctx,
		cancel:   cancel,
		conn:     conn,
		dis:      dis,
		egress:   make(chan wsdto.Event, egressSize),
		driverID: driverID,
	}
}

// ReadMessage only keeps the connection alive; drivers do not send events here.
func (c *Client) ReadMessage() {
	log := c.dis.log.Action("ReadMessage")
	defer c.dis.RemoveClient(c)

	c.conn.SetReadLimit(1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("unexpected close", "driver_id", c.driverID, "error", err.Error())
			}
			return
		}

		var req wsdto.Event
		if err := json.Unmarshal(payload, &req); err != nil {
			log.Debug("ignoring malformed message", "driver_id", c.driverID)
		}
	}
}

func (c *Client) WriteMessage() {
	log := c.dis.log.Action("WriteMessage")
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case event := <-c.egress:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				log.Error("cannot write event", err, "driver_id", c.driverID)
				c.cancel()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}
		}
	}
}
