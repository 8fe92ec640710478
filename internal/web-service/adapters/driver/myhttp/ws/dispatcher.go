package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"taxi-booking/internal/common/authz"
	"taxi-booking/internal/common/types"
	"taxi-booking/internal/mylogger"
	"taxi-booking/internal/web-service/core/domain/wsdto"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ================================================================================================== //
// websocketUpgrader is used to upgrade incomming HTTP requests into a persitent websocket connection //
// ================================================================================================== //
var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ClientList is a map used to help manage a map of clients
type ClientList map[*Client]bool

var driverRoles = authz.NewRoleSet(types.RoleDriver)

// Dispatcher keeps the live connections of drivers and pushes events to them.
type Dispatcher struct {
	ctx     context.Context
	clients ClientList
	sync.RWMutex
	log mylogger.Logger
}

func NewDispatcher(ctx context.Context, log mylogger.Logger) *Dispatcher {
	return &Dispatcher{
		ctx:     ctx,
		clients: make(ClientList),
		log:     log,
	}
}

// WsHandler upgrades a driver's request. The caller must be the driver whose
// id is in the path.
func (d *Dispatcher) WsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("WsHandler")

		driverID, err := uuid.Parse(chi.URLParam(r, "driver_id"))
		if err != nil {
			http.Error(w, "invalid driver id", http.StatusBadRequest)
			return
		}

		roleID, ok := authz.RoleIDFromContext(r.Context())
		if !authz.Authorize(r.Context(), driverRoles) || !ok || roleID != driverID {
			http.Error(w, errors.New("unauthorized").Error(), http.StatusUnauthorized)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(d.ctx, conn, d, driverID)
		d.AddClient(client)
		log.Info("driver connected", "driver_id", driverID)

		go client.ReadMessage()
		go client.WriteMessage()
	}
}

func (d *Dispatcher) AddClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	d.clients[client] = true
}

func (d *Dispatcher) RemoveClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.clients[client]; ok {
		client.cancel()
		delete(d.clients, client)
	}
}

// WriteToDriver queues msg for every connection of the driver. It reports
// whether at least one connection took it.
func (d *Dispatcher) WriteToDriver(driverID uuid.UUID, msg wsdto.Event) bool {
	d.RLock()
	defer d.RUnlock()

	delivered := false
	for client := range d.clients {
		if client.driverID != driverID {
			continue
		}
		select {
		case client.egress <- msg:
			delivered = true
		default:
			d.log.Warn("driver egress is full, dropping event", "driver_id", driverID, "type", msg.Type)
		}
	}
	return delivered
}

func (d *Dispatcher) Count() int {
	d.RLock()
	defer d.RUnlock()
	return len(d.clients)
}
