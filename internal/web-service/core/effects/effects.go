// Package effects lists the side effects a business operation asks for once
// its state change is committed. The caller decides how to deliver them.
package effects

import (
	"taxi-booking/internal/web-service/core/domain/wsdto"

	"github.com/google/uuid"
)

// Effect is one of Email or DriverPush.
type Effect interface {
	isEffect()
}

type Email struct {
	To      string
	Subject string
	Body    string
}

func (Email) isEffect() {}

// DriverPush is a live event for the driver's websocket, if connected.
type DriverPush struct {
	DriverID uuid.UUID
	Event    wsdto.Event
}

func (DriverPush) isEffect() {}
