package driven

import (
	"context"

	"taxi-booking/internal/web-service/core/domain/wsdto"

	"github.com/google/uuid"
)

type INotifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

type INotifyWebsocket interface {
	WriteToDriver(driverID uuid.UUID, msg wsdto.Event) bool
}
