// Package effects delivers the side effects returned by the driver service
// after the HTTP handler has its result. Delivery never changes the response.
package effects

import (
	"context"
	"sync"
	"time"

	"taxi-booking/internal/metrics"
	"taxi-booking/internal/mylogger"
	"taxi-booking/internal/web-service/core/effects"
	"taxi-booking/internal/web-service/core/ports/driven"
)

const DeliveryTimeout = 10 * time.Second

type Dispatcher struct {
	notifier driven.INotifier
	pusher   driven.INotifyWebsocket
	metrics  *metrics.Collector
	mylog    mylogger.Logger
	async    bool
	wg       sync.WaitGroup
}

func NewDispatcher(notifier driven.INotifier, pusher driven.INotifyWebsocket, m *metrics.Collector, mylog mylogger.Logger, async bool) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		pusher:   pusher,
		metrics:  m,
		mylog:    mylog,
		async:    async,
	}
}

// Deliver runs effs in order. In async mode it returns at once and the
// delivery outlives the request context.
func (d *Dispatcher) Deliver(ctx context.Context, effs []effects.Effect) {
	if len(effs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DeliveryTimeout)
	if !d.async {
		defer cancel()
		d.deliver(ctx, effs)
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		d.deliver(ctx, effs)
	}()
}

// Wait blocks until background deliveries are done.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, effs []effects.Effect) {
	mylog := d.mylog.Action("DeliverEffects")

	for _, eff := range effs {
		switch e := eff.(type) {
		case effects.Email:
			if err := d.notifier.Send(ctx, e.To, e.Subject, e.Body); err != nil {
				mylog.Error("Failed to send notification", err, "subject", e.Subject)
				d.metrics.RecordNotification(metrics.OutcomeFailure)
				continue
			}
			d.metrics.RecordNotification(metrics.OutcomeSuccess)
		case effects.DriverPush:
			if d.pusher == nil {
				continue
			}
			if !d.pusher.WriteToDriver(e.DriverID, e.Event) {
				mylog.Debug("Driver is not connected", "driver_id", e.DriverID, "type", e.Event.Type)
			}
		default:
			mylog.Warn("Unknown effect, skipping")
		}
	}
}
