// Package rabbitmq owns the broker connection used by the notification
// publisher and the email consumer.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taxi-booking/internal/config"
	"taxi-booking/internal/mylogger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EmailQueue     = "email_requests"
	reconnInterval = 10
)

var ErrConnClosed = errors.New("rabbitmq connection is closed")

type RabbitMQ struct {
	ctx          context.Context
	cfg          config.RabbitMqconfig
	mylog        mylogger.Logger
	conn         *amqp.Connection
	ch           *amqp.Channel
	reconnecting bool
	mu           sync.Mutex
}

// New connects to rabbitmq and declares the email queue.
func New(ctx context.Context, cfg config.RabbitMqconfig, mylog mylogger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{
		ctx:   ctx,
		cfg:   cfg,
		mylog: mylog,
	}
	if err := r.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	return r, nil
}

// Publish sends body to queue and waits for the broker confirm.
func (r *RabbitMQ) Publish(ctx context.Context, queue string, body []byte) error {
	mylog := r.mylog.Action("publish")

	ch, ok := r.channel()
	if !ok {
		mylog.Error("connection between rabbitmq is closed", ErrConnClosed)
		go r.reconnect(r.ctx)
		return ErrConnClosed
	}

	conf, err := ch.PublishWithDeferredConfirmWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", queue, err)
	}

	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("wait confirm: %w", err)
	}
	if !acked {
		return fmt.Errorf("broker nacked message to %s", queue)
	}
	return nil
}

// Consume starts delivering messages from queue with manual acks. A closed
// connection starts a background reconnect and returns ErrConnClosed.
func (r *RabbitMQ) Consume(ctx context.Context, queue, consumer string) (<-chan amqp.Delivery, error) {
	ch, ok := r.channel()
	if !ok {
		go r.reconnect(r.ctx)
		return nil, ErrConnClosed
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return ch.ConsumeWithContext(ctx, queue, consumer, false, false, false, false, nil)
}

func (r *RabbitMQ) IsAlive() bool {
	_, ok := r.channel()
	return ok
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %v", err)
		}
	}

	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %v", err)
		}
	}
	return nil
}

func (r *RabbitMQ) channel() (*amqp.Channel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		return nil, false
	}
	if r.ch == nil || r.ch.IsClosed() {
		return nil, false
	}
	return r.ch, true
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.cfg.URL())
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return err
	}

	if _, err := ch.QueueDeclare(EmailQueue, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declare queue %s: %w", EmailQueue, err)
	}

	r.mu.Lock()
	r.conn = conn
	r.ch = ch
	r.mu.Unlock()
	return nil
}

func (r *RabbitMQ) reconnect(ctx context.Context) {
	r.mu.Lock()
	if r.reconnecting {
		r.mu.Unlock()
		return
	}
	r.reconnecting = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.reconnecting = false
		r.mu.Unlock()
	}()

	t := time.NewTicker(time.Second * reconnInterval)
	defer t.Stop()
	mylog := r.mylog.Action("mb_reconnecting")

	for {
		select {
		case <-t.C:
			if err := r.connect(); err == nil {
				mylog.Action("mb_reconnection_completed").Info("Successfully reconnected!")
				return
			}
			mylog.Info("rabbitmq failed to reconnect")

		case <-ctx.Done():
			return
		}
	}
}
