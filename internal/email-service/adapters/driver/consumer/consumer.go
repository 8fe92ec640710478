package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"taxi-booking/internal/common/messages"
	"taxi-booking/internal/common/rabbitmq"
	"taxi-booking/internal/mylogger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	consumerTag         = "email-service"
	resubscribeInterval = 5 * time.Second
)

// IBroker is the consuming side of the broker.
type IBroker interface {
	Consume(ctx context.Context, queue, consumer string) (<-chan amqp.Delivery, error)
}

type IEmailService interface {
	SendEmail(ctx context.Context, req messages.SendEmailRequest) error
}

// Consumer reads email requests and hands them to the email service.
type Consumer struct {
	ctx     context.Context
	wg      *sync.WaitGroup
	log     mylogger.Logger
	broker  IBroker
	service IEmailService
	workers int
	retry   time.Duration
}

func New(ctx context.Context, wg *sync.WaitGroup, log mylogger.Logger, broker IBroker, service IEmailService, workers int) *Consumer {
	if workers < 1 {
		workers = 1
	}
	return &Consumer{
		ctx:     ctx,
		wg:      wg,
		log:     log,
		broker:  broker,
		service: service,
		workers: workers,
		retry:   resubscribeInterval,
	}
}

// Run subscribes to the email queue and starts the workers. When the broker
// closes the deliveries channel the consumer subscribes again until ctx is
// done.
func (c *Consumer) Run() error {
	ch, err := c.broker.Consume(c.ctx, rabbitmq.EmailQueue, consumerTag)
	if err != nil {
		return err
	}

	c.wg.Add(1)
	go c.supervise(ch)
	return nil
}

func (c *Consumer) supervise(ch <-chan amqp.Delivery) {
	log := c.log.Action("supervise")
	defer c.wg.Done()

	for {
		var workers sync.WaitGroup
		workers.Add(c.workers)
		for i := 0; i < c.workers; i++ {
			go c.work(c.ctx, &workers, ch, c.SendEmail)
		}
		workers.Wait()

		if c.ctx.Err() != nil {
			return
		}
		log.Warn("deliveries channel closed, subscribing again")

		ch = c.resubscribe()
		if ch == nil {
			return
		}
		log.Info("subscribed to email queue again")
	}
}

// resubscribe retries Consume every c.retry. It returns nil once ctx is done.
func (c *Consumer) resubscribe() <-chan amqp.Delivery {
	log := c.log.Action("resubscribe")
	t := time.NewTicker(c.retry)
	defer t.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return nil
		case <-t.C:
			ch, err := c.broker.Consume(c.ctx, rabbitmq.EmailQueue, consumerTag)
			if err == nil {
				return ch
			}
			log.Warn("cannot subscribe to email queue", "error", err.Error())
		}
	}
}

func (c *Consumer) work(
	ctx context.Context,
	wg *sync.WaitGroup,
	ch <-chan amqp.Delivery,
	Do func(msg amqp.Delivery) error,
) {
	log := c.log.Action("work")
	defer func() {
		log.Info("one worker is done")
		wg.Done()
	}()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}

			if err := Do(msg); err != nil {
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}

// SendEmail acks a delivered email and nacks, without requeue, anything
// malformed or undeliverable.
func (c *Consumer) SendEmail(msg amqp.Delivery) error {
	log := c.log.Action("SendEmail")

	var req messages.SendEmailRequest
	if err := json.Unmarshal(msg.Body, &req); err != nil {
		log.Error("cannot unmarshal", err)
		return errors.Join(err, msg.Nack(false, false))
	}

	if err := c.service.SendEmail(c.ctx, req); err != nil {
		log.Warn("email dropped", "error", err.Error())
		return errors.Join(err, msg.Nack(false, false))
	}

	return msg.Ack(false)
}
