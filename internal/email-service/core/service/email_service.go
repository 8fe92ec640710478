package service

import (
	"context"
	"fmt"

	"taxi-booking/internal/common/messages"
	"taxi-booking/internal/email-service/core/myerrors"
	"taxi-booking/internal/email-service/core/ports/driven"
	"taxi-booking/internal/metrics"
	"taxi-booking/internal/mylogger"
)

type EmailService struct {
	sender  driven.ISender
	metrics *metrics.Collector
	mylog   mylogger.Logger
}

func NewEmailService(sender driven.ISender, m *metrics.Collector, mylog mylogger.Logger) *EmailService {
	return &EmailService{
		sender:  sender,
		metrics: m,
		mylog:   mylog,
	}
}

// SendEmail delivers req once. There is no retry.
func (es *EmailService) SendEmail(ctx context.Context, req messages.SendEmailRequest) error {
	mylog := es.mylog.Action("SendEmail")

	if err := req.Validate(); err != nil {
		es.metrics.RecordEmail(metrics.OutcomeRejected)
		return fmt.Errorf("%w: %v", myerrors.ErrInvalidRecipient, err)
	}

	if err := es.sender.Send(ctx, req.EmailTo, req.Subject, req.Body); err != nil {
		es.metrics.RecordEmail(metrics.OutcomeFailure)
		mylog.Error("Failed to send email", err, "subject", req.Subject)
		return fmt.Errorf("%w: %v", myerrors.ErrSendFailed, err)
	}

	es.metrics.RecordEmail(metrics.OutcomeSuccess)
	mylog.Info("Email sent", "subject", req.Subject)
	return nil
}
