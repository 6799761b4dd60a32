// Package worker processes background jobs dequeued from Redis.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/waitingroom/backend/internal/emaillogs"
	"github.com/waitingroom/backend/internal/models"
	"github.com/waitingroom/backend/pkg/queue"
)

// Sender delivers a confirmation email. Implementations live behind this
// interface so the worker can run without SMTP credentials in development.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// LogSender logs instead of sending; the development default.
type LogSender struct {
	Logger *zap.Logger
}

// Send logs the would-be email.
func (s LogSender) Send(_ context.Context, recipient, subject, _ string) error {
	s.Logger.Info("email (log sender)", zap.String("recipient", recipient), zap.String("subject", subject))
	return nil
}

// EmailProcessor processes confirmation email jobs: render, send, record.
type EmailProcessor struct {
	logs   *emaillogs.Repository
	sender Sender
	queue  *queue.Queue
	logger *zap.Logger
}

// NewEmailProcessor creates a confirmation email processor.
func NewEmailProcessor(logs *emaillogs.Repository, sender Sender, q *queue.Queue, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{logs: logs, sender: sender, queue: q, logger: logger}
}

// Process executes one confirmation email job.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeConfirmationEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ConfirmationEmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	subject := fmt.Sprintf("Registration received: %s", payload.RoomTitle)
	body := fmt.Sprintf("Hi %s,\n\nYour registration for %s has been received.\n", payload.LegalName, payload.RoomTitle)

	log := &models.EmailLog{
		RoomID:       payload.RoomID,
		RegistrantID: payload.RegistrantID,
		Recipient:    payload.Recipient,
		Subject:      subject,
		Status:       models.EmailStatusSent,
	}
	if err := p.sender.Send(ctx, payload.Recipient, subject, body); err != nil {
		errMsg := err.Error()
		log.Status = models.EmailStatusFailed
		log.Error = &errMsg
		if dbErr := p.logs.Create(ctx, log); dbErr != nil {
			p.logger.Error("record email log failed", zap.Error(dbErr))
		}
		return fmt.Errorf("send email: %w", err)
	}
	if err := p.logs.Create(ctx, log); err != nil {
		p.logger.Error("record email log failed", zap.Error(err), zap.String("registrant_id", payload.RegistrantID.String()))
	}

	p.logger.Info("confirmation email sent",
		zap.String("registrant_id", payload.RegistrantID.String()),
		zap.String("recipient", payload.Recipient))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *EmailProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}
