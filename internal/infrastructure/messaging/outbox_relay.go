package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/pkg/logger"
)

// SubjectPrefix - префикс NATS subject: fundhub.<event_type>.
const SubjectPrefix = "fundhub."

var (
	outboxPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fundhub",
			Subsystem: "outbox",
			Name:      "published_total",
			Help:      "Total number of outbox events delivered to the broker",
		},
		[]string{"event_type"},
	)

	outboxFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fundhub",
			Subsystem: "outbox",
			Name:      "publish_failures_total",
			Help:      "Total number of failed outbox publish attempts",
		},
		[]string{"event_type"},
	)
)

// RelayConfig - параметры опроса outbox.
type RelayConfig struct {
	PollInterval    time.Duration
	BatchSize       int
	MaxRetries      int
	CleanupInterval time.Duration
	RetainPublished time.Duration
}

// DefaultRelayConfig возвращает значения по умолчанию.
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		PollInterval:    time.Second,
		BatchSize:       100,
		MaxRetries:      5,
		CleanupInterval: time.Hour,
		RetainPublished: 7 * 24 * time.Hour,
	}
}

// OutboxRelay переносит события из outbox в брокер.
//
// Каждая пачка обрабатывается в одной транзакции: строки заблокированы
// (FOR UPDATE SKIP LOCKED) до коммита, поэтому несколько relay не дублируют работу.
// Доставка at-least-once: при падении после Publish, но до коммита событие уйдёт повторно.
type OutboxRelay struct {
	outbox    ports.OutboxRepository
	uow       ports.UnitOfWork
	publisher ports.MessagePublisher
	cfg       RelayConfig
	logger    *slog.Logger
}

// NewOutboxRelay создаёт relay.
func NewOutboxRelay(
	outbox ports.OutboxRepository,
	uow ports.UnitOfWork,
	publisher ports.MessagePublisher,
	cfg RelayConfig,
	logger *slog.Logger,
) *OutboxRelay {
	defaults := DefaultRelayConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaults.PollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaults.CleanupInterval
	}
	if cfg.RetainPublished <= 0 {
		cfg.RetainPublished = defaults.RetainPublished
	}

	return &OutboxRelay{
		outbox:    outbox,
		uow:       uow,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run опрашивает outbox до отмены ctx.
func (r *OutboxRelay) Run(ctx context.Context) error {
	r.logger.Info("outbox relay started",
		slog.Duration("poll_interval", r.cfg.PollInterval),
		slog.Int("batch_size", r.cfg.BatchSize),
	)

	poll := time.NewTicker(r.cfg.PollInterval)
	defer poll.Stop()
	cleanup := time.NewTicker(r.cfg.CleanupInterval)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return nil

		case <-poll.C:
			// Полная пачка - вероятно, есть ещё; выбираем без ожидания тика.
			for {
				n, err := r.ProcessBatch(ctx)
				if err != nil {
					if ctx.Err() == nil {
						r.logger.ErrorContext(ctx, "outbox batch failed", slog.String("error", err.Error()))
					}
					break
				}
				if n < r.cfg.BatchSize {
					break
				}
			}

		case <-cleanup.C:
			removed, err := r.outbox.CleanupPublished(ctx, r.cfg.RetainPublished)
			if err != nil {
				r.logger.ErrorContext(ctx, "outbox cleanup failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				r.logger.Info("outbox cleaned up", slog.Int64("removed", removed))
			}
		}
	}
}

// ProcessBatch публикует одну пачку и возвращает число выбранных событий.
// Ошибка публикации отдельного события не прерывает пачку: событие помечается failed.
func (r *OutboxRelay) ProcessBatch(ctx context.Context) (int, error) {
	var processed int

	err := r.uow.Execute(ctx, func(txCtx context.Context) error {
		messages, err := r.outbox.FindUnpublished(txCtx, r.cfg.BatchSize)
		if err != nil {
			return err
		}
		processed = len(messages)

		for _, m := range messages {
			subject := SubjectPrefix + m.EventType
			evtCtx := logger.WithEventID(txCtx, m.ID.String())

			if pubErr := r.publisher.Publish(evtCtx, subject, m.Payload); pubErr != nil {
				outboxFailedTotal.WithLabelValues(m.EventType).Inc()
				r.logger.WarnContext(evtCtx, "failed to publish outbox event",
					slog.String("event_type", m.EventType),
					slog.Int("retry_count", m.RetryCount+1),
					slog.String("error", pubErr.Error()),
				)
				if err := r.outbox.MarkFailed(txCtx, m.ID, pubErr.Error(), r.cfg.MaxRetries); err != nil {
					return err
				}
				continue
			}

			if err := r.outbox.MarkPublished(txCtx, m.ID); err != nil {
				return err
			}
			outboxPublishedTotal.WithLabelValues(m.EventType).Inc()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to relay outbox batch: %w", err)
	}

	return processed, nil
}
