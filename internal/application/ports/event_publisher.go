// Package ports - EventPublisher для публикации domain events.
//
// Pattern: Transactional Outbox
// 1. В той же БД-транзакции use case сохраняет event в таблицу outbox (EventPublisher)
// 2. OutboxRelay читает outbox и публикует в брокер (MessagePublisher)
// 3. После успешной публикации помечает event как published
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/domain/events"
)

// EventPublisher определяет контракт для публикации domain events.
// Реализация через outbox: вызывать внутри UnitOfWork, иначе событие не атомарно с изменением.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// OutboxMessage - сохранённое событие, ожидающее публикации.
type OutboxMessage struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	EventType     string
	Payload       []byte
	RetryCount    int
	CreatedAt     time.Time
}

// OutboxRepository - интерфейс для Transactional Outbox Pattern.
type OutboxRepository interface {
	// Save сохраняет событие в outbox таблицу.
	// Должно выполняться в той же транзакции, что и бизнес-операция!
	Save(ctx context.Context, event events.DomainEvent) error

	// FindUnpublished возвращает ожидающие события (FOR UPDATE SKIP LOCKED).
	// Вызывать внутри транзакции, чтобы блокировка держалась до MarkPublished.
	FindUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkPublished помечает событие как опубликованное.
	MarkPublished(ctx context.Context, eventID uuid.UUID) error

	// MarkFailed увеличивает счётчик попыток; после maxRetries событие становится FAILED.
	MarkFailed(ctx context.Context, eventID uuid.UUID, reason string, maxRetries int) error

	// CleanupPublished удаляет опубликованные события старше olderThan.
	CleanupPublished(ctx context.Context, olderThan time.Duration) (int64, error)
}

// MessagePublisher - брокер сообщений (NATS).
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}
