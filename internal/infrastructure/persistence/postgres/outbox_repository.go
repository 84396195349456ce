package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/events"
)

var (
	_ ports.OutboxRepository = (*OutboxRepository)(nil)
	// Use cases публикуют события прямо в outbox внутри своей транзакции
	_ ports.EventPublisher = (*OutboxRepository)(nil)
)

const (
	outboxPending   = "PENDING"
	outboxPublished = "PUBLISHED"
	outboxFailed    = "FAILED"
)

const (
	// Пауза перед повтором растёт как 2^retry секунд, но не больше часа
	outboxMaxBackoffSeconds = 3600
	outboxMaxErrorLength    = 1000
)

const outboxInsertColumns = `INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, status, created_at) VALUES `

// OutboxRepository хранит события проектов, компаний, пользователей и новостей
// до их доставки в NATS. Доставка at-least-once: подписчики дедуплицируют по id.
type OutboxRepository struct {
	db DB
}

func NewOutboxRepository(db DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Save пишет событие в outbox. Вызывать в транзакции бизнес-операции.
func (r *OutboxRepository) Save(ctx context.Context, event events.DomainEvent) error {
	return r.PublishBatch(ctx, []events.DomainEvent{event})
}

func (r *OutboxRepository) Publish(ctx context.Context, event events.DomainEvent) error {
	return r.Save(ctx, event)
}

// PublishBatch пишет все события одним INSERT.
func (r *OutboxRepository) PublishBatch(ctx context.Context, list []events.DomainEvent) error {
	if len(list) == 0 {
		return nil
	}

	const perRow = 7
	var sb strings.Builder
	sb.WriteString(outboxInsertColumns)
	args := make([]any, 0, len(list)*perRow)

	for i, event := range list {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to serialize %s event: %w", event.EventType(), err)
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * perRow
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7)
		args = append(args,
			event.EventID(), event.AggregateType(), event.AggregateID(), event.EventType(),
			payload, outboxPending, event.OccurredAt(),
		)
	}

	if _, err := conn(ctx, r.db).Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to write %d event(s) to outbox: %w", len(list), err)
	}
	return nil
}

// FindUnpublished берёт созревшие PENDING события, старые первыми.
// FOR UPDATE SKIP LOCKED разводит несколько relay-инстансов по разным строкам,
// поэтому вызывать только внутри транзакции.
func (r *OutboxRepository) FindUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	const query = `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, retry_count, created_at
		FROM outbox
		WHERE status = $1 AND next_attempt_at <= $2
		ORDER BY created_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED`

	rows, err := conn(ctx, r.db).Query(ctx, query, outboxPending, time.Now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending outbox events: %w", err)
	}
	defer rows.Close()

	var batch []ports.OutboxMessage
	for rows.Next() {
		var m ports.OutboxMessage
		if err := rows.Scan(&m.ID, &m.AggregateType, &m.AggregateID, &m.EventType, &m.Payload, &m.RetryCount, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		batch = append(batch, m)
	}
	return batch, rows.Err()
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, eventID uuid.UUID) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE outbox SET status = $2, published_at = $3 WHERE id = $1 AND status = $4`,
		eventID, outboxPublished, time.Now().UTC(), outboxPending)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event %s published: %w", eventID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("outbox event %s is not pending", eventID)
	}
	return nil
}

// MarkFailed фиксирует неудачную доставку и откладывает следующую попытку.
// На maxRetries-й неудаче событие становится FAILED и больше не выбирается.
func (r *OutboxRepository) MarkFailed(ctx context.Context, eventID uuid.UUID, reason string, maxRetries int) error {
	const query = `
		UPDATE outbox SET
			retry_count     = retry_count + 1,
			last_error      = $2,
			status          = CASE WHEN retry_count + 1 >= $3 THEN $4 ELSE status END,
			failed_at       = CASE WHEN retry_count + 1 >= $3 THEN $5 ELSE failed_at END,
			next_attempt_at = $5::timestamptz + make_interval(secs => LEAST(power(2, retry_count + 1), $6))
		WHERE id = $1`

	reason = truncateUTF8(reason, outboxMaxErrorLength)

	_, err := conn(ctx, r.db).Exec(ctx, query,
		eventID, reason, maxRetries, outboxFailed, time.Now().UTC(), outboxMaxBackoffSeconds)
	if err != nil {
		return fmt.Errorf("failed to record outbox failure for %s: %w", eventID, err)
	}
	return nil
}

// truncateUTF8 обрезает s до max байт, не разрывая руну.
// PostgreSQL отвергает TEXT с невалидным UTF-8, поэтому битые байты заменяются.
func truncateUTF8(s string, max int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// CleanupPublished удаляет доставленные события старше olderThan.
func (r *OutboxRepository) CleanupPublished(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`DELETE FROM outbox WHERE status = $1 AND published_at < $2`,
		outboxPublished, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup outbox: %w", err)
	}
	return tag.RowsAffected(), nil
}
