package analytics

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store persists link lifecycle events.
type Store interface {
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	SaveLinkVisited(ctx context.Context, event *LinkVisitedEvent) error
	SaveLinkDeleted(ctx context.Context, event *LinkDeletedEvent) error
}

// PostgresStore appends events to the link_events table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a postgres-backed event store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const insertEvent = `
	INSERT INTO link_events (code, kind, owner_id, client_ip, user_agent, referrer, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (p *PostgresStore) SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error {
	_, err := p.pool.Exec(ctx, insertEvent,
		event.Code, "created", event.OwnerID, event.ClientIP, event.UserAgent, "", event.CreatedAt)

	return err
}

func (p *PostgresStore) SaveLinkVisited(ctx context.Context, event *LinkVisitedEvent) error {
	_, err := p.pool.Exec(ctx, insertEvent,
		event.Code, "visited", "", event.ClientIP, event.UserAgent, event.Referrer, event.VisitedAt)

	return err
}

func (p *PostgresStore) SaveLinkDeleted(ctx context.Context, event *LinkDeletedEvent) error {
	_, err := p.pool.Exec(ctx, insertEvent,
		event.Code, "deleted", event.OwnerID, "", "", "", event.DeletedAt)

	return err
}

// LogStore logs events instead of persisting them. It backs the consumer
// when it runs without a database.
type LogStore struct {
	logger *zap.Logger
}

// NewLogStore creates a logging event store.
func NewLogStore(logger *zap.Logger) *LogStore {
	return &LogStore{logger: logger}
}

func (l *LogStore) SaveLinkCreated(_ context.Context, event *LinkCreatedEvent) error {
	l.logger.Info("link created",
		zap.String("code", event.Code),
		zap.String("longUrl", event.LongURL),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (l *LogStore) SaveLinkVisited(_ context.Context, event *LinkVisitedEvent) error {
	l.logger.Info("link visited",
		zap.String("code", event.Code),
		zap.String("referrer", event.Referrer),
		zap.Time("visitedAt", event.VisitedAt),
	)

	return nil
}

func (l *LogStore) SaveLinkDeleted(_ context.Context, event *LinkDeletedEvent) error {
	l.logger.Info("link deleted",
		zap.String("code", event.Code),
		zap.Time("deletedAt", event.DeletedAt),
	)

	return nil
}
