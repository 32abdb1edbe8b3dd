package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

const messagesSchema = `
	CREATE TABLE IF NOT EXISTS messages (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		text         TEXT NOT NULL DEFAULT '',
		sender       TEXT NOT NULL DEFAULT '',
		room         TEXT NOT NULL DEFAULT 'general',
		message_type TEXT NOT NULL DEFAULT 'message',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
	);
	CREATE INDEX IF NOT EXISTS messages_room_created_at_idx ON messages (room, created_at);
`

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgMessageRepository struct {
	pool pgQuerier
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// EnsureSchema creates the messages table when it does not exist yet
func (r *PgMessageRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, messagesSchema)
	return err
}

func (r *PgMessageRepository) InsertMessage(ctx context.Context, msg domain.NewMessage) (domain.ChatMessage, error) {
	const query = `
		INSERT INTO messages (text, sender, room, message_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, text, sender, room, message_type, created_at
	`

	var saved domain.ChatMessage
	err := r.pool.QueryRow(ctx, query,
		msg.Text,
		msg.Sender,
		msg.Room,
		string(msg.MessageType),
	).Scan(
		&saved.ID,
		&saved.Text,
		&saved.Sender,
		&saved.Room,
		&saved.MessageType,
		&saved.CreatedAt,
	)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return saved, nil
}

func (r *PgMessageRepository) RecentMessages(ctx context.Context, room string, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		return []domain.ChatMessage{}, nil
	}

	const query = `
		SELECT id, text, sender, room, message_type, created_at
		FROM (
			SELECT id::text, text, sender, room, message_type, created_at
			FROM messages
			WHERE room = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.ChatMessage, 0, limit)
	for rows.Next() {
		var msg domain.ChatMessage
		err = rows.Scan(
			&msg.ID,
			&msg.Text,
			&msg.Sender,
			&msg.Room,
			&msg.MessageType,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
