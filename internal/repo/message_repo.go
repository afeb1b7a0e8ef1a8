package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/carelink/server/internal/model"
)

// MessageRepo defines the interface for the append-only message log
type MessageRepo interface {
	Append(ctx context.Context, sender uuid.UUID, content string, receiver uuid.UUID) (model.Message, error)
	Between(ctx context.Context, a, b uuid.UUID) ([]model.Message, error)
	Exchanges(ctx context.Context, userID uuid.UUID) ([]model.Exchange, error)
}

type messageRepo struct {
	db *sql.DB
}

// NewMessageRepo creates a new MessageRepo instance
func NewMessageRepo(db *sql.DB) MessageRepo {
	return &messageRepo{db: db}
}

// Append inserts a message; id, seq and timestamp are assigned by the store at commit.
// A sender or receiver that is not an account fails with a *ConstraintError.
func (r *messageRepo) Append(ctx context.Context, sender uuid.UUID, content string, receiver uuid.UUID) (model.Message, error) {
	query := `
		INSERT INTO messages (content, sender, receiver)
		VALUES ($1, $2, $3)
		RETURNING id, seq, created_at
	`
	msg := model.Message{
		Content:  content,
		Sender:   sender,
		Receiver: receiver,
	}
	err := r.db.QueryRowContext(ctx, query, content, sender, receiver).Scan(&msg.ID, &msg.Seq, &msg.Timestamp)
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to append message: %w", classify(err))
	}
	return msg, nil
}

// Between returns messages exchanged by a and b in both directions, most recent first
func (r *messageRepo) Between(ctx context.Context, a, b uuid.UUID) ([]model.Message, error) {
	query := `
		SELECT id, seq, content, sender, receiver, created_at
		FROM messages
		WHERE (sender = $1 AND receiver = $2) OR (sender = $2 AND receiver = $1)
		ORDER BY created_at DESC, seq DESC
	`
	rows, err := r.db.QueryContext(ctx, query, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Seq, &m.Content, &m.Sender, &m.Receiver, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

// Exchanges returns the distinct sender/receiver pairs of messages involving userID,
// ordered by the first message of each pair
func (r *messageRepo) Exchanges(ctx context.Context, userID uuid.UUID) ([]model.Exchange, error) {
	query := `
		SELECT sender, receiver
		FROM messages
		WHERE sender = $1 OR receiver = $1
		GROUP BY sender, receiver
		ORDER BY min(seq)
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	exchanges := make([]model.Exchange, 0)
	for rows.Next() {
		var e model.Exchange
		if err := rows.Scan(&e.Sender, &e.Receiver); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		exchanges = append(exchanges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchanges: %w", err)
	}
	return exchanges, nil
}
