package chat

import (
	"context"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Roles of stored messages
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one stored turn of a session
type Message struct {
	ID        int64     `db:"id"`
	SessionID string    `db:"session_id"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// Store persists chat history in the chat_messages table
type Store struct {
	db *sqlx.DB
}

// NewStore wraps a migrated database
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Append records one exchange of a session atomically
func (s *Store) Append(ctx context.Context, sessionID string, messages ...Message) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, m := range messages {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO chat_messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)",
			sessionID, m.Role, m.Content, now); err != nil {
			return errors.Wrap(err, "failed to save chat message")
		}
	}
	return errors.Wrap(tx.Commit(), "failed to commit chat messages")
}

// History returns the last limit messages of a session, oldest first. A
// non-positive limit returns the whole session.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = -1
	}

	messages := []Message{}
	if err := s.db.SelectContext(ctx, &messages, `
		SELECT id, session_id, role, content, created_at FROM chat_messages
		WHERE session_id = ? ORDER BY id DESC LIMIT ?`, sessionID, limit); err != nil {
		return nil, errors.Wrap(err, "failed to load chat history")
	}

	slices.Reverse(messages)
	return messages, nil
}

// Delete removes a session's history
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chat_messages WHERE session_id = ?", sessionID)
	return errors.Wrap(err, "failed to delete chat session")
}
