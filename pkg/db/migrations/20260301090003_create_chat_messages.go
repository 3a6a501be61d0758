package migrations

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/skillsys/hrassist/pkg/db"
)

// Migration20260301090003CreateChatMessages stores chat turns so a session
// id can be resumed.
func Migration20260301090003CreateChatMessages() db.Migration {
	return db.Migration{
		Version:     20260301090003,
		Description: "Create chat_messages table",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS chat_messages (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					session_id TEXT NOT NULL,
					role TEXT NOT NULL,
					content TEXT NOT NULL,
					created_at DATETIME NOT NULL
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create chat_messages table")
			}
			if _, err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, id)"); err != nil {
				return errors.Wrap(err, "failed to create chat_messages index")
			}
			return nil
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS chat_messages")
			return errors.Wrap(err, "failed to drop chat_messages table")
		},
	}
}
