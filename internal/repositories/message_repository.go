package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"sync-service/internal/models"
)

// InsertMessageParams carries one observed message.
type InsertMessageParams struct {
	MessageJID string
	GroupID    int
	SenderID   int
	Content    string
	MediaType  string
	FromMe     bool
	Timestamp  time.Time
}

// MessageRepository abstracts message persistence.
type MessageRepository interface {
	Insert(ctx context.Context, params InsertMessageParams) (*models.Message, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Insert stores a message once per external message id and returns the new
// row. A conflicting re-insert is a no-op reported as a nil row, never an
// error.
func (r *MessageRepo) Insert(ctx context.Context, params InsertMessageParams) (*models.Message, error) {
	var message models.Message
	err := r.db.GetContext(ctx, &message, `
        INSERT INTO wa_messages (whatsapp_message_id, group_id, sender_id, message_content, media_type, is_from_me, message_timestamp)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (whatsapp_message_id) DO NOTHING
        RETURNING message_id, whatsapp_message_id, group_id, sender_id,
                  message_content, media_type, is_from_me, message_timestamp, created_at`,
		params.MessageJID, params.GroupID, params.SenderID, params.Content,
		params.MediaType, params.FromMe, params.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}
