package models

import "time"

// Message is one observed chat message. Rows are created once per external
// message id and never mutated; duplicate inserts are no-ops.
type Message struct {
	ID               int       `db:"message_id" json:"message_id"`
	MessageJID       string    `db:"whatsapp_message_id" json:"whatsapp_message_id"`
	GroupID          int       `db:"group_id" json:"group_id"`
	SenderID         int       `db:"sender_id" json:"sender_id"`
	Content          string    `db:"message_content" json:"message_content"`
	MediaType        string    `db:"media_type" json:"media_type"`
	IsFromMe         bool      `db:"is_from_me" json:"is_from_me"`
	MessageTimestamp time.Time `db:"message_timestamp" json:"message_timestamp"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
