package models

import (
	"database/sql"
	"time"

	"sync-service/internal/identity"
)

// Member is a person, keyed by the canonical whatsapp id. The display name is
// guarded by the trust tier stored next to it. Enrichment fields are written
// only by the AI enrichment collaborator, never by sync passes.
type Member struct {
	ID          int            `db:"member_id" json:"member_id"`
	WhatsAppID  string         `db:"whatsapp_id" json:"whatsapp_id"`
	DisplayName sql.NullString `db:"display_name" json:"display_name"`
	NameTrust   identity.Trust `db:"name_trust" json:"name_trust"`
	PhoneNumber sql.NullString `db:"phone_number" json:"phone_number"`
	JobTitle    sql.NullString `db:"job_title" json:"job_title"`
	Company     sql.NullString `db:"company" json:"company"`
	AISummary   sql.NullString `db:"ai_summary" json:"ai_summary"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}
