package models

import (
	"database/sql"
	"time"
)

// Group is a chat group keyed by its external gateway id. Sync passes upsert
// by that key and soft-deactivate rows that disappear from the gateway; no
// sync path hard-deletes a group.
type Group struct {
	ID               int            `db:"group_id" json:"group_id"`
	GroupJID         string         `db:"whatsapp_group_id" json:"whatsapp_group_id"`
	Name             string         `db:"group_name" json:"group_name"`
	Description      sql.NullString `db:"group_description" json:"group_description"`
	ParticipantCount sql.NullInt64  `db:"participant_count" json:"participant_count"`
	IsActive         bool           `db:"is_active" json:"is_active"`
	IsMonitored      bool           `db:"is_monitored" json:"is_monitored"`
	InstanceID       sql.NullInt64  `db:"instance_id" json:"instance_id"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// GroupMembership links a member to a group. Unique on (group, member); the
// admin flag keeps its first written value on replays.
type GroupMembership struct {
	GroupID  int          `db:"group_id" json:"group_id"`
	MemberID int          `db:"member_id" json:"member_id"`
	IsAdmin  bool         `db:"is_admin" json:"is_admin"`
	JoinedAt sql.NullTime `db:"joined_at" json:"joined_at"`
}
