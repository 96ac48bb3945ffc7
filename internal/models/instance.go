package models

import "time"

// Instance is one messaging-gateway connection. Rows are created lazily on
// first reference and never deleted.
type Instance struct {
	ID        int       `db:"instance_id" json:"instance_id"`
	Name      string    `db:"instance_name" json:"instance_name"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
