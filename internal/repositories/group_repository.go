package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"sync-service/internal/models"
)

var ErrGroupNotFound = errors.New("group not found")

// UpsertGroupParams carries one group observation from a sync pass. Nil
// Description/ParticipantCount mean "not reported this time" and never
// regress stored values.
type UpsertGroupParams struct {
	GroupJID         string
	Name             string
	Description      *string
	ParticipantCount *int
	InstanceID       int
}

// GroupRepository abstracts group persistence.
type GroupRepository interface {
	Upsert(ctx context.Context, params UpsertGroupParams) (int, error)
	EnsureExists(ctx context.Context, groupJID, placeholderName string, instanceID int) (int, error)
	ByJID(ctx context.Context, groupJID string) (models.Group, error)
	DeactivateAbsent(ctx context.Context, instanceID int, seenJIDs []string) (int64, error)
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// Upsert creates the group on first sight and refreshes it on conflict. The
// name and update timestamp always follow the gateway; description and
// participant count only move forward when the incoming value is non-null.
func (r *GroupRepo) Upsert(ctx context.Context, params UpsertGroupParams) (int, error) {
	var id int
	err := r.db.GetContext(ctx, &id, `
        INSERT INTO wa_groups (whatsapp_group_id, group_name, group_description, participant_count, instance_id, is_active)
        VALUES ($1, $2, $3, $4, $5, TRUE)
        ON CONFLICT (whatsapp_group_id) DO UPDATE
        SET group_name        = EXCLUDED.group_name,
            group_description = COALESCE(EXCLUDED.group_description, wa_groups.group_description),
            participant_count = COALESCE(EXCLUDED.participant_count, wa_groups.participant_count),
            is_active         = TRUE,
            updated_at        = NOW()
        RETURNING group_id`,
		params.GroupJID, params.Name, params.Description, params.ParticipantCount, params.InstanceID)
	return id, err
}

// EnsureExists inserts a placeholder row so passes that only know the
// external id can link against the group. Existing rows are left untouched.
func (r *GroupRepo) EnsureExists(ctx context.Context, groupJID, placeholderName string, instanceID int) (int, error) {
	if _, err := r.db.ExecContext(ctx, `
        INSERT INTO wa_groups (whatsapp_group_id, group_name, is_active, instance_id)
        VALUES ($1, $2, TRUE, $3)
        ON CONFLICT (whatsapp_group_id) DO NOTHING`,
		groupJID, placeholderName, instanceID); err != nil {
		return 0, err
	}
	group, err := r.ByJID(ctx, groupJID)
	if err != nil {
		return 0, err
	}
	return group.ID, nil
}

// ByJID resolves the stored group row for an external group id.
func (r *GroupRepo) ByJID(ctx context.Context, groupJID string) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `
        SELECT group_id, whatsapp_group_id, group_name, group_description,
               participant_count, is_active, is_monitored, instance_id,
               created_at, updated_at
        FROM wa_groups WHERE whatsapp_group_id=$1`, groupJID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// DeactivateAbsent soft-deactivates groups of an instance that a successful
// full listing no longer reports. Rows are never hard-deleted.
func (r *GroupRepo) DeactivateAbsent(ctx context.Context, instanceID int, seenJIDs []string) (int64, error) {
	if len(seenJIDs) == 0 {
		res, err := r.db.ExecContext(ctx,
			`UPDATE wa_groups SET is_active = FALSE, updated_at = NOW() WHERE instance_id = $1 AND is_active`, instanceID)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}

	query, args, err := sqlx.In(
		`UPDATE wa_groups SET is_active = FALSE, updated_at = NOW()
         WHERE instance_id = ? AND is_active AND whatsapp_group_id NOT IN (?)`,
		instanceID, seenJIDs)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
