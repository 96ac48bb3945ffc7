package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// MembershipRepository abstracts the group-member link table.
type MembershipRepository interface {
	Link(ctx context.Context, groupID, memberID int, isAdmin bool) (bool, error)
	CountForGroup(ctx context.Context, groupID int) (int, error)
}

// MembershipRepo is a sqlx implementation of MembershipRepository.
type MembershipRepo struct {
	db *sqlx.DB
}

// NewMembershipRepo constructs a MembershipRepo.
func NewMembershipRepo(db *sqlx.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

// Link records a (group, member) pair once. Re-observing the pair is a no-op
// that also leaves the admin flag at its first written value. It reports
// whether a new link row was created.
func (r *MembershipRepo) Link(ctx context.Context, groupID, memberID int, isAdmin bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO wa_group_members (group_id, member_id, is_admin, joined_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (group_id, member_id) DO NOTHING`,
		groupID, memberID, isAdmin)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForGroup returns the number of stored membership rows for a group.
func (r *MembershipRepo) CountForGroup(ctx context.Context, groupID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM wa_group_members WHERE group_id=$1`, groupID)
	return count, err
}
