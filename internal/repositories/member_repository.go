package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"sync-service/internal/identity"
	"sync-service/internal/models"
)

const memberColumns = `member_id, whatsapp_id, display_name, name_trust,
    phone_number, job_title, company, ai_summary, created_at, updated_at`

// MemberRepository abstracts member persistence. All writes are keyed by the
// canonical whatsapp id, never by internal id.
type MemberRepository interface {
	Upsert(ctx context.Context, canonicalID, name string, trust identity.Trust) (models.Member, bool, error)
}

// MemberRepo is a sqlx implementation of MemberRepository.
type MemberRepo struct {
	db *sqlx.DB
}

// NewMemberRepo constructs a MemberRepo.
func NewMemberRepo(db *sqlx.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

// Upsert creates the member if absent and always returns the stored row.
// When a usable candidate name is supplied, it is applied under the trust
// rule: a stored name below the confirmed tier yields to an equal or better
// candidate, a confirmed name is final. The second return reports whether the
// candidate name was written.
func (r *MemberRepo) Upsert(ctx context.Context, canonicalID, name string, trust identity.Trust) (models.Member, bool, error) {
	if !identity.UsableName(name) {
		name = ""
	}
	phone := identity.PhoneFromCanonical(canonicalID)

	var member models.Member
	if name == "" {
		err := r.db.GetContext(ctx, &member, `
            INSERT INTO wa_members (whatsapp_id, phone_number)
            VALUES ($1, $2)
            ON CONFLICT (whatsapp_id) DO UPDATE SET whatsapp_id = EXCLUDED.whatsapp_id
            RETURNING `+memberColumns, canonicalID, phone)
		return member, false, err
	}

	err := r.db.GetContext(ctx, &member, `
        INSERT INTO wa_members (whatsapp_id, display_name, name_trust, phone_number)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (whatsapp_id) DO UPDATE
        SET display_name = EXCLUDED.display_name,
            name_trust   = EXCLUDED.name_trust,
            updated_at   = NOW()
        WHERE wa_members.name_trust < $5
          AND wa_members.name_trust <= EXCLUDED.name_trust
        RETURNING `+memberColumns,
		canonicalID, name, int16(trust), phone, int16(identity.TrustConfirmed))
	if err == nil {
		return member, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, false, err
	}

	// conflict row kept its higher-trust name; the row is still needed
	err = r.db.GetContext(ctx, &member,
		`SELECT `+memberColumns+` FROM wa_members WHERE whatsapp_id=$1`, canonicalID)
	return member, false, err
}
