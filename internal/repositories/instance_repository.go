package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"sync-service/internal/models"
)

// InstanceRepository abstracts gateway-instance persistence.
type InstanceRepository interface {
	GetOrCreate(ctx context.Context, name string) (models.Instance, error)
}

// InstanceRepo is a sqlx implementation of InstanceRepository.
type InstanceRepo struct {
	db *sqlx.DB
}

// NewInstanceRepo constructs an InstanceRepo.
func NewInstanceRepo(db *sqlx.DB) *InstanceRepo {
	return &InstanceRepo{db: db}
}

// GetOrCreate returns the instance row for a name, registering the instance
// lazily on first reference.
func (r *InstanceRepo) GetOrCreate(ctx context.Context, name string) (models.Instance, error) {
	var instance models.Instance
	err := r.db.GetContext(ctx, &instance,
		`SELECT instance_id, instance_name, is_active, created_at
         FROM wa_instances WHERE instance_name=$1`, name)
	if err == nil {
		return instance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Instance{}, err
	}

	// the no-op DO UPDATE keeps RETURNING populated when two passes register
	// the same instance concurrently
	err = r.db.GetContext(ctx, &instance, `
        INSERT INTO wa_instances (instance_name, is_active)
        VALUES ($1, TRUE)
        ON CONFLICT (instance_name) DO UPDATE SET instance_name = EXCLUDED.instance_name
        RETURNING instance_id, instance_name, is_active, created_at`, name)
	return instance, err
}
