package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Connect opens the canonical store and applies migrations. The returned
// handle is acquired once at process start and injected into every repository.
func Connect(dsn string, logger *zap.Logger) (*sqlx.DB, error) {
	database, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(database); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("database connected, migrations applied")
	return database, nil
}

func runMigrations(database *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS wa_instances (
            instance_id SERIAL PRIMARY KEY,
            instance_name TEXT NOT NULL UNIQUE,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS wa_groups (
            group_id SERIAL PRIMARY KEY,
            whatsapp_group_id TEXT NOT NULL UNIQUE,
            group_name TEXT NOT NULL,
            group_description TEXT,
            participant_count INT,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            is_monitored BOOLEAN NOT NULL DEFAULT FALSE,
            instance_id INT REFERENCES wa_instances(instance_id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS wa_members (
            member_id SERIAL PRIMARY KEY,
            whatsapp_id TEXT NOT NULL UNIQUE,
            display_name TEXT,
            name_trust SMALLINT NOT NULL DEFAULT 0,
            phone_number TEXT,
            job_title TEXT,
            company TEXT,
            ai_summary TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS wa_group_members (
            group_id INT NOT NULL REFERENCES wa_groups(group_id) ON DELETE CASCADE,
            member_id INT NOT NULL REFERENCES wa_members(member_id) ON DELETE CASCADE,
            is_admin BOOLEAN NOT NULL DEFAULT FALSE,
            joined_at TIMESTAMPTZ,
            PRIMARY KEY (group_id, member_id)
        );`,
		`CREATE TABLE IF NOT EXISTS wa_messages (
            message_id SERIAL PRIMARY KEY,
            whatsapp_message_id TEXT NOT NULL UNIQUE,
            group_id INT NOT NULL REFERENCES wa_groups(group_id) ON DELETE CASCADE,
            sender_id INT NOT NULL REFERENCES wa_members(member_id),
            message_content TEXT NOT NULL,
            media_type TEXT NOT NULL DEFAULT 'text',
            is_from_me BOOLEAN NOT NULL DEFAULT FALSE,
            message_timestamp TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_wa_messages_group_ts
            ON wa_messages (group_id, message_timestamp DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_wa_groups_instance
            ON wa_groups (instance_id);`,
	}

	for _, m := range migrations {
		if _, err := database.Exec(m); err != nil {
			return err
		}
	}
	return nil
}
