package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/feedback-portal/internal/config"
	"github.com/AnshRaj112/feedback-portal/pkg/apperrors"
)

const FeedbackTable = "feedback"

var schemaQueries = map[string][]string{
	config.DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS feedback (
			id UUID PRIMARY KEY,
			student_name TEXT NOT NULL,
			email TEXT NOT NULL,
			comment TEXT NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_submitted_at ON feedback(submitted_at)`,
	},
	config.DriverMySQL: {
		// MySQL has no CREATE INDEX IF NOT EXISTS, so the index lives in the table definition
		`CREATE TABLE IF NOT EXISTS feedback (
			id CHAR(36) NOT NULL PRIMARY KEY,
			student_name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			comment TEXT NOT NULL,
			submitted_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			INDEX idx_feedback_submitted_at (submitted_at)
		) DEFAULT CHARSET=utf8mb4`,
	},
}

// InitTables creates the feedback table if it doesn't exist
func (p *Provider) InitTables(ctx context.Context) error {
	queries, ok := schemaQueries[p.driver]
	if !ok {
		return apperrors.NewStorageError("no schema for driver", fmt.Errorf("driver %q", p.driver))
	}

	err := p.WithConn(ctx, func(conn *sql.Conn) error {
		for _, query := range queries {
			if _, err := conn.ExecContext(ctx, query); err != nil {
				return apperrors.NewStorageError("failed to initialize schema", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Msg("feedback table initialized")
	return nil
}
