package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/templui/magiclink/model"
)

// SQL resolves users against the users table, see sqlstore migrations.
type SQL struct {
	db *sqlx.DB
}

func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

func (d *SQL) FindOrCreate(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := d.byEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		Role:      model.DefaultRole,
		CreatedAt: time.Now(),
	}

	query := `INSERT INTO users (id, email, role, created_at) VALUES ($1, $2, $3, $4)`
	_, err = d.db.ExecContext(ctx, query, user.ID, user.Email, user.Role, user.CreatedAt)
	if err != nil {
		// Check for unique constraint violation (works for both SQLite and PostgreSQL):
		// a concurrent first login won the insert, re-read its row.
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return d.byEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (d *SQL) byEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := d.db.GetContext(ctx, user, `SELECT id, email, role, created_at FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	return user, nil
}
