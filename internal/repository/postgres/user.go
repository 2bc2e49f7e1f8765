package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
)

const userSelect = `
	SELECT id, email, name, first_name, last_name, phone, password_hash,
		   created_at, updated_at
	FROM users
`

func (r *userRepository) CreateWithDoctor(ctx context.Context, user *model.User, doctor *model.Doctor) error {
	now := time.Now().UTC()
	user.ID = uuid.New()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt, user.UpdatedAt = now, now
	doctor.ID = uuid.New()
	doctor.UserID = user.ID
	doctor.CreatedAt, doctor.UpdatedAt = now, now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (
				id, email, name, first_name, last_name, phone,
				password_hash, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			user.ID,
			user.Email,
			user.Name,
			user.FirstName,
			user.LastName,
			user.Phone,
			user.PasswordHash,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			if pqCode(err) == pqUniqueViolation {
				return apperrors.Conflict(model.ErrEmailTaken.Error())
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO doctors (id, user_id, specialization, bio, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			doctor.ID,
			doctor.UserID,
			doctor.Specialization,
			doctor.Bio,
			doctor.CreatedAt,
			doctor.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create doctor: %w", err)
		}
		return nil
	})
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.GetDB().GetContext(ctx, &user, userSelect+` WHERE id = $1`, id); err != nil {
		return nil, notFoundOr(err, "user", "get user")
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.GetDB().GetContext(ctx, &user, userSelect+` WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, notFoundOr(err, "user", "get user by email")
	}
	return &user, nil
}
