package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
)

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, user_id, specialization, bio, created_at, updated_at
		FROM doctors
		WHERE user_id = $1
	`
	var doctor model.Doctor
	if err := r.GetDB().GetContext(ctx, &doctor, query, userID); err != nil {
		return nil, notFoundOr(err, "doctor", "get doctor by user")
	}
	return &doctor, nil
}

func (r *doctorRepository) First(ctx context.Context) (*model.Doctor, error) {
	query := `
		SELECT id, user_id, specialization, bio, created_at, updated_at
		FROM doctors
		ORDER BY created_at ASC
		LIMIT 1
	`
	var doctor model.Doctor
	if err := r.GetDB().GetContext(ctx, &doctor, query); err != nil {
		return nil, notFoundOr(err, "doctor", "get first doctor")
	}
	return &doctor, nil
}

func (r *doctorRepository) GetProfile(ctx context.Context, doctorID uuid.UUID) (*model.DoctorProfile, error) {
	query := `
		SELECT d.id AS doctor_id, d.user_id, u.name, u.email, u.phone,
			   d.specialization, d.bio
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE d.id = $1
	`
	var profile model.DoctorProfile
	if err := r.GetDB().GetContext(ctx, &profile, query, doctorID); err != nil {
		return nil, notFoundOr(err, "doctor", "get doctor profile")
	}
	return &profile, nil
}

func (r *doctorRepository) UpdateProfile(ctx context.Context, doctorID uuid.UUID, input *model.UpdateProfileInput) error {
	var first, last *string
	if input.Name != nil {
		f, l := model.SplitName(*input.Name)
		first, last = &f, &l
	}

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var userID uuid.UUID
		err := tx.GetContext(ctx, &userID, `
			UPDATE doctors
			SET specialization = COALESCE($1, specialization),
				bio = COALESCE($2, bio),
				updated_at = NOW()
			WHERE id = $3
			RETURNING user_id
		`, input.Specialization, input.Bio, doctorID)
		if err != nil {
			return notFoundOr(err, "doctor", "update doctor")
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users
			SET name = COALESCE($1, name),
				first_name = COALESCE($2, first_name),
				last_name = COALESCE($3, last_name),
				phone = COALESCE($4, phone),
				updated_at = NOW()
			WHERE id = $5
		`, input.Name, first, last, input.Phone, userID)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return nil
	})
}

