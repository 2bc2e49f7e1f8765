package postgres

import (
	"context"
	"fmt"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
)

func (r *caregiverRepository) ListActiveVerified(ctx context.Context) ([]model.Caregiver, error) {
	query := `
		SELECT id, name, type, specialization, rating, experience_years,
			   is_active, is_verified, created_at
		FROM caregivers
		WHERE is_active = TRUE AND is_verified = TRUE
		ORDER BY rating DESC
	`
	caregivers := []model.Caregiver{}
	if err := r.db.SelectContext(ctx, &caregivers, query); err != nil {
		return nil, fmt.Errorf("failed to list caregivers: %w", err)
	}
	return caregivers, nil
}
