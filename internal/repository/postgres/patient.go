package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
)

// DefaultPatientLimit caps the roster returned to the create form.
const DefaultPatientLimit = 50

const patientSelect = `
	SELECT p.id, p.user_id, p.dob, p.gender, p.blood_group, p.created_at,
		   COALESCE(u.name, '') AS name, COALESCE(u.email, '') AS email, u.phone
	FROM patients p
	LEFT JOIN users u ON u.id = p.user_id
`

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, patientSelect+` WHERE p.id = $1`, id); err != nil {
		return nil, notFoundOr(err, "patient", "get patient")
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]model.Patient, error) {
	query := patientSelect
	args := []interface{}{}
	limit := DefaultPatientLimit

	if filters != nil {
		if s := strings.TrimSpace(filters.Search); s != "" {
			query += ` WHERE u.name ILIKE $1 OR u.email ILIKE $1`
			args = append(args, "%"+s+"%")
		}
		if filters.Limit > 0 && filters.Limit < limit {
			limit = filters.Limit
		}
	}
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	patients := []model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
