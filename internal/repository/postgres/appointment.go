package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
)

const appointmentDetailSelect = `
	SELECT a.id, a.doctor_id, a.patient_id,
		   a.start_time, a.end_time, a.scheduled_date, a.scheduled_time,
		   a.status, a.mode, a.meet_link, a.payment_status, a.payment_amount,
		   a.notes, a.created_at, a.updated_at,
		   u.name AS patient_name, u.email AS patient_email, u.phone AS patient_phone,
		   p.dob AS patient_dob, p.gender AS patient_gender, p.blood_group AS patient_blood_group
	FROM appointments a
	LEFT JOIN patients p ON p.id = a.patient_id
	LEFT JOIN users u ON u.id = p.user_id
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, start_time, end_time,
			status, mode, meet_link, payment_status, payment_amount,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := time.Now().UTC()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.DoctorID,
		appointment.PatientID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Mode,
		appointment.MeetLink,
		appointment.PaymentStatus,
		appointment.PaymentAmount,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	var appointment model.AppointmentDetail
	if err := r.db.GetContext(ctx, &appointment, appointmentDetailSelect+` WHERE a.id = $1`, id); err != nil {
		return nil, notFoundOr(err, "appointment", "get appointment")
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment, from model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET start_time = $1, end_time = $2, scheduled_date = $3, scheduled_time = $4,
			status = $5, mode = $6, meet_link = $7, payment_status = $8,
			notes = $9, updated_at = $10
		WHERE id = $11 AND status = $12
	`
	appointment.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		appointment.StartTime,
		appointment.EndTime,
		appointment.ScheduledDate,
		appointment.ScheduledTime,
		appointment.Status,
		appointment.Mode,
		appointment.MeetLink,
		appointment.PaymentStatus,
		appointment.Notes,
		appointment.UpdatedAt,
		appointment.ID,
		from,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM appointments WHERE id = $1)`, appointment.ID); err != nil {
		return fmt.Errorf("failed to check appointment: %w", err)
	}
	if !exists {
		return apperrors.NotFound("appointment", nil)
	}
	return apperrors.Conflict("appointment was modified concurrently")
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]model.AppointmentDetail, error) {
	query := appointmentDetailSelect + ` WHERE 1 = 1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.DoctorID != nil {
			query += fmt.Sprintf(" AND a.doctor_id = $%d", argCount)
			args = append(args, *filters.DoctorID)
			argCount++
		}
		if len(filters.Status) > 0 {
			statuses := make([]string, len(filters.Status))
			for i, s := range filters.Status {
				statuses[i] = string(s)
			}
			query += fmt.Sprintf(" AND a.status = ANY($%d)", argCount)
			args = append(args, pq.Array(statuses))
			argCount++
		}
		if filters.StartFrom != nil {
			query += fmt.Sprintf(" AND a.start_time >= $%d", argCount)
			args = append(args, *filters.StartFrom)
			argCount++
		}
		if filters.StartBefore != nil {
			query += fmt.Sprintf(" AND a.start_time < $%d", argCount)
			args = append(args, *filters.StartBefore)
			argCount++
		}
	}

	query += " ORDER BY a.start_time ASC"
	if filters != nil && filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}

	appointments := []model.AppointmentDetail{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Stats(ctx context.Context, doctorID uuid.UUID) (*model.DashboardStats, error) {
	query := `
		SELECT COUNT(DISTINCT patient_id) AS patients,
			   COUNT(*) AS appointments,
			   COALESCE(SUM(payment_amount) FILTER (WHERE status = 'completed'), 0) AS earnings
		FROM appointments
		WHERE doctor_id = $1
	`
	var stats model.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return &stats, nil
}

func (r *appointmentRepository) ListCompletedPayments(ctx context.Context, doctorID uuid.UUID) ([]model.CompletedPayment, error) {
	query := `
		SELECT a.id, u.name AS patient_name, a.payment_amount, a.updated_at
		FROM appointments a
		LEFT JOIN patients p ON p.id = a.patient_id
		LEFT JOIN users u ON u.id = p.user_id
		WHERE a.doctor_id = $1 AND a.payment_status = 'completed'
		ORDER BY a.updated_at DESC
	`
	payments := []model.CompletedPayment{}
	if err := r.db.SelectContext(ctx, &payments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list completed payments: %w", err)
	}
	return payments, nil
}
