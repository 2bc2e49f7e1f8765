package receipt

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
)

type Service struct {
	appointments repository.AppointmentRepository
	finance      repository.FinanceRepository
	source       model.ReceiptSource
}

func NewService(appointments repository.AppointmentRepository, finance repository.FinanceRepository, source model.ReceiptSource) *Service {
	if source == "" {
		source = model.ReceiptSourceAppointments
	}
	return &Service{appointments: appointments, finance: finance, source: source}
}

// List returns the identity's receipts with their total. With the finance
// source configured, an absent or empty ledger falls back to completed
// appointment payments.
func (s *Service) List(ctx context.Context, id model.Identity) (*model.ReceiptList, error) {
	if s.source == model.ReceiptSourceFinance && id.UserID != nil && !id.Demo {
		list, err := s.fromFinance(ctx, id)
		switch {
		case err == nil && len(list.Receipts) > 0:
			return list, nil
		case err != nil && !apperrors.Is(err, apperrors.ErrNotFound):
			return nil, err
		}
		log.Debug().Str("user_id", id.UserID.String()).Msg("no finance transactions, using appointment payments")
	}
	return s.fromAppointments(ctx, id)
}

func (s *Service) fromFinance(ctx context.Context, id model.Identity) (*model.ReceiptList, error) {
	txs, err := s.finance.ListByUser(ctx, *id.UserID)
	if err != nil {
		return nil, err
	}

	list := &model.ReceiptList{Receipts: make([]model.Receipt, 0, len(txs)), Source: model.ReceiptSourceFinance}
	for _, tx := range txs {
		desc := "Transaction"
		if tx.Description != nil && *tx.Description != "" {
			desc = *tx.Description
		}
		list.Receipts = append(list.Receipts, model.Receipt{
			ID:          tx.ID,
			Date:        tx.CreatedAt,
			Description: desc,
			Amount:      tx.Amount,
			Status:      tx.Status,
		})
		list.TotalEarnings += tx.Amount
	}
	return list, nil
}

func (s *Service) fromAppointments(ctx context.Context, id model.Identity) (*model.ReceiptList, error) {
	list := &model.ReceiptList{Receipts: []model.Receipt{}, Source: model.ReceiptSourceAppointments}
	if id.DoctorID == nil {
		return list, nil
	}

	payments, err := s.appointments.ListCompletedPayments(ctx, *id.DoctorID)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		list.Receipts = append(list.Receipts, model.Receipt{
			ID:          p.AppointmentID,
			Date:        p.PaidAt,
			Description: "Consultation - " + patientLabel(p.PatientName),
			Amount:      p.Amount,
			Status:      string(model.PaymentStatusCompleted),
		})
		list.TotalEarnings += p.Amount
	}
	return list, nil
}

func patientLabel(name *string) string {
	if name == nil || strings.TrimSpace(*name) == "" {
		return "Patient"
	}
	return *name
}
