package model

import (
	"time"

	"github.com/google/uuid"
)

type ReceiptSource string

const (
	ReceiptSourceAppointments ReceiptSource = "appointments"
	ReceiptSourceFinance      ReceiptSource = "finance"
)

type FinanceTransaction struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Description *string   `db:"description" json:"description"`
	Amount      float64   `db:"amount" json:"amount"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CompletedPayment is a settled appointment as listed on the receipts page.
type CompletedPayment struct {
	AppointmentID uuid.UUID `db:"id"`
	PatientName   *string   `db:"patient_name"`
	Amount        float64   `db:"payment_amount"`
	PaidAt        time.Time `db:"updated_at"`
}

type Receipt struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
}

type ReceiptList struct {
	Receipts      []Receipt     `json:"receipts"`
	TotalEarnings float64       `json:"total_earnings"`
	Source        ReceiptSource `json:"source"`
}
