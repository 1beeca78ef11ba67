package payments

import (
	"context"
	"errors"
	"time"

	"campusstay/internal/students"
)

// Method is how a payment was made.
type Method string

const (
	MethodCash Method = "cash"
	MethodUPI  Method = "upi"
	MethodCard Method = "card"
	MethodBank Method = "bank"
)

// Payment is one recorded installment against a student's total amount.
type Payment struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Amount    float64   `json:"amount"`
	Method    Method    `json:"method"`
	PaidAt    time.Time `json:"paid_at"`
}

// Totals summarizes one student's ledger.
type Totals struct {
	Due     float64 `json:"due"`
	Paid    float64 `json:"paid"`
	Balance float64 `json:"balance"`
}

// SummaryRow is one line of the warden's overview and CSV export.
type SummaryRow struct {
	StudentID  string  `json:"student_id"`
	RollNumber string  `json:"roll_number"`
	Name       string  `json:"name"`
	Due        float64 `json:"due"`
	Paid       float64 `json:"paid"`
	Balance    float64 `json:"balance"`
}

var (
	ErrInvalidMethod = errors.New("invalid payment method")
	ErrInvalidAmount = errors.New("payment amount must be positive")
)

// Repository persists payments.
type Repository interface {
	Insert(ctx context.Context, p Payment) error
	ListByStudent(ctx context.Context, studentID string) ([]Payment, error)
	ListAll(ctx context.Context) ([]Payment, error)
}

// Directory supplies student identity and total amounts; satisfied by
// students.Service.
type Directory interface {
	List(ctx context.Context) ([]students.Student, error)
	Get(ctx context.Context, id string) (students.Student, error)
}
