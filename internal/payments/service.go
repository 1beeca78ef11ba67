package payments

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Service keeps the fee ledger per student.
type Service struct {
	repo Repository
	dir  Directory
	now  func() time.Time
}

// NewService creates a service backed by a repository and the student
// directory.
func NewService(repo Repository, dir Directory) *Service {
	return &Service{repo: repo, dir: dir, now: func() time.Time { return time.Now().UTC() }}
}

func validMethod(m Method) bool {
	switch m {
	case MethodCash, MethodUPI, MethodCard, MethodBank:
		return true
	}
	return false
}

// AddPayment records an installment. The student must exist.
func (s *Service) AddPayment(ctx context.Context, studentID string, amount float64, method Method, paidAt time.Time) (Payment, error) {
	if amount <= 0 {
		return Payment{}, ErrInvalidAmount
	}
	if !validMethod(method) {
		return Payment{}, ErrInvalidMethod
	}
	if _, err := s.dir.Get(ctx, studentID); err != nil {
		return Payment{}, err
	}
	if paidAt.IsZero() {
		paidAt = s.now()
	}
	p := Payment{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Amount:    amount,
		Method:    method,
		PaidAt:    paidAt,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return Payment{}, err
	}
	return p, nil
}

// ListByStudent returns the student's payment history newest first.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]Payment, error) {
	all, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].PaidAt.After(all[j].PaidAt) })
	return all, nil
}

// TotalsFor computes due/paid/balance against the student's total amount.
func (s *Service) TotalsFor(ctx context.Context, studentID string) (Totals, error) {
	st, err := s.dir.Get(ctx, studentID)
	if err != nil {
		return Totals{}, err
	}
	history, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return Totals{}, err
	}
	var t Totals
	if st.Details.TotalAmount != nil {
		t.Due = *st.Details.TotalAmount
	}
	for _, p := range history {
		t.Paid += p.Amount
	}
	t.Balance = t.Due - t.Paid
	return t, nil
}

// SummaryAll builds one row per student in directory order.
func (s *Service) SummaryAll(ctx context.Context) ([]SummaryRow, error) {
	all, err := s.dir.List(ctx)
	if err != nil {
		return nil, err
	}
	paidBy := map[string]float64{}
	payments, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		paidBy[p.StudentID] += p.Amount
	}
	rows := make([]SummaryRow, 0, len(all))
	for _, st := range all {
		row := SummaryRow{
			StudentID:  st.ID,
			RollNumber: st.RollNumber,
			Name:       st.Details.Name,
			Paid:       paidBy[st.ID],
		}
		if st.Details.TotalAmount != nil {
			row.Due = *st.Details.TotalAmount
		}
		row.Balance = row.Due - row.Paid
		rows = append(rows, row)
	}
	return rows, nil
}

// ExportCSV writes the summary as CSV: roll, name, due, paid, balance.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.SummaryAll(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"roll_number", "name", "due", "paid", "balance"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.RollNumber,
			row.Name,
			strconv.FormatFloat(row.Due, 'f', 2, 64),
			strconv.FormatFloat(row.Paid, 'f', 2, 64),
			strconv.FormatFloat(row.Balance, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
