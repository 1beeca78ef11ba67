package payments

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campusstay/internal/students"
)

func newTestService(t *testing.T) (*Service, *students.Service) {
	t.Helper()
	dir := students.NewService(students.NewMemoryRepository())
	return NewService(NewMemoryRepository(), dir), dir
}

func addStudent(t *testing.T, dir *students.Service, roll, name string, total float64) students.Student {
	t.Helper()
	st, err := dir.Create(context.Background(), roll, students.Details{Name: name, TotalAmount: &total})
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestAddPaymentAndTotals(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestService(t)
	st := addStudent(t, dir, "21CS001", "Asha", 50000)

	if _, err := s.AddPayment(ctx, st.ID, 20000, MethodUPI, time.Time{}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddPayment(ctx, st.ID, 10000, MethodCash, time.Time{}); err != nil {
		t.Fatal(err)
	}

	totals, err := s.TotalsFor(ctx, st.ID)
	if err != nil {
		t.Fatal(err)
	}
	if totals.Due != 50000 || totals.Paid != 30000 || totals.Balance != 20000 {
		t.Fatalf("totals = %+v", totals)
	}
}

func TestAddPaymentValidation(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestService(t)
	st := addStudent(t, dir, "21CS001", "Asha", 50000)

	if _, err := s.AddPayment(ctx, st.ID, -1, MethodCash, time.Time{}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative amount err = %v, want ErrInvalidAmount", err)
	}
	if _, err := s.AddPayment(ctx, st.ID, 100, Method("cheque"), time.Time{}); !errors.Is(err, ErrInvalidMethod) {
		t.Fatalf("bad method err = %v, want ErrInvalidMethod", err)
	}
	if _, err := s.AddPayment(ctx, "missing", 100, MethodCash, time.Time{}); !errors.Is(err, students.ErrNotFound) {
		t.Fatalf("unknown student err = %v, want students.ErrNotFound", err)
	}
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestService(t)
	st := addStudent(t, dir, "21CS001", "Asha", 50000)
	if _, err := s.AddPayment(ctx, st.ID, 20000, MethodCard, time.Time{}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.ExportCSV(ctx, &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want header + 1 row", len(lines))
	}
	if lines[0] != "roll_number,name,due,paid,balance" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "21CS001,Asha,50000.00,20000.00,30000.00" {
		t.Fatalf("row = %q", lines[1])
	}
}
