package payments

import (
	"context"
	"database/sql"
)

// PGRepository persists payments in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) Insert(ctx context.Context, p Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, student_id, amount, method, paid_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.StudentID, p.Amount, p.Method, p.PaidAt)
	return err
}

func (r *PGRepository) ListByStudent(ctx context.Context, studentID string) ([]Payment, error) {
	return r.list(ctx, `
		SELECT id, student_id, amount, method, paid_at FROM payments
		WHERE student_id = $1
		ORDER BY paid_at DESC
	`, studentID)
}

func (r *PGRepository) ListAll(ctx context.Context) ([]Payment, error) {
	return r.list(ctx, `SELECT id, student_id, amount, method, paid_at FROM payments ORDER BY paid_at DESC`)
}

func (r *PGRepository) list(ctx context.Context, query string, args ...any) ([]Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.StudentID, &p.Amount, &p.Method, &p.PaidAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}
