package complaints

import (
	"context"
	"database/sql"
)

// PGRepository persists complaints in Postgres.
type PGRepository struct {
	db *sql.DB
}

func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) Insert(ctx context.Context, c Complaint) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO complaints (id, student_id, category, body, status, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
	`, c.ID, c.StudentID, c.Category, c.Text, string(c.Status), c.CreatedAt)
	return err
}

func (r *PGRepository) Get(ctx context.Context, id string) (*Complaint, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(student_id, ''), category, body, status, created_at
		FROM complaints WHERE id = $1
	`, id)
	var c Complaint
	if err := row.Scan(&c.ID, &c.StudentID, &c.Category, &c.Text, &c.Status, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachUpvotes(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) List(ctx context.Context) ([]Complaint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(student_id, ''), category, body, status, created_at
		FROM complaints ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Complaint
	for rows.Next() {
		var c Complaint
		if err := rows.Scan(&c.ID, &c.StudentID, &c.Category, &c.Text, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.attachUpvotes(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE complaints SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) AddUpvote(ctx context.Context, complaintID, studentID string) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO complaint_upvotes (complaint_id, student_id)
		SELECT $1, $2 WHERE EXISTS (SELECT 1 FROM complaints WHERE id = $1)
		ON CONFLICT (complaint_id, student_id) DO NOTHING
	`, complaintID, studentID)
	if err != nil {
		return err
	}
	if _, err := res.RowsAffected(); err != nil {
		return err
	}
	row := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM complaints WHERE id = $1)`, complaintID)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) attachUpvotes(ctx context.Context, c *Complaint) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT student_id FROM complaint_upvotes WHERE complaint_id = $1
	`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var voter string
		if err := rows.Scan(&voter); err != nil {
			return err
		}
		c.Upvotes = append(c.Upvotes, voter)
	}
	return rows.Err()
}
