package students

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepository persists students in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

const studentColumns = `id, roll_number, name, parent_name, parent_contact, student_contact,
	address, email, total_amount, joining_date, profile_photo_url, username, password, created_at`

func (r *PGRepository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studentColumns+` FROM students ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *PGRepository) Get(ctx context.Context, id string) (*Student, error) {
	return r.getOne(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
}

func (r *PGRepository) GetByUsername(ctx context.Context, username string) (*Student, error) {
	return r.getOne(ctx, `SELECT `+studentColumns+` FROM students WHERE username = $1`, username)
}

func (r *PGRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*Student, error) {
	return r.getOne(ctx, `SELECT `+studentColumns+` FROM students WHERE roll_number = $1`, rollNumber)
}

func (r *PGRepository) getOne(ctx context.Context, query string, arg any) (*Student, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) Insert(ctx context.Context, s Student) error {
	var username, password any
	if s.Credentials != nil {
		username, password = s.Credentials.Username, s.Credentials.Password
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, roll_number, name, parent_name, parent_contact, student_contact,
			address, email, total_amount, joining_date, profile_photo_url, username, password, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`, s.ID, s.RollNumber, s.Details.Name, s.Details.ParentName, s.Details.ParentContact,
		s.Details.StudentContact, s.Details.Address, s.Details.Email, s.Details.TotalAmount,
		s.Details.JoiningDate, s.Details.ProfilePhotoURL, username, password, s.CreatedAt)
	return err
}

func (r *PGRepository) Update(ctx context.Context, s Student) error {
	var username, password any
	if s.Credentials != nil {
		username, password = s.Credentials.Username, s.Credentials.Password
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET roll_number = $2, name = $3, parent_name = $4, parent_contact = $5,
			student_contact = $6, address = $7, email = $8, total_amount = $9, joining_date = $10,
			profile_photo_url = $11, username = $12, password = $13
		WHERE id = $1
	`, s.ID, s.RollNumber, s.Details.Name, s.Details.ParentName, s.Details.ParentContact,
		s.Details.StudentContact, s.Details.Address, s.Details.Email, s.Details.TotalAmount,
		s.Details.JoiningDate, s.Details.ProfilePhotoURL, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (Student, error) {
	var s Student
	var total sql.NullFloat64
	var username, password sql.NullString
	if err := row.Scan(&s.ID, &s.RollNumber, &s.Details.Name, &s.Details.ParentName,
		&s.Details.ParentContact, &s.Details.StudentContact, &s.Details.Address, &s.Details.Email,
		&total, &s.Details.JoiningDate, &s.Details.ProfilePhotoURL, &username, &password, &s.CreatedAt); err != nil {
		return Student{}, err
	}
	if total.Valid {
		v := total.Float64
		s.Details.TotalAmount = &v
	}
	if username.Valid {
		s.Credentials = &Credentials{Username: username.String, Password: password.String}
	}
	return s, nil
}
