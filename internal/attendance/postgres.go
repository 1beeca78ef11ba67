package attendance

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepository persists attendance data in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) InsertSession(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_sessions (id, token, date_key, created_at, expires_at, locked)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.ID, s.Token, s.DateKey, s.CreatedAt, s.ExpiresAt, s.Locked)
	return err
}

func (r *PGRepository) ListSessions(ctx context.Context, dateKey string) ([]Session, error) {
	query := `
		SELECT id, token, date_key, created_at, expires_at, locked
		FROM attendance_sessions`
	args := []any{}
	if dateKey != "" {
		query += ` WHERE date_key = $1`
		args = append(args, dateKey)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Token, &s.DateKey, &s.CreatedAt, &s.ExpiresAt, &s.Locked); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *PGRepository) LockSessions(ctx context.Context, dateKey string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE attendance_sessions SET locked = TRUE WHERE date_key = $1
	`, dateKey)
	return err
}

func (r *PGRepository) UpsertRecord(ctx context.Context, rec Record) error {
	var lat, lng any
	if rec.Location != nil {
		lat, lng = rec.Location.Lat, rec.Location.Lng
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (date_key, student_id, status, marked_at, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date_key, student_id) DO UPDATE SET
			status = EXCLUDED.status,
			marked_at = EXCLUDED.marked_at,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng
	`, rec.DateKey, rec.StudentID, rec.Status, rec.MarkedAt, lat, lng)
	return err
}

func (r *PGRepository) GetRecord(ctx context.Context, dateKey, studentID string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT date_key, student_id, status, marked_at, lat, lng
		FROM attendance_records
		WHERE date_key = $1 AND student_id = $2
	`, dateKey, studentID)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PGRepository) ListRecords(ctx context.Context, dateKey string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date_key, student_id, status, marked_at, lat, lng
		FROM attendance_records
		WHERE date_key = $1
		ORDER BY student_id
	`, dateKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

func (r *PGRepository) GetFence(ctx context.Context) (*Fence, error) {
	row := r.db.QueryRowContext(ctx, `SELECT lat, lng, radius_m FROM geofence_settings WHERE id = 1`)
	var f Fence
	if err := row.Scan(&f.Center.Lat, &f.Center.Lng, &f.RadiusM); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGRepository) SetFence(ctx context.Context, f Fence) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO geofence_settings (id, lat, lng, radius_m)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET lat = EXCLUDED.lat, lng = EXCLUDED.lng, radius_m = EXCLUDED.radius_m
	`, f.Center.Lat, f.Center.Lng, f.RadiusM)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var lat, lng sql.NullFloat64
	if err := row.Scan(&rec.DateKey, &rec.StudentID, &rec.Status, &rec.MarkedAt, &lat, &lng); err != nil {
		return Record{}, err
	}
	if lat.Valid && lng.Valid {
		rec.Location = &Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return rec, nil
}
