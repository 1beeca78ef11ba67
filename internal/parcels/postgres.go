package parcels

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepository persists parcels in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

const parcelColumns = `id, student_id, parcel_code, carrier, received_at, collected, collected_at, otp, note`

func (r *PGRepository) Insert(ctx context.Context, p Parcel) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO parcels (`+parcelColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, p.ID, p.StudentID, p.ParcelCode, p.Carrier, p.ReceivedAt, p.Collected, p.CollectedAt, p.OTP, p.Note)
	return err
}

func (r *PGRepository) Get(ctx context.Context, id string) (*Parcel, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+parcelColumns+` FROM parcels WHERE id = $1`, id)
	p, err := scanParcel(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) Update(ctx context.Context, p Parcel) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE parcels SET collected = $2, collected_at = $3, note = $4 WHERE id = $1
	`, p.ID, p.Collected, p.CollectedAt, p.Note)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM parcels WHERE id = $1`, id)
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

func (r *PGRepository) List(ctx context.Context) ([]Parcel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+parcelColumns+` FROM parcels ORDER BY received_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Parcel
	for rows.Next() {
		p, err := scanParcel(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParcel(row rowScanner) (Parcel, error) {
	var p Parcel
	var collectedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.StudentID, &p.ParcelCode, &p.Carrier, &p.ReceivedAt,
		&p.Collected, &collectedAt, &p.OTP, &p.Note); err != nil {
		return Parcel{}, err
	}
	if collectedAt.Valid {
		t := collectedAt.Time
		p.CollectedAt = &t
	}
	return p, nil
}
