package events

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepository persists events in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

const eventColumns = `id, name, description, organizer, organizer_name, type, starts_at, venue,
	expected, budget, poster_url, status, created_at`

func (r *PGRepository) Insert(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, e.ID, e.Name, e.Description, e.Organizer, e.OrganizerName, e.Type, e.StartsAt, e.Venue,
		e.Expected, e.Budget, e.PosterURL, e.Status, e.CreatedAt)
	return err
}

func (r *PGRepository) Get(ctx context.Context, id string) (*Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attach(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PGRepository) List(ctx context.Context) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY starts_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range res {
		if err := r.attach(ctx, &res[i]); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *PGRepository) attach(ctx context.Context, e *Event) error {
	regRows, err := r.db.QueryContext(ctx, `
		SELECT student_id FROM event_registrations WHERE event_id = $1
	`, e.ID)
	if err != nil {
		return err
	}
	defer regRows.Close()
	for regRows.Next() {
		var id string
		if err := regRows.Scan(&id); err != nil {
			return err
		}
		e.Registrations = append(e.Registrations, id)
	}
	if err := regRows.Err(); err != nil {
		return err
	}

	comRows, err := r.db.QueryContext(ctx, `
		SELECT id, author, body, created_at FROM event_comments
		WHERE event_id = $1 ORDER BY created_at
	`, e.ID)
	if err != nil {
		return err
	}
	defer comRows.Close()
	for comRows.Next() {
		var c Comment
		if err := comRows.Scan(&c.ID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return err
		}
		e.Comments = append(e.Comments, c)
	}
	return comRows.Err()
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET status = $2 WHERE id = $1`, id, status)
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

func (r *PGRepository) AddRegistration(ctx context.Context, eventID, studentID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO event_registrations (event_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id, student_id) DO NOTHING
	`, eventID, studentID)
	return err
}

func (r *PGRepository) AddComment(ctx context.Context, eventID string, c Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO event_comments (id, event_id, author, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, eventID, c.Author, c.Text, c.CreatedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var e Event
	var expected sql.NullInt64
	var budget sql.NullFloat64
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Organizer, &e.OrganizerName, &e.Type,
		&e.StartsAt, &e.Venue, &expected, &budget, &e.PosterURL, &e.Status, &e.CreatedAt); err != nil {
		return Event{}, err
	}
	if expected.Valid {
		v := int(expected.Int64)
		e.Expected = &v
	}
	if budget.Valid {
		v := budget.Float64
		e.Budget = &v
	}
	return e, nil
}
