package mess

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepository persists poll data in Postgres. Weekly options are stored as
// a JSON array in a text column.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) InsertWeekly(ctx context.Context, p WeeklyPoll) error {
	opts, err := json.Marshal(p.Options)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO weekly_polls (id, week_of, open, options, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.WeekOf, p.Open, string(opts), p.CreatedAt)
	return err
}

func (r *PGRepository) ListWeekly(ctx context.Context) ([]WeeklyPoll, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, week_of, open, options, created_at FROM weekly_polls ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []WeeklyPoll
	for rows.Next() {
		p, err := scanWeekly(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *PGRepository) GetWeekly(ctx context.Context, id string) (*WeeklyPoll, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, week_of, open, options, created_at FROM weekly_polls WHERE id = $1
	`, id)
	p, err := scanWeekly(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) UpdateWeekly(ctx context.Context, p WeeklyPoll) error {
	opts, err := json.Marshal(p.Options)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE weekly_polls SET open = $2, options = $3 WHERE id = $1
	`, p.ID, p.Open, string(opts))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPollNotFound
	}
	return nil
}

func (r *PGRepository) UpsertWeeklyVote(ctx context.Context, v WeeklyVote) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weekly_poll_votes (poll_id, student_id, day, meal, option)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (poll_id, student_id, day, meal) DO UPDATE SET option = EXCLUDED.option
	`, v.PollID, v.StudentID, v.Day, v.Meal, v.Option)
	return err
}

func (r *PGRepository) ListWeeklyVotes(ctx context.Context, pollID string) ([]WeeklyVote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT poll_id, student_id, day, meal, option FROM weekly_poll_votes WHERE poll_id = $1
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []WeeklyVote
	for rows.Next() {
		var v WeeklyVote
		if err := rows.Scan(&v.PollID, &v.StudentID, &v.Day, &v.Meal, &v.Option); err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

func (r *PGRepository) InsertDaily(ctx context.Context, p DailyPoll) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_meal_polls (id, date_key, slot, open)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date_key, slot) DO UPDATE SET open = EXCLUDED.open
	`, p.ID, p.DateKey, p.Slot, p.Open)
	return err
}

func (r *PGRepository) ListDaily(ctx context.Context, dateKey string) ([]DailyPoll, error) {
	query := `SELECT id, date_key, slot, open FROM daily_meal_polls`
	args := []any{}
	if dateKey != "" {
		query += ` WHERE date_key = $1`
		args = append(args, dateKey)
	}
	query += ` ORDER BY date_key, slot`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []DailyPoll
	for rows.Next() {
		var p DailyPoll
		if err := rows.Scan(&p.ID, &p.DateKey, &p.Slot, &p.Open); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *PGRepository) GetDaily(ctx context.Context, id string) (*DailyPoll, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date_key, slot, open FROM daily_meal_polls WHERE id = $1
	`, id)
	var p DailyPoll
	if err := row.Scan(&p.ID, &p.DateKey, &p.Slot, &p.Open); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) UpdateDaily(ctx context.Context, p DailyPoll) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE daily_meal_polls SET open = $2 WHERE id = $1
	`, p.ID, p.Open)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPollNotFound
	}
	return nil
}

func (r *PGRepository) UpsertDailyResponse(ctx context.Context, resp DailyResponse) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_meal_responses (poll_id, student_id, choice)
		VALUES ($1, $2, $3)
		ON CONFLICT (poll_id, student_id) DO UPDATE SET choice = EXCLUDED.choice
	`, resp.PollID, resp.StudentID, resp.Choice)
	return err
}

func (r *PGRepository) ListDailyResponses(ctx context.Context, pollID string) ([]DailyResponse, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT poll_id, student_id, choice FROM daily_meal_responses WHERE poll_id = $1
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []DailyResponse
	for rows.Next() {
		var resp DailyResponse
		if err := rows.Scan(&resp.PollID, &resp.StudentID, &resp.Choice); err != nil {
			return nil, err
		}
		res = append(res, resp)
	}
	return res, rows.Err()
}

func (r *PGRepository) CountSkips(ctx context.Context, studentID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM daily_meal_responses WHERE student_id = $1 AND choice = $2
	`, studentID, ChoiceSkip)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWeekly(row rowScanner) (WeeklyPoll, error) {
	var p WeeklyPoll
	var opts string
	if err := row.Scan(&p.ID, &p.WeekOf, &p.Open, &opts, &p.CreatedAt); err != nil {
		return WeeklyPoll{}, err
	}
	if err := json.Unmarshal([]byte(opts), &p.Options); err != nil {
		return WeeklyPoll{}, err
	}
	return p, nil
}
