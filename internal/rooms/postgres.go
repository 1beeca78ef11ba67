package rooms

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepository persists rooms and requests in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, capacity, filled_count, created_at
		FROM rooms
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Room
	index := map[string]int{}
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity, &room.FilledCount, &room.CreatedAt); err != nil {
			return nil, err
		}
		index[room.ID] = len(res)
		res = append(res, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	occRows, err := r.db.QueryContext(ctx, `
		SELECT room_id, student_id
		FROM room_occupants
		ORDER BY room_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer occRows.Close()
	for occRows.Next() {
		var roomID, studentID string
		if err := occRows.Scan(&roomID, &studentID); err != nil {
			return nil, err
		}
		if i, ok := index[roomID]; ok {
			res[i].Occupants = append(res[i].Occupants, studentID)
		}
	}
	return res, occRows.Err()
}

func (r *PGRepository) GetRoom(ctx context.Context, id string) (*Room, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, capacity, filled_count, created_at
		FROM rooms WHERE id = $1
	`, id)
	var room Room
	if err := row.Scan(&room.ID, &room.Name, &room.Capacity, &room.FilledCount, &room.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	occupants, err := r.occupants(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Occupants = occupants
	return &room, nil
}

func (r *PGRepository) occupants(ctx context.Context, roomID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT student_id FROM room_occupants
		WHERE room_id = $1
		ORDER BY position
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *PGRepository) InsertRoom(ctx context.Context, room Room) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rooms (id, name, capacity, filled_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, room.ID, room.Name, room.Capacity, room.FilledCount, room.CreatedAt)
	return err
}

func (r *PGRepository) UpdateRoom(ctx context.Context, room Room) error {
	return r.UpdateRooms(ctx, []Room{room})
}

// UpdateRooms replaces capacity, fill counter and the occupant rows of each
// room in a single transaction, which keeps a move atomic across both rooms.
func (r *PGRepository) UpdateRooms(ctx context.Context, updated []Room) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, room := range updated {
		res, err := tx.ExecContext(ctx, `
			UPDATE rooms SET name = $2, capacity = $3, filled_count = $4
			WHERE id = $1
		`, room.ID, room.Name, room.Capacity, room.FilledCount)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrRoomNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM room_occupants WHERE room_id = $1`, room.ID); err != nil {
			return err
		}
		for pos, studentID := range room.Occupants {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO room_occupants (room_id, student_id, position)
				VALUES ($1, $2, $3)
			`, room.ID, studentID, pos); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (r *PGRepository) DeleteRoom(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (r *PGRepository) FindRoomByOccupant(ctx context.Context, studentID string) (*Room, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT room_id FROM room_occupants WHERE student_id = $1
	`, studentID)
	var roomID string
	if err := row.Scan(&roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.GetRoom(ctx, roomID)
}

func (r *PGRepository) ReconcileFill(ctx context.Context, roomID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE rooms
		SET filled_count = (SELECT COUNT(*) FROM room_occupants WHERE room_id = $1)
		WHERE id = $1
	`, roomID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (r *PGRepository) ListRequests(ctx context.Context, status RequestStatus) ([]Request, error) {
	query := `
		SELECT id, type, student_id, target_room_id, status, note, created_at, resolved_at
		FROM room_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, req)
	}
	return res, rows.Err()
}

func (r *PGRepository) GetRequest(ctx context.Context, id string) (*Request, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, student_id, target_room_id, status, note, created_at, resolved_at
		FROM room_requests WHERE id = $1
	`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *PGRepository) InsertRequest(ctx context.Context, req Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO room_requests (id, type, student_id, target_room_id, status, note, created_at, resolved_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8)
	`, req.ID, req.Type, req.StudentID, req.TargetRoomID, req.Status, req.Note, req.CreatedAt, req.ResolvedAt)
	return err
}

func (r *PGRepository) UpdateRequest(ctx context.Context, req Request) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE room_requests
		SET status = $2, note = NULLIF($3, ''), resolved_at = $4
		WHERE id = $1
	`, req.ID, req.Status, req.Note, req.ResolvedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (Request, error) {
	var req Request
	var target, note sql.NullString
	var resolved sql.NullTime
	if err := row.Scan(&req.ID, &req.Type, &req.StudentID, &target, &req.Status, &note, &req.CreatedAt, &resolved); err != nil {
		return Request{}, err
	}
	req.TargetRoomID = target.String
	req.Note = note.String
	if resolved.Valid {
		t := resolved.Time
		req.ResolvedAt = &t
	}
	return req, nil
}
