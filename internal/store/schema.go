package store

// schemaStatements define the CampusStay tables. Occupants live in a child
// table so room deletion cannot leave occupant rows behind; rooms keep the
// denormalized filled_count from the legacy schema, reconciled by the worker.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		capacity INT NOT NULL CHECK (capacity >= 1),
		filled_count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS room_occupants (
		room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		student_id TEXT NOT NULL UNIQUE,
		position INT NOT NULL,
		PRIMARY KEY (room_id, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS room_requests (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		student_id TEXT NOT NULL,
		target_room_id TEXT,
		status TEXT NOT NULL,
		note TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		resolved_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS room_requests_status_idx ON room_requests (status, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS attendance_sessions (
		id TEXT PRIMARY KEY,
		token TEXT NOT NULL UNIQUE,
		date_key TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		locked BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		date_key TEXT NOT NULL,
		student_id TEXT NOT NULL,
		status TEXT NOT NULL,
		marked_at TIMESTAMPTZ NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		PRIMARY KEY (date_key, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS geofence_settings (
		id INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		radius_m DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		roll_number TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		parent_name TEXT NOT NULL DEFAULT '',
		parent_contact TEXT NOT NULL DEFAULT '',
		student_contact TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		total_amount DOUBLE PRECISION,
		joining_date TEXT NOT NULL DEFAULT '',
		profile_photo_url TEXT NOT NULL DEFAULT '',
		username TEXT UNIQUE,
		password TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		method TEXT NOT NULL,
		paid_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS payments_student_idx ON payments (student_id, paid_at DESC)`,
	`CREATE TABLE IF NOT EXISTS weekly_polls (
		id TEXT PRIMARY KEY,
		week_of TEXT NOT NULL,
		open BOOLEAN NOT NULL,
		options TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_poll_votes (
		poll_id TEXT NOT NULL REFERENCES weekly_polls(id) ON DELETE CASCADE,
		student_id TEXT NOT NULL,
		day TEXT NOT NULL,
		meal TEXT NOT NULL,
		option TEXT NOT NULL,
		PRIMARY KEY (poll_id, student_id, day, meal)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_meal_polls (
		id TEXT PRIMARY KEY,
		date_key TEXT NOT NULL,
		slot TEXT NOT NULL,
		open BOOLEAN NOT NULL,
		UNIQUE (date_key, slot)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_meal_responses (
		poll_id TEXT NOT NULL REFERENCES daily_meal_polls(id) ON DELETE CASCADE,
		student_id TEXT NOT NULL,
		choice TEXT NOT NULL,
		PRIMARY KEY (poll_id, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS parcels (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		parcel_code TEXT NOT NULL,
		carrier TEXT NOT NULL DEFAULT '',
		received_at TIMESTAMPTZ NOT NULL,
		collected BOOLEAN NOT NULL DEFAULT FALSE,
		collected_at TIMESTAMPTZ,
		otp TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS parcels_student_idx ON parcels (student_id, received_at DESC)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		organizer TEXT NOT NULL,
		organizer_name TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		starts_at TIMESTAMPTZ NOT NULL,
		venue TEXT NOT NULL,
		expected INT,
		budget DOUBLE PRECISION,
		poster_url TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS event_registrations (
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		student_id TEXT NOT NULL,
		PRIMARY KEY (event_id, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS event_comments (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		author TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id TEXT PRIMARY KEY,
		student_id TEXT,
		category TEXT NOT NULL,
		body TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS complaint_upvotes (
		complaint_id TEXT NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
		student_id TEXT NOT NULL,
		PRIMARY KEY (complaint_id, student_id)
	)`,
}
