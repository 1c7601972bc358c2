// ABOUTME: SQLite schema definition and initialization for the local store.
// ABOUTME: Defines exercises, plans, history, sync_queue, and active_session tables.
package store

// schemaVersion is bumped whenever the table layout changes shape.
const schemaVersion = 1

// initSchema creates or updates the database schema.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_info (
		version INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		muscles TEXT,
		equipment TEXT,
		has_reps INTEGER NOT NULL DEFAULT 0,
		has_weight INTEGER NOT NULL DEFAULT 0,
		has_time INTEGER NOT NULL DEFAULT 0,
		has_distance INTEGER NOT NULL DEFAULT 0,
		has_floors INTEGER NOT NULL DEFAULT 0,
		has_steps INTEGER NOT NULL DEFAULT 0,
		calories_per_minute REAL NOT NULL DEFAULT 0,
		image_url TEXT,
		video_url TEXT,
		is_favorite INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		day_of_week TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		exercise_name TEXT NOT NULL,
		sets INTEGER,
		reps INTEGER,
		weight_kg REAL,
		duration_minutes INTEGER,
		distance_km REAL,
		order_index INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		day_of_week TEXT NOT NULL,
		date TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		status TEXT NOT NULL,
		total_duration_minutes INTEGER NOT NULL DEFAULT 0,
		total_calories REAL NOT NULL DEFAULT 0,
		exercises TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sync_queue (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		table_name TEXT NOT NULL,
		action TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS active_session (
		slot_key TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_metrics (
		user_id TEXT PRIMARY KEY,
		weight_kg REAL NOT NULL DEFAULT 0,
		height_cm REAL NOT NULL DEFAULT 0,
		age INTEGER NOT NULL DEFAULT 0,
		gender TEXT,
		activity_level TEXT,
		goal TEXT,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exercises_name ON exercises(name);
	CREATE INDEX IF NOT EXISTS idx_exercises_category ON exercises(category);
	CREATE INDEX IF NOT EXISTS idx_exercises_favorite ON exercises(is_favorite);
	CREATE INDEX IF NOT EXISTS idx_plans_day ON plans(day_of_week, order_index);
	CREATE INDEX IF NOT EXISTS idx_plans_user ON plans(user_id);
	CREATE INDEX IF NOT EXISTS idx_history_date ON history(date DESC);
	CREATE INDEX IF NOT EXISTS idx_history_user ON history(user_id);
	CREATE INDEX IF NOT EXISTS idx_queue_status ON sync_queue(status);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Record the schema version once on first open.
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM schema_info`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := s.db.Exec(`INSERT INTO schema_info (version) VALUES (?)`, schemaVersion)
		return err
	}
	return nil
}

// SchemaVersion returns the stored schema version.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	if err := s.db.QueryRow(`SELECT version FROM schema_info LIMIT 1`).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}
