package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Signs table - the practice dictionary
		`CREATE TABLE IF NOT EXISTS signs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			letter TEXT NOT NULL DEFAULT '',
			movement TEXT NOT NULL DEFAULT 'static' CHECK(movement IN ('static', 'up', 'down', 'left', 'right', 'circle', 'wave')),
			min_movement REAL NOT NULL DEFAULT 0,
			thumb INTEGER NOT NULL DEFAULT 0,
			index_finger INTEGER NOT NULL DEFAULT 0,
			middle INTEGER NOT NULL DEFAULT 0,
			ring INTEGER NOT NULL DEFAULT 0,
			pinky INTEGER NOT NULL DEFAULT 0,
			hint TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Attempts table - confirmed practice results per sign
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			sign_id TEXT NOT NULL REFERENCES signs(id) ON DELETE CASCADE,
			confidence REAL NOT NULL DEFAULT 0,
			held_seconds REAL NOT NULL DEFAULT 0,
			excellent INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_attempts_sign_id ON attempts(sign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_created_at ON attempts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_signs_letter ON signs(letter)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
