package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Hotspots table - interactive regions on the projection surface.
		// Positions are projector pixels; radius is in normalized camera
		// units, matching how touch containment is evaluated.
		`CREATE TABLE IF NOT EXISTS hotspots (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			media TEXT NOT NULL DEFAULT '',
			proj_x REAL NOT NULL,
			proj_y REAL NOT NULL,
			radius REAL NOT NULL DEFAULT 0.03,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Activations table - one row per hotspot activation, for visitor
		// analytics.
		`CREATE TABLE IF NOT EXISTS activations (
			id TEXT PRIMARY KEY,
			hotspot_id INTEGER NOT NULL REFERENCES hotspots(id) ON DELETE CASCADE,
			activated_at DATETIME NOT NULL
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activations_hotspot_id ON activations(hotspot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activations_activated_at ON activations(activated_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
