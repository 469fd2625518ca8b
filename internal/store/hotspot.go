package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Hotspot represents an interactive region definition stored in the
// database. ProjX and ProjY are conventional projector pixels, ProjX
// horizontal from the left edge and ProjY vertical from the top; Radius is
// in normalized camera units.
type Hotspot struct {
	ID        int
	Name      string
	Media     string
	ProjX     float64
	ProjY     float64
	Radius    float64
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HotspotRepository provides CRUD operations for hotspots.
type HotspotRepository struct {
	db *sql.DB
}

// Hotspots returns the hotspot repository for this store.
func (s *Store) Hotspots() *HotspotRepository {
	return &HotspotRepository{db: s.db}
}

// Create inserts a new hotspot into the database.
func (r *HotspotRepository) Create(h *Hotspot) error {
	now := time.Now()
	h.CreatedAt = now
	h.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO hotspots (id, name, media, proj_x, proj_y, radius, enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.Media, h.ProjX, h.ProjY, h.Radius, h.Enabled, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a hotspot by its ID.
func (r *HotspotRepository) GetByID(id int) (*Hotspot, error) {
	h := &Hotspot{}

	err := r.db.QueryRow(
		`SELECT id, name, media, proj_x, proj_y, radius, enabled, created_at, updated_at
		 FROM hotspots WHERE id = ?`,
		id,
	).Scan(&h.ID, &h.Name, &h.Media, &h.ProjX, &h.ProjY, &h.Radius, &h.Enabled, &h.CreatedAt, &h.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return h, nil
}

// List retrieves all hotspots ordered by ID.
func (r *HotspotRepository) List() ([]*Hotspot, error) {
	rows, err := r.db.Query(
		`SELECT id, name, media, proj_x, proj_y, radius, enabled, created_at, updated_at
		 FROM hotspots ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotspots []*Hotspot
	for rows.Next() {
		h := &Hotspot{}
		err := rows.Scan(&h.ID, &h.Name, &h.Media, &h.ProjX, &h.ProjY, &h.Radius, &h.Enabled, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return nil, err
		}
		hotspots = append(hotspots, h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hotspots, nil
}

// ListEnabled retrieves the hotspots that should be live on the wall.
func (r *HotspotRepository) ListEnabled() ([]*Hotspot, error) {
	rows, err := r.db.Query(
		`SELECT id, name, media, proj_x, proj_y, radius, enabled, created_at, updated_at
		 FROM hotspots WHERE enabled = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotspots []*Hotspot
	for rows.Next() {
		h := &Hotspot{}
		err := rows.Scan(&h.ID, &h.Name, &h.Media, &h.ProjX, &h.ProjY, &h.Radius, &h.Enabled, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return nil, err
		}
		hotspots = append(hotspots, h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hotspots, nil
}

// Update updates an existing hotspot in the database.
func (r *HotspotRepository) Update(h *Hotspot) error {
	h.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE hotspots SET name = ?, media = ?, proj_x = ?, proj_y = ?, radius = ?, enabled = ?, updated_at = ?
		 WHERE id = ?`,
		h.Name, h.Media, h.ProjX, h.ProjY, h.Radius, h.Enabled, h.UpdatedAt, h.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a hotspot from the database by its ID.
func (r *HotspotRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM hotspots WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
