package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Activation records a single hotspot activation.
type Activation struct {
	ID          string
	HotspotID   int
	ActivatedAt time.Time
}

// ActivationRepository provides access to the activation history.
type ActivationRepository struct {
	db *sql.DB
}

// Activations returns the activation repository for this store.
func (s *Store) Activations() *ActivationRepository {
	return &ActivationRepository{db: s.db}
}

// Record logs an activation of the given hotspot. A fresh UUID is
// assigned and returned on the activation.
func (r *ActivationRepository) Record(hotspotID int, at time.Time) (*Activation, error) {
	a := &Activation{
		ID:          uuid.New().String(),
		HotspotID:   hotspotID,
		ActivatedAt: at,
	}

	_, err := r.db.Exec(
		`INSERT INTO activations (id, hotspot_id, activated_at) VALUES (?, ?, ?)`,
		a.ID, a.HotspotID, a.ActivatedAt,
	)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// ListRecent retrieves the most recent activations, newest first.
func (r *ActivationRepository) ListRecent(limit int) ([]*Activation, error) {
	rows, err := r.db.Query(
		`SELECT id, hotspot_id, activated_at FROM activations
		 ORDER BY activated_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activations []*Activation
	for rows.Next() {
		a := &Activation{}
		if err := rows.Scan(&a.ID, &a.HotspotID, &a.ActivatedAt); err != nil {
			return nil, err
		}
		activations = append(activations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activations, nil
}

// CountByHotspot returns the number of recorded activations per hotspot.
func (r *ActivationRepository) CountByHotspot() (map[int]int, error) {
	rows, err := r.db.Query(
		`SELECT hotspot_id, COUNT(*) FROM activations GROUP BY hotspot_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var hotspotID, count int
		if err := rows.Scan(&hotspotID, &count); err != nil {
			return nil, err
		}
		counts[hotspotID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// GetByID retrieves a single activation.
func (r *ActivationRepository) GetByID(id string) (*Activation, error) {
	a := &Activation{}

	err := r.db.QueryRow(
		`SELECT id, hotspot_id, activated_at FROM activations WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.HotspotID, &a.ActivatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return a, nil
}
