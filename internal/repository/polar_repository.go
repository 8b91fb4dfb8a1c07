package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/polar-backend-go/internal/models"
)

// PolarRepository handles database operations for polar documents
type PolarRepository struct {
	db *sql.DB
}

// NewPolarRepository creates a new polar repository
func NewPolarRepository(db *sql.DB) *PolarRepository {
	return &PolarRepository{db: db}
}

// Create inserts a new polar document
func (r *PolarRepository) Create(doc *models.PolarDocument) error {
	query := `INSERT INTO polars (id, name, content, band_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'), datetime('now'))`

	_, err := r.db.Exec(query, doc.ID, doc.Name, doc.Content, doc.BandCount)
	if err != nil {
		return fmt.Errorf("failed to create polar: %w", err)
	}
	return nil
}

// List returns all polar documents without their content, newest first
func (r *PolarRepository) List() ([]models.PolarDocument, error) {
	query := `SELECT id, name, band_count, created_at, updated_at
		FROM polars ORDER BY updated_at DESC, name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query polars: %w", err)
	}
	defer rows.Close()

	docs := []models.PolarDocument{}
	for rows.Next() {
		var d models.PolarDocument
		if err := rows.Scan(&d.ID, &d.Name, &d.BandCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan polar: %w", err)
		}
		docs = append(docs, d)
	}

	return docs, rows.Err()
}

// GetByID retrieves a single polar document, or nil when it does not exist
func (r *PolarRepository) GetByID(id string) (*models.PolarDocument, error) {
	query := `SELECT id, name, content, band_count, created_at, updated_at
		FROM polars WHERE id = ?`

	var d models.PolarDocument
	err := r.db.QueryRow(query, id).Scan(&d.ID, &d.Name, &d.Content, &d.BandCount, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get polar: %w", err)
	}

	return &d, nil
}

// UpdateContent replaces the stored polar text of a document
func (r *PolarRepository) UpdateContent(id, content string, bandCount int) error {
	query := `UPDATE polars SET content = ?, band_count = ?, updated_at = datetime('now') WHERE id = ?`

	res, err := r.db.Exec(query, content, bandCount, id)
	if err != nil {
		return fmt.Errorf("failed to update polar: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a polar document, reporting whether it existed
func (r *PolarRepository) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM polars WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete polar: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete polar: %w", err)
	}
	return n > 0, nil
}
