package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/devevents/api/internal/apperror"
	"github.com/devevents/api/internal/model"
	"github.com/devevents/api/internal/repository"
)

var _ repository.CategoryRepository = (*DB)(nil)

// ListCategories returns every category, seeded order (id ascending).
func (db *DB) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0, len(model.SeedCategories))
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, nil
}

// GetCategoryByID retrieves a single category. The event service uses this to
// enforce category existence at validation time rather than leaning on the
// foreign key alone.
func (db *DB) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Resource not found")
		}
		return nil, fmt.Errorf("sqlite: getting category %d: %w", id, err)
	}

	return &c, nil
}
