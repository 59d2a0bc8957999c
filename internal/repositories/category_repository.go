package repositories

import (
	"database/sql"

	"bijou/internal/models"
)

type CategoryRepository interface {
	Create(c *models.Category) error
	GetByID(id int) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	List(activeOnly bool) ([]*models.Category, error)
	Update(c *models.Category) error
	Delete(id int) error
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) Create(c *models.Category) error {
	// depth считается от родителя, корень = 0
	const q = `
		INSERT INTO categories (name, slug, parent_id, depth, display_order, is_active)
		VALUES ($1, $2, $3,
			COALESCE((SELECT depth + 1 FROM categories WHERE id = $3), 0),
			$4, $5)
		RETURNING id, depth
	`
	return r.DB.QueryRow(q, c.Name, c.Slug, c.ParentID, c.DisplayOrder, c.IsActive).
		Scan(&c.ID, &c.Depth)
}

func (r *categoryRepository) scan(row *sql.Row) (*models.Category, error) {
	c := &models.Category{}
	var parent sql.NullInt64
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &parent, &c.Depth, &c.DisplayOrder, &c.IsActive)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		p := int(parent.Int64)
		c.ParentID = &p
	}
	return c, nil
}

func (r *categoryRepository) GetByID(id int) (*models.Category, error) {
	const q = `SELECT id, name, slug, parent_id, depth, display_order, is_active FROM categories WHERE id = $1`
	return r.scan(r.DB.QueryRow(q, id))
}

func (r *categoryRepository) GetBySlug(slug string) (*models.Category, error) {
	const q = `SELECT id, name, slug, parent_id, depth, display_order, is_active FROM categories WHERE slug = $1`
	c, err := r.scan(r.DB.QueryRow(q, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *categoryRepository) List(activeOnly bool) ([]*models.Category, error) {
	q := `SELECT id, name, slug, parent_id, depth, display_order, is_active FROM categories`
	if activeOnly {
		q += ` WHERE is_active = TRUE`
	}
	q += ` ORDER BY depth, display_order, name`

	rows, err := r.DB.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		c := &models.Category{}
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &parent, &c.Depth, &c.DisplayOrder, &c.IsActive); err != nil {
			return nil, err
		}
		if parent.Valid {
			p := int(parent.Int64)
			c.ParentID = &p
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *categoryRepository) Update(c *models.Category) error {
	const q = `
		UPDATE categories
		SET name = $2, slug = $3, display_order = $4, is_active = $5
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, c.ID, c.Name, c.Slug, c.DisplayOrder, c.IsActive)
	return err
}

func (r *categoryRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM categories WHERE id = $1`, id)
	return err
}
