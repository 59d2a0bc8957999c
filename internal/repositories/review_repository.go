package repositories

import (
	"database/sql"
	"time"

	"bijou/internal/models"
)

type ReviewRepository interface {
	Create(rv *models.Review) error
	GetByID(id int) (*models.Review, error)
	ListByProduct(productID, limit, offset int) ([]*models.Review, error)
	CountByProduct(productID int) (int, error)
	Update(rv *models.Review) error
	Delete(id, userID int) error
	IncrementHelpful(id int) error
}

type reviewRepository struct {
	DB *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{DB: db}
}

func (r *reviewRepository) Create(rv *models.Review) error {
	const q = `
		INSERT INTO reviews (user_id, product_id, product_option_id, rating, title, content,
		                     is_public, is_verified_purchase, published_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at
	`
	var optionID any
	if rv.ProductOptionID != nil {
		optionID = *rv.ProductOptionID
	}
	var publishedAt any
	if rv.IsPublic {
		now := time.Now()
		rv.PublishedAt = &now
		publishedAt = now
	}
	return r.DB.QueryRow(q,
		rv.UserID, rv.ProductID, optionID, rv.Rating, rv.Title, rv.Content,
		rv.IsPublic, rv.IsVerifiedPurchase, publishedAt,
	).Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
}

func (r *reviewRepository) GetByID(id int) (*models.Review, error) {
	const q = `
		SELECT r.id, r.user_id, a.username, r.product_id, r.product_option_id, r.rating,
		       r.title, r.content, r.is_public, r.is_verified_purchase, r.helpful_count,
		       r.published_at, r.created_at, r.updated_at
		FROM reviews r JOIN accounts a ON a.id = r.user_id
		WHERE r.id = $1
	`
	rv := &models.Review{}
	var (
		optionID    sql.NullInt64
		publishedAt sql.NullTime
	)
	err := r.DB.QueryRow(q, id).Scan(
		&rv.ID, &rv.UserID, &rv.Username, &rv.ProductID, &optionID, &rv.Rating,
		&rv.Title, &rv.Content, &rv.IsPublic, &rv.IsVerifiedPurchase, &rv.HelpfulCount,
		&publishedAt, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if optionID.Valid {
		v := int(optionID.Int64)
		rv.ProductOptionID = &v
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		rv.PublishedAt = &t
	}
	return rv, nil
}

func (r *reviewRepository) ListByProduct(productID, limit, offset int) ([]*models.Review, error) {
	const q = `
		SELECT r.id, r.user_id, a.username, r.product_id, r.product_option_id, r.rating,
		       r.title, r.content, r.is_public, r.is_verified_purchase, r.helpful_count,
		       r.published_at, r.created_at, r.updated_at
		FROM reviews r JOIN accounts a ON a.id = r.user_id
		WHERE r.product_id = $1 AND r.is_public = TRUE
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Review
	for rows.Next() {
		rv := &models.Review{}
		var (
			optionID    sql.NullInt64
			publishedAt sql.NullTime
		)
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.Username, &rv.ProductID, &optionID, &rv.Rating,
			&rv.Title, &rv.Content, &rv.IsPublic, &rv.IsVerifiedPurchase, &rv.HelpfulCount,
			&publishedAt, &rv.CreatedAt, &rv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if optionID.Valid {
			v := int(optionID.Int64)
			rv.ProductOptionID = &v
		}
		if publishedAt.Valid {
			t := publishedAt.Time
			rv.PublishedAt = &t
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *reviewRepository) CountByProduct(productID int) (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM reviews WHERE product_id = $1 AND is_public = TRUE`, productID).Scan(&n)
	return n, err
}

func (r *reviewRepository) Update(rv *models.Review) error {
	const q = `
		UPDATE reviews
		SET rating = $3, title = $4, content = $5, is_public = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.DB.Exec(q, rv.ID, rv.UserID, rv.Rating, rv.Title, rv.Content, rv.IsPublic)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *reviewRepository) Delete(id, userID int) error {
	res, err := r.DB.Exec(`DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *reviewRepository) IncrementHelpful(id int) error {
	_, err := r.DB.Exec(`UPDATE reviews SET helpful_count = helpful_count + 1 WHERE id = $1`, id)
	return err
}
