package repositories

import (
	"database/sql"
	"time"

	"bijou/internal/models"
)

type NoticeRepository interface {
	CreateNotice(n *models.Notice) error
	ListActiveNotices(now time.Time, limit int) ([]*models.Notice, error)
	UpdateNotice(n *models.Notice) error
	DeleteNotice(id int) error

	CreateBanner(b *models.Banner) error
	ListActiveBanners(now time.Time, placement string) ([]*models.Banner, error)
	UpdateBanner(b *models.Banner) error
	DeleteBanner(id int) error
}

type noticeRepository struct {
	DB *sql.DB
}

func NewNoticeRepository(db *sql.DB) NoticeRepository {
	return &noticeRepository{DB: db}
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func (r *noticeRepository) CreateNotice(n *models.Notice) error {
	const q = `
		INSERT INTO notices (title, content, is_pinned, is_active, display_order, starts_at, ends_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(q, n.Title, n.Content, n.IsPinned, n.IsActive, n.DisplayOrder,
		nullableTime(n.StartsAt), nullableTime(n.EndsAt)).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

// ListActiveNotices — активные в текущем окне показа, закреплённые первыми.
func (r *noticeRepository) ListActiveNotices(now time.Time, limit int) ([]*models.Notice, error) {
	const q = `
		SELECT id, title, content, is_pinned, is_active, display_order, starts_at, ends_at, created_at, updated_at
		FROM notices
		WHERE is_active = TRUE
		  AND (starts_at IS NULL OR starts_at <= $1)
		  AND (ends_at IS NULL OR ends_at >= $1)
		ORDER BY is_pinned DESC, display_order, created_at DESC
		LIMIT $2
	`
	rows, err := r.DB.Query(q, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notice
	for rows.Next() {
		n := &models.Notice{}
		var starts, ends sql.NullTime
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.IsPinned, &n.IsActive, &n.DisplayOrder,
			&starts, &ends, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		if starts.Valid {
			t := starts.Time
			n.StartsAt = &t
		}
		if ends.Valid {
			t := ends.Time
			n.EndsAt = &t
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *noticeRepository) UpdateNotice(n *models.Notice) error {
	const q = `
		UPDATE notices
		SET title = $2, content = $3, is_pinned = $4, is_active = $5, display_order = $6,
		    starts_at = $7, ends_at = $8, updated_at = now()
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, n.ID, n.Title, n.Content, n.IsPinned, n.IsActive, n.DisplayOrder,
		nullableTime(n.StartsAt), nullableTime(n.EndsAt))
	return err
}

func (r *noticeRepository) DeleteNotice(id int) error {
	_, err := r.DB.Exec(`DELETE FROM notices WHERE id = $1`, id)
	return err
}

func (r *noticeRepository) CreateBanner(b *models.Banner) error {
	const q = `
		INSERT INTO banners (title, image_url, link_url, placement, is_active, display_order, starts_at, ends_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(q, b.Title, b.ImageURL, b.LinkURL, b.Placement, b.IsActive, b.DisplayOrder,
		nullableTime(b.StartsAt), nullableTime(b.EndsAt)).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *noticeRepository) ListActiveBanners(now time.Time, placement string) ([]*models.Banner, error) {
	q := `
		SELECT id, title, image_url, link_url, placement, is_active, display_order, starts_at, ends_at, created_at, updated_at
		FROM banners
		WHERE is_active = TRUE
		  AND (starts_at IS NULL OR starts_at <= $1)
		  AND (ends_at IS NULL OR ends_at >= $1)
	`
	args := []any{now}
	if placement != "" {
		q += ` AND placement = $2`
		args = append(args, placement)
	}
	q += ` ORDER BY placement, display_order, created_at DESC`

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Banner
	for rows.Next() {
		b := &models.Banner{}
		var starts, ends sql.NullTime
		if err := rows.Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Placement, &b.IsActive,
			&b.DisplayOrder, &starts, &ends, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if starts.Valid {
			t := starts.Time
			b.StartsAt = &t
		}
		if ends.Valid {
			t := ends.Time
			b.EndsAt = &t
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *noticeRepository) UpdateBanner(b *models.Banner) error {
	const q = `
		UPDATE banners
		SET title = $2, image_url = $3, link_url = $4, placement = $5, is_active = $6,
		    display_order = $7, starts_at = $8, ends_at = $9, updated_at = now()
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, b.ID, b.Title, b.ImageURL, b.LinkURL, b.Placement, b.IsActive,
		b.DisplayOrder, nullableTime(b.StartsAt), nullableTime(b.EndsAt))
	return err
}

func (r *noticeRepository) DeleteBanner(id int) error {
	_, err := r.DB.Exec(`DELETE FROM banners WHERE id = $1`, id)
	return err
}
