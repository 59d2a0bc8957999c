package repositories

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"bijou/internal/models"
)

type ProductRepository interface {
	Create(p *models.Product) error
	GetByID(id int) (*models.Product, error)
	Update(p *models.Product) error
	Delete(id int) error
	ListByCategory(categoryID int, limit, offset int) ([]*models.Product, error)
	ListAll() ([]*models.Product, error)

	// витрина
	ListNew(limit int) ([]*models.Product, error)
	ListOnSale(limit int) ([]*models.Product, error)
	ListPopular(limit int) ([]*models.Product, error)

	IncrementViewCount(id int) error
	AddSales(id, qty int) error
	IncrementReviewCount(id int) error
	DecrementStock(id, qty int) (bool, error)
	DecrementOptionStock(optionID, qty int) (bool, error)

	// options / images
	CreateOption(o *models.ProductOption) error
	GetOption(id int) (*models.ProductOption, error)
	ListOptions(productID int) ([]*models.ProductOption, error)
	CreateImage(img *models.ProductImage) error
	ListImages(productID int) ([]*models.ProductImage, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `
	p.id, p.name, p.sku, p.category_id, c.slug, p.price, p.discount_price, p.stock,
	p.is_active, p.description, p.view_count, p.sales_count, p.review_count,
	p.created_at, p.updated_at
`

func (r *productRepository) Create(p *models.Product) error {
	const q = `
		INSERT INTO products (name, sku, category_id, price, discount_price, stock, is_active, description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at
	`
	var discount any
	if p.DiscountPrice != nil {
		discount = *p.DiscountPrice
	}
	return r.DB.QueryRow(q,
		p.Name, p.SKU, p.CategoryID, p.Price, discount, p.Stock, p.IsActive, p.Description,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func scanProduct(s interface {
	Scan(dest ...any) error
}) (*models.Product, error) {
	p := &models.Product{}
	var discount decimal.NullDecimal
	err := s.Scan(
		&p.ID, &p.Name, &p.SKU, &p.CategoryID, &p.CategorySlug, &p.Price, &discount, &p.Stock,
		&p.IsActive, &p.Description, &p.ViewCount, &p.SalesCount, &p.ReviewCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if discount.Valid {
		d := discount.Decimal
		p.DiscountPrice = &d
	}
	return p, nil
}

func (r *productRepository) GetByID(id int) (*models.Product, error) {
	const q = `
		SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`
	p, err := scanProduct(r.DB.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if p.Options, err = r.ListOptions(p.ID); err != nil {
		return nil, err
	}
	if p.Images, err = r.ListImages(p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) Update(p *models.Product) error {
	const q = `
		UPDATE products
		SET name = $2, sku = $3, category_id = $4, price = $5, discount_price = $6,
		    stock = $7, is_active = $8, description = $9, updated_at = now()
		WHERE id = $1
	`
	var discount any
	if p.DiscountPrice != nil {
		discount = *p.DiscountPrice
	}
	_, err := r.DB.Exec(q, p.ID, p.Name, p.SKU, p.CategoryID, p.Price, discount, p.Stock, p.IsActive, p.Description)
	return err
}

func (r *productRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *productRepository) queryProducts(q string, args ...any) ([]*models.Product, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *productRepository) ListByCategory(categoryID, limit, offset int) ([]*models.Product, error) {
	const q = `
		SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.category_id = $1 AND p.is_active = TRUE
		ORDER BY p.name, p.sku
		LIMIT $2 OFFSET $3
	`
	return r.queryProducts(q, categoryID, limit, offset)
}

func (r *productRepository) ListAll() ([]*models.Product, error) {
	const q = `
		SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.id = p.category_id
		ORDER BY p.id
	`
	return r.queryProducts(q)
}

func (r *productRepository) ListNew(limit int) ([]*models.Product, error) {
	const q = `
		SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.is_active = TRUE
		ORDER BY p.created_at DESC
		LIMIT $1
	`
	return r.queryProducts(q, limit)
}

func (r *productRepository) ListOnSale(limit int) ([]*models.Product, error) {
	const q = `
		SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.is_active = TRUE AND p.discount_price IS NOT NULL AND p.price > 0
		ORDER BY (p.price - p.discount_price) / p.price DESC, p.updated_at DESC
		LIMIT $1
	`
	return r.queryProducts(q, limit)
}

// ListPopular — popularity = 0.4*views + 0.3*sales + 0.3*reviews.
func (r *productRepository) ListPopular(limit int) ([]*models.Product, error) {
	const q = `
		SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.is_active = TRUE
		ORDER BY (p.view_count * 0.4 + p.sales_count * 0.3 + p.review_count * 0.3) DESC,
		         p.view_count DESC, p.sales_count DESC
		LIMIT $1
	`
	return r.queryProducts(q, limit)
}

func (r *productRepository) IncrementViewCount(id int) error {
	_, err := r.DB.Exec(`UPDATE products SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

func (r *productRepository) AddSales(id, qty int) error {
	_, err := r.DB.Exec(`UPDATE products SET sales_count = sales_count + $2, updated_at = now() WHERE id = $1`, id, qty)
	return err
}

func (r *productRepository) IncrementReviewCount(id int) error {
	_, err := r.DB.Exec(`UPDATE products SET review_count = review_count + 1, updated_at = now() WHERE id = $1`, id)
	return err
}

// DecrementStock — атомарное списание; false, если остатка не хватает.
func (r *productRepository) DecrementStock(id, qty int) (bool, error) {
	res, err := r.DB.Exec(
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`,
		id, qty,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *productRepository) DecrementOptionStock(optionID, qty int) (bool, error) {
	res, err := r.DB.Exec(
		`UPDATE product_options SET stock = stock - $2 WHERE id = $1 AND stock >= $2`,
		optionID, qty,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *productRepository) CreateOption(o *models.ProductOption) error {
	const q = `
		INSERT INTO product_options (product_id, color, size, extra_price, stock, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`
	return r.DB.QueryRow(q, o.ProductID, o.Color, o.Size, o.ExtraPrice, o.Stock, o.IsActive).Scan(&o.ID)
}

func (r *productRepository) GetOption(id int) (*models.ProductOption, error) {
	const q = `
		SELECT id, product_id, color, size, extra_price, stock, is_active
		FROM product_options WHERE id = $1
	`
	o := &models.ProductOption{}
	err := r.DB.QueryRow(q, id).Scan(&o.ID, &o.ProductID, &o.Color, &o.Size, &o.ExtraPrice, &o.Stock, &o.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *productRepository) ListOptions(productID int) ([]*models.ProductOption, error) {
	const q = `
		SELECT id, product_id, color, size, extra_price, stock, is_active
		FROM product_options
		WHERE product_id = $1
		ORDER BY color, size
	`
	rows, err := r.DB.Query(q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ProductOption
	for rows.Next() {
		o := &models.ProductOption{}
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Color, &o.Size, &o.ExtraPrice, &o.Stock, &o.IsActive); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *productRepository) CreateImage(img *models.ProductImage) error {
	const q = `
		INSERT INTO product_images (product_id, image_url, alt_text, is_main, display_order)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`
	return r.DB.QueryRow(q, img.ProductID, img.ImageURL, img.AltText, img.IsMain, img.DisplayOrder).Scan(&img.ID)
}

func (r *productRepository) ListImages(productID int) ([]*models.ProductImage, error) {
	const q = `
		SELECT id, product_id, image_url, alt_text, is_main, display_order
		FROM product_images
		WHERE product_id = $1
		ORDER BY is_main DESC, display_order, id
	`
	rows, err := r.DB.Query(q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ProductImage
	for rows.Next() {
		img := &models.ProductImage{}
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.AltText, &img.IsMain, &img.DisplayOrder); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}
