package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"moonstore-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetProductByID(ctx context.Context, opts GetProductOptions) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	GetProducts(ctx context.Context, opts ProductQueryOptions) ([]*Product, error)
	CreateProduct(ctx context.Context, input NewProductInput, slug string) (*Product, error)
	UpdateProduct(ctx context.Context, productID uint, input UpdateProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, productID uint) error

	GetCategories(ctx context.Context, filter *string) ([]*Category, error)
	AddCategory(ctx context.Context, name, slug string) (*Category, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id,
	name,
	slug,
	description,
	brand,
	category_id,
	price,
	stock,
	image_url,
	active,
	created_at,
	updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Brand,
		&p.CategoryID,
		&p.Price,
		&p.Stock,
		&p.ImageURL,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetProductByID(ctx context.Context, opts GetProductOptions) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if opts.OnlyActive {
		query += ` AND active = TRUE`
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, opts.ProductID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1 AND active = TRUE`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetProducts(ctx context.Context, opts ProductQueryOptions) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProducts"),
	)

	start := time.Now()

	// ---------- pagination ----------
	finalLimit := int32(20)
	if opts.Limit != nil && *opts.Limit > 0 {
		finalLimit = *opts.Limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := int32(1)
	if opts.Page != nil && *opts.Page > 0 {
		finalPage = *opts.Page
	}

	offset := int((finalPage - 1) * finalLimit)

	// ---------- where ----------
	where := []string{"active = TRUE"}
	args := []any{}

	if f := opts.Filter; f != nil {
		if f.CategoryID != nil {
			where = append(where, fmt.Sprintf("category_id = $%d", len(args)+1))
			args = append(args, *f.CategoryID)
		}

		if f.Brand != nil && *f.Brand != "" {
			where = append(where, fmt.Sprintf("brand = $%d", len(args)+1))
			args = append(args, *f.Brand)
		}

		if f.Search != nil && *f.Search != "" {
			where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args)+1, len(args)+1))
			args = append(args, "%"+*f.Search+"%")
		}

		if f.InStock != nil {
			if *f.InStock {
				where = append(where, "stock > 0")
			} else {
				where = append(where, "stock = 0")
			}
		}
	}

	// ---------- sort ----------
	orderBy := "created_at DESC"
	if s := opts.Sort; s != nil {
		field := "created_at"
		switch s.Field {
		case "price":
			field = "price"
		case "name":
			field = "name"
		}

		dir := "DESC"
		if strings.EqualFold(s.Direction, "asc") {
			dir = "ASC"
		}

		orderBy = field + " " + dir
	}

	query := `SELECT ` + productColumns + `
	FROM products
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY ` + orderBy + `
	LIMIT $` + fmt.Sprint(len(args)+1) + `
	OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	defer rows.Close()

	result := make([]*Product, 0, finalLimit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (r *repository) CreateProduct(ctx context.Context, input NewProductInput, slug string) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateProduct"),
		zap.String("slug", slug),
	)

	query := `
	INSERT INTO products (
		name, slug, description, brand, category_id, price, stock, image_url, active
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
	RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(
		ctx,
		query,
		input.Name,
		slug,
		input.Description,
		input.Brand,
		input.CategoryID,
		input.Price,
		input.Stock,
		input.ImageURL,
	))
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.Uint("product_id", p.ID))
	return p, nil
}

func (r *repository) UpdateProduct(ctx context.Context, productID uint, input UpdateProductInput) (*Product, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{}

	appendSet := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, v)
	}

	if input.Name != nil {
		appendSet("name", *input.Name)
	}
	if input.Description != nil {
		appendSet("description", *input.Description)
	}
	if input.Brand != nil {
		appendSet("brand", *input.Brand)
	}
	if input.CategoryID != nil {
		appendSet("category_id", *input.CategoryID)
	}
	if input.Price != nil {
		appendSet("price", *input.Price)
	}
	if input.Stock != nil {
		appendSet("stock", *input.Stock)
	}
	if input.ImageURL != nil {
		appendSet("image_url", *input.ImageURL)
	}
	if input.Active != nil {
		appendSet("active", *input.Active)
	}

	query := `
	UPDATE products
	SET ` + strings.Join(set, ", ") + `
	WHERE id = $` + fmt.Sprint(len(args)+1) + `
	RETURNING ` + productColumns

	args = append(args, productID)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) DeleteProduct(ctx context.Context, productID uint) error {
	// Soft delete keeps order item history intact.
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1 AND active = TRUE
	`, productID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *repository) GetCategories(ctx context.Context, filter *string) ([]*Category, error) {
	query := `SELECT id, name, slug FROM categories`
	args := []any{}

	if filter != nil && *filter != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+*filter+"%")
	}

	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}

	return result, rows.Err()
}

func (r *repository) AddCategory(ctx context.Context, name, slug string) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING id, name, slug
	`, name, slug).Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
