package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"aquasphere/internal/database"
	"aquasphere/internal/model"
)

var ErrProductNotFound = errors.New("product not found")

type ProductService struct {
	db *database.DB
}

func NewProductService(db *database.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, label, description, price, image_url, category, unit, created_at, updated_at
		FROM products
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Label, &p.Description, &p.Price, &p.ImageURL,
			&p.Category, &p.Unit, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return products, nil
}

type ProductInput struct {
	Label       string
	Description string
	Price       decimal.Decimal
	Category    string
	Unit        string
	ImageURL    string
}

func (s *ProductService) Add(ctx context.Context, in ProductInput) (*model.Product, error) {
	now := time.Now()
	id, err := s.db.InsertReturningID(ctx, `
		INSERT INTO products (label, description, price, image_url, category, unit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Label, in.Description, in.Price, in.ImageURL, in.Category, in.Unit, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	return &model.Product{
		ID:          id,
		Label:       in.Label,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Unit:        in.Unit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update applies the given fields to an existing product. An empty ImageURL
// keeps the stored image.
func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput) error {
	query := `UPDATE products SET label = ?, description = ?, price = ?, category = ?, unit = ?, updated_at = ?`
	args := []any{in.Label, in.Description, in.Price, in.Category, in.Unit, time.Now()}
	if in.ImageURL != "" {
		query += `, image_url = ?`
		args = append(args, in.ImageURL)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return checkAffected(res)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
