package repository

import (
	"context"
	"database/sql"
	"errors"

	"product-engine/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `
	product_id,
	name_and_version,
	product_code,
	min_load_term,
	max_load_term,
	min_principal_amount,
	max_principal_amount,
	min_interest,
	max_interest,
	min_origination_amount,
	max_origination_amount`

func scanProduct(row interface{ Scan(dest ...any) error }) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.NameAndVersion,
		&p.ProductCode,
		&p.MinLoadTerm,
		&p.MaxLoadTerm,
		&p.MinPrincipalAmount,
		&p.MaxPrincipalAmount,
		&p.MinInterest,
		&p.MaxInterest,
		&p.MinOriginationAmount,
		&p.MaxOriginationAmount,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByCode returns the product with the given code, or nil when absent.
func (r *ProductRepository) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	query := `SELECT` + productColumns + ` FROM product WHERE product_code = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT` + productColumns + ` FROM product ORDER BY product_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts the product and returns it with the generated id. A
// duplicate code or name surfaces as domain.ErrConflict.
func (r *ProductRepository) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO product (
			name_and_version,
			product_code,
			min_load_term,
			max_load_term,
			min_principal_amount,
			max_principal_amount,
			min_interest,
			max_interest,
			min_origination_amount,
			max_origination_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING product_id`

	err := r.db.QueryRowContext(ctx, query,
		p.NameAndVersion,
		p.ProductCode,
		p.MinLoadTerm,
		p.MaxLoadTerm,
		p.MinPrincipalAmount,
		p.MaxPrincipalAmount,
		p.MinInterest,
		p.MaxInterest,
		p.MinOriginationAmount,
		p.MaxOriginationAmount,
	).Scan(&p.ID)
	if err != nil {
		return nil, translateConstraint(err)
	}

	return &p, nil
}

// DeleteByCode removes the product with the given code. Deleting an absent
// product is a no-op, not an error.
func (r *ProductRepository) DeleteByCode(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM product WHERE product_code = $1`, code)
	return err
}
