package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// productColumns must match the Scan order in scanProduct.
const productColumns = `id, condominium_id, name, price, stock, active, created_at, updated_at`

type MarketRepo struct {
	pool *pgxpool.Pool
}

func NewMarketRepo(pool *pgxpool.Pool) *MarketRepo {
	return &MarketRepo{pool: pool}
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.CondominiumID, &p.Name, &p.Price, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MarketRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (condominium_id, name, price, stock, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		p.CondominiumID, p.Name, p.Price, p.Stock, p.Active,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapError(err, "create product")
	}
	return nil
}

func (r *MarketRepo) GetProduct(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, mapError(err, "get product")
	}
	return p, nil
}

func (r *MarketRepo) ListProducts(ctx context.Context, condominiumID uuid.UUID, onlyActive bool, page domain.Page) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE condominium_id = $1 AND deleted_at IS NULL AND (active OR NOT $2)
		ORDER BY name
		LIMIT $3 OFFSET $4`, condominiumID, onlyActive, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(err, "list products")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, mapError(err, "list products")
	}
	return out, nil
}

func (r *MarketRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $3, price = $4, stock = $5, active = $6, updated_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		p.CondominiumID, p.ID, p.Name, p.Price, p.Stock, p.Active,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return mapError(err, "update product")
	}
	return nil
}

func (r *MarketRepo) DeleteProduct(ctx context.Context, condominiumID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET deleted_at = now(), active = false
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	if err != nil {
		return mapError(err, "delete product")
	}
	return expectOne(tag)
}

// CreateSale prices every item from the catalogue and decrements stock in the
// same transaction as the sale insert. Items' Name and UnitPrice are overwritten.
func (r *MarketRepo) CreateSale(ctx context.Context, s *domain.Sale) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range s.Items {
		item := &s.Items[i]
		err := tx.QueryRow(ctx, `
			UPDATE products SET stock = stock - $3, updated_at = now()
			WHERE condominium_id = $1 AND id = $2 AND active AND deleted_at IS NULL AND stock >= $3
			RETURNING name, price`,
			s.CondominiumID, item.ProductID, item.Quantity,
		).Scan(&item.Name, &item.UnitPrice)
		if errors.Is(err, pgx.ErrNoRows) {
			return r.explainStockFailure(ctx, tx, s.CondominiumID, item.ProductID)
		}
		if err != nil {
			return mapError(err, "reserve stock")
		}
	}

	s.ComputeTotal()

	err = tx.QueryRow(ctx, `
		INSERT INTO sales (condominium_id, buyer_id, total, payment_method)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		s.CondominiumID, s.BuyerID, s.Total, s.PaymentMethod,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return mapError(err, "create sale")
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"sale_items"},
		[]string{"sale_id", "position", "product_id", "name", "quantity", "unit_price"},
		pgx.CopyFromSlice(len(s.Items), func(i int) ([]any, error) {
			item := s.Items[i]
			return []any{s.ID, i, item.ProductID, item.Name, item.Quantity, item.UnitPrice}, nil
		}),
	)
	if err != nil {
		return mapError(err, "create sale items")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// explainStockFailure distinguishes a missing or inactive product from one
// that simply has too few units left.
func (r *MarketRepo) explainStockFailure(ctx context.Context, tx pgx.Tx, condominiumID, productID uuid.UUID) error {
	var stock int
	err := tx.QueryRow(ctx, `
		SELECT stock FROM products
		WHERE condominium_id = $1 AND id = $2 AND active AND deleted_at IS NULL`,
		condominiumID, productID,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
		}
		return mapError(err, "check stock")
	}
	return fmt.Errorf("%w: product %s has %d left", domain.ErrInsufficientStock, productID, stock)
}

// ListSales returns sales newest first, optionally restricted to one buyer.
func (r *MarketRepo) ListSales(ctx context.Context, condominiumID uuid.UUID, buyerID *uuid.UUID, page domain.Page) ([]*domain.Sale, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, condominium_id, buyer_id, total, payment_method, created_at FROM sales
		WHERE condominium_id = $1 AND ($2::uuid IS NULL OR buyer_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, condominiumID, buyerID, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(err, "list sales")
	}
	sales, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Sale, error) {
		var s domain.Sale
		err := row.Scan(&s.ID, &s.CondominiumID, &s.BuyerID, &s.Total, &s.PaymentMethod, &s.CreatedAt)
		return &s, err
	})
	if err != nil {
		return nil, mapError(err, "list sales")
	}
	if len(sales) == 0 {
		return sales, nil
	}

	ids := make([]uuid.UUID, len(sales))
	byID := make(map[uuid.UUID]*domain.Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
		s.Items = []domain.SaleItem{}
	}

	itemRows, err := r.pool.Query(ctx, `
		SELECT sale_id, product_id, name, quantity, unit_price FROM sale_items
		WHERE sale_id = ANY($1)
		ORDER BY sale_id, position`, ids)
	if err != nil {
		return nil, mapError(err, "list sale items")
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var saleID uuid.UUID
		var item domain.SaleItem
		if err := itemRows.Scan(&saleID, &item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		byID[saleID].Items = append(byID[saleID].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, mapError(err, "list sale items")
	}
	return sales, nil
}
