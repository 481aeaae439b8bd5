package domain

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID `json:"id"`
	CondominiumID uuid.UUID `json:"condominium_id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Stock         int       `json:"stock"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentPix     PaymentMethod = "pix"
	PaymentCard    PaymentMethod = "card"
	PaymentAccount PaymentMethod = "account"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentPix, PaymentCard, PaymentAccount:
		return true
	}
	return false
}

type SaleItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

func (i SaleItem) Subtotal() float64 {
	return roundCents(float64(i.Quantity) * i.UnitPrice)
}

type Sale struct {
	ID            uuid.UUID     `json:"id"`
	CondominiumID uuid.UUID     `json:"condominium_id"`
	BuyerID       uuid.UUID     `json:"buyer_id"`
	Items         []SaleItem    `json:"items"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ComputeTotal sets Total from the items.
func (s *Sale) ComputeTotal() float64 {
	var total float64
	for _, item := range s.Items {
		total += item.Subtotal()
	}
	s.Total = roundCents(total)
	return s.Total
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

type MarketRepository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, condominiumID, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, condominiumID uuid.UUID, onlyActive bool, page Page) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, condominiumID, id uuid.UUID) error

	// CreateSale prices items from the catalogue, decrements stock and
	// persists the sale atomically. ErrInsufficientStock aborts the whole sale.
	CreateSale(ctx context.Context, s *Sale) error
	ListSales(ctx context.Context, condominiumID uuid.UUID, buyerID *uuid.UUID, page Page) ([]*Sale, error)
}
