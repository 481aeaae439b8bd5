package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
)

const maxSaleLines = 50

type ProductInput struct {
	Name   string
	Price  float64
	Stock  int
	Active *bool
}

func (in ProductInput) apply(p *domain.Product) error {
	if in.Price < 0 {
		return invalid("price cannot be negative")
	}
	if in.Stock < 0 {
		return invalid("stock cannot be negative")
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Price = in.Price
	p.Stock = in.Stock
	if in.Active != nil {
		p.Active = *in.Active
	}
	return nil
}

type SaleLine struct {
	ProductID uuid.UUID
	Quantity  int
}

type SaleInput struct {
	Items         []SaleLine
	PaymentMethod domain.PaymentMethod
}

// ListProducts lists the catalogue. Non-managers only see active products.
func (s *Service) ListProducts(ctx context.Context, actor Actor, page domain.Page) ([]*domain.Product, error) {
	return s.repos.Market.ListProducts(ctx, actor.CondominiumID, !actor.Role.CanManage(), page)
}

func (s *Service) GetProduct(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Product, error) {
	p, err := s.repos.Market.GetProduct(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}
	if !p.Active && !actor.Role.CanManage() {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) CreateProduct(ctx context.Context, actor Actor, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{CondominiumID: actor.CondominiumID, Active: true}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.repos.Market.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, in ProductInput) (*domain.Product, error) {
	p, err := s.repos.Market.GetProduct(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.repos.Market.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.repos.Market.DeleteProduct(ctx, actor.CondominiumID, id)
}

// CreateSale records a purchase by the actor. Lines for the same product are
// merged; prices come from the catalogue at the time of the sale and the
// whole sale fails if any product lacks stock.
func (s *Service) CreateSale(ctx context.Context, actor Actor, in SaleInput) (*domain.Sale, error) {
	if !in.PaymentMethod.Valid() {
		return nil, invalid("unknown payment method %q", in.PaymentMethod)
	}
	if len(in.Items) == 0 {
		return nil, invalid("a sale needs at least one item")
	}
	if len(in.Items) > maxSaleLines {
		return nil, invalid("a sale holds at most %d items", maxSaleLines)
	}

	index := make(map[uuid.UUID]int, len(in.Items))
	var items []domain.SaleItem
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, invalid("quantity must be positive")
		}
		if i, ok := index[line.ProductID]; ok {
			items[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(items)
		items = append(items, domain.SaleItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	sale := &domain.Sale{
		CondominiumID: actor.CondominiumID,
		BuyerID:       actor.UserID,
		Items:         items,
		PaymentMethod: in.PaymentMethod,
	}
	if err := s.repos.Market.CreateSale(ctx, sale); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Sale recorded", "sale_id", sale.ID, "items", len(sale.Items), "total", sale.Total)
	return sale, nil
}

// ListSales lists sales; non-managers only see their own purchases.
func (s *Service) ListSales(ctx context.Context, actor Actor, page domain.Page) ([]*domain.Sale, error) {
	var buyer *uuid.UUID
	if !actor.Role.CanManage() {
		buyer = &actor.UserID
	}
	return s.repos.Market.ListSales(ctx, actor.CondominiumID, buyer, page)
}
