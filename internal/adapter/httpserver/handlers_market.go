package httpserver

import (
	"net/http"

	"github.com/fmsilvestri/condobase/internal/app"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type productRequest struct {
	Name   string  `json:"name" validate:"required,max=200"`
	Price  float64 `json:"price" validate:"gte=0"`
	Stock  int     `json:"stock" validate:"gte=0"`
	Active *bool   `json:"active"`
}

func (r productRequest) input() app.ProductInput {
	return app.ProductInput{Name: r.Name, Price: r.Price, Stock: r.Stock, Active: r.Active}
}

type saleLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0,lte=1000"`
}

type saleRequest struct {
	Items         []saleLineRequest    `json:"items" validate:"required,min=1,max=50,dive"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" validate:"required,oneof=cash pix card account"`
}

func (s *Server) handleListProducts(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	items, err := s.app.ListProducts(c.Request().Context(), actor, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(items, page))
}

func (s *Server) handleGetProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := s.app.GetProduct(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p)
}

func (s *Server) handleCreateProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req productRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := s.app.CreateProduct(c.Request().Context(), actor, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, p)
}

func (s *Server) handleUpdateProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req productRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := s.app.UpdateProduct(c.Request().Context(), actor, id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p)
}

func (s *Server) handleDeleteProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.app.DeleteProduct(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return noContent(c)
}

func (s *Server) handleListSales(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	sales, err := s.app.ListSales(c.Request().Context(), actor, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(sales, page))
}

func (s *Server) handleCreateSale(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req saleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	lines := make([]app.SaleLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, app.SaleLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	sale, err := s.app.CreateSale(c.Request().Context(), actor, app.SaleInput{Items: lines, PaymentMethod: req.PaymentMethod})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, sale)
}
