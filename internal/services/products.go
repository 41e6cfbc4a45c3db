package services

import (
	"context"
	"net/http"
	"net/url"

	"admin-dashboard/internal/models"
)

func (s *ServiceClient) ListProducts(ctx context.Context, page, limit int, search string) ([]models.Product, error) {
	var products []models.Product
	err := s.query(ctx, call{
		endpoint: "/products",
		path:     "/products",
		params:   params{}.setInt("page", page).setInt("limit", limit).setStr("search", search).values(),
		resource: ResourceProducts,
	}, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ServiceClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.query(ctx, call{
		endpoint: "/products/{id}",
		path:     "/products/" + url.PathEscape(id),
		resource: ResourceProducts,
	}, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ServiceClient) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (*models.Message, error) {
	var msg models.Message
	err := s.mutate(ctx, call{
		method:   http.MethodPut,
		endpoint: "/products/{id}",
		path:     "/products/" + url.PathEscape(id),
		body:     upd,
	}, &msg, ResourceProducts, ResourceDashboard)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *ServiceClient) DeleteProduct(ctx context.Context, id string) (*models.Message, error) {
	var msg models.Message
	err := s.mutate(ctx, call{
		method:   http.MethodDelete,
		endpoint: "/products/{id}",
		path:     "/products/" + url.PathEscape(id),
	}, &msg, ResourceProducts, ResourceDashboard)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// SyncShopify asks the backend to reconcile its product records with Shopify.
func (s *ServiceClient) SyncShopify(ctx context.Context) (*models.Message, error) {
	var msg models.Message
	err := s.mutate(ctx, call{
		method:   http.MethodPost,
		endpoint: "/products/sync-shopify",
		path:     "/products/sync-shopify",
	}, &msg, ResourceProducts, ResourceDashboard)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
