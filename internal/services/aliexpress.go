package services

import (
	"context"
	"net/http"
	"net/url"

	"admin-dashboard/internal/models"
)

func (s *ServiceClient) SearchAliExpress(ctx context.Context, q models.AliExpressQuery) (*models.AliExpressSearchResult, error) {
	var out models.AliExpressSearchResult
	err := s.guarded(ctx, call{
		endpoint: "/aliexpress/search",
		path:     "/aliexpress/search",
		params: params{}.
			setStr("keyword", q.Keyword).
			setStr("category", q.Category).
			setInt("min_orders", q.MinOrders).
			setFloat("max_price", q.MaxPrice).
			setInt("page", q.Page).
			setInt("limit", q.Limit).
			values(),
		resource: ResourceAliExpress,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ServiceClient) TrendingAliExpress(ctx context.Context, category string, limit int) (*models.TrendingResult, error) {
	var out models.TrendingResult
	err := s.guarded(ctx, call{
		endpoint: "/aliexpress/trending",
		path:     "/aliexpress/trending",
		params:   params{}.setStr("category", category).setInt("limit", limit).values(),
		resource: ResourceAliExpress,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ServiceClient) GetAliExpressProduct(ctx context.Context, id string) (*models.AliExpressProduct, error) {
	var out models.AliExpressProduct
	err := s.guarded(ctx, call{
		endpoint: "/aliexpress/product/{id}",
		path:     "/aliexpress/product/" + url.PathEscape(id),
		resource: ResourceAliExpress,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ImportProduct starts a background import on the backend. The id travels both
// as query parameter and JSON body; the backend reads either.
func (s *ServiceClient) ImportProduct(ctx context.Context, productID string) (*models.ImportResult, error) {
	var out models.ImportResult
	err := s.mutate(ctx, call{
		method:   http.MethodPost,
		endpoint: "/aliexpress/import",
		path:     "/aliexpress/import",
		params:   params{}.setStr("product_id", productID).values(),
		body:     models.ImportRequest{ProductID: productID},
	}, &out, ResourceAliExpress, ResourceProducts, ResourceDashboard)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ServiceClient) ImportBatch(ctx context.Context, productIDs []string) (*models.BatchImportResult, error) {
	var out models.BatchImportResult
	err := s.mutate(ctx, call{
		method:   http.MethodPost,
		endpoint: "/aliexpress/import-batch",
		path:     "/aliexpress/import-batch",
		body:     models.BatchImportRequest{ProductIDs: productIDs},
	}, &out, ResourceAliExpress, ResourceProducts, ResourceDashboard)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ImportStatus changes while background imports run, so it bypasses the cache.
func (s *ServiceClient) ImportStatus(ctx context.Context) (*models.ImportStatus, error) {
	var out models.ImportStatus
	err := s.query(ctx, call{
		endpoint: "/aliexpress/import-status",
		path:     "/aliexpress/import-status",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
