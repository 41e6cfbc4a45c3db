package services

import (
	"context"
	"net/http"
	"net/url"

	"admin-dashboard/internal/models"
)

func (s *ServiceClient) ListSNSContent(ctx context.Context, productID, platform string) ([]models.SNSContent, error) {
	var out []models.SNSContent
	err := s.query(ctx, call{
		endpoint: "/sns/content/{id}",
		path:     "/sns/content/" + url.PathEscape(productID),
		params:   params{}.setStr("platform", platform).values(),
		resource: ResourceSNS,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateSNSContent asks the backend to write new marketing copy for a product.
func (s *ServiceClient) GenerateSNSContent(ctx context.Context, productID string, req models.GenerateRequest) (*models.SNSContent, error) {
	var out models.SNSContent
	err := s.mutate(ctx, call{
		method:   http.MethodPost,
		endpoint: "/sns/generate/{id}",
		path:     "/sns/generate/" + url.PathEscape(productID),
		params:   params{}.setStr("platform", req.Platform).setStr("content_type", req.ContentType).values(),
		body:     req,
	}, &out, ResourceSNS, ResourceDashboard)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ServiceClient) UpdateSNSContent(ctx context.Context, contentID string, upd models.ContentUpdate) (*models.Message, error) {
	var msg models.Message
	err := s.mutate(ctx, call{
		method:   http.MethodPut,
		endpoint: "/sns/content/{id}",
		path:     "/sns/content/" + url.PathEscape(contentID),
		body:     upd,
	}, &msg, ResourceSNS)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *ServiceClient) RegenerateSNSContent(ctx context.Context, contentID string) (*models.SNSContent, error) {
	var out models.SNSContent
	err := s.mutate(ctx, call{
		method:   http.MethodPost,
		endpoint: "/sns/content/{id}/regenerate",
		path:     "/sns/content/" + url.PathEscape(contentID) + "/regenerate",
	}, &out, ResourceSNS)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ServiceClient) Platforms(ctx context.Context) (*models.PlatformList, error) {
	var out models.PlatformList
	err := s.query(ctx, call{
		endpoint: "/sns/platforms",
		path:     "/sns/platforms",
		resource: ResourceSNS,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ServiceClient) SNSAnalytics(ctx context.Context, days int) (*models.SNSAnalytics, error) {
	var out models.SNSAnalytics
	err := s.query(ctx, call{
		endpoint: "/sns/analytics",
		path:     "/sns/analytics",
		params:   params{}.setInt("days", days).values(),
		resource: ResourceSNS,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
