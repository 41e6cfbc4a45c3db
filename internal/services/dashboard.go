package services

import (
	"context"
	"net/http"

	"admin-dashboard/internal/models"
)

// DashboardStats is polled by the dashboard stream; the page load itself may
// be served from the cache.
func (s *ServiceClient) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	err := s.query(ctx, call{
		endpoint: "/dashboard/stats",
		path:     "/dashboard/stats",
		resource: ResourceDashboard,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FreshDashboardStats skips the cache.
func (s *ServiceClient) FreshDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	err := s.query(ctx, call{
		endpoint: "/dashboard/stats",
		path:     "/dashboard/stats",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ServiceClient) RecentActivity(ctx context.Context) ([]models.Activity, error) {
	var out models.RecentActivity
	err := s.query(ctx, call{
		endpoint: "/dashboard/recent-activity",
		path:     "/dashboard/recent-activity",
		resource: ResourceDashboard,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Activities, nil
}

func (s *ServiceClient) Sales(ctx context.Context) (*models.SalesSummary, error) {
	var out models.SalesSummary
	err := s.query(ctx, call{
		endpoint: "/dashboard/sales",
		path:     "/dashboard/sales",
		resource: ResourceDashboard,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes the backend's unversioned health route, once, without cache.
func (s *ServiceClient) Health(ctx context.Context) (*models.Health, error) {
	data, err := s.do(ctx, call{
		method:   http.MethodGet,
		endpoint: "/health",
	}, s.healthURL)
	if err != nil {
		return nil, err
	}
	var out models.Health
	if err := decode(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
