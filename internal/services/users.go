package services

import (
	"context"
	"net/http"
	"net/url"

	"admin-dashboard/internal/models"
)

func (s *ServiceClient) ListUsers(ctx context.Context, page, limit int, search string) ([]models.User, error) {
	var users []models.User
	err := s.query(ctx, call{
		endpoint: "/users",
		path:     "/users",
		params:   params{}.setInt("page", page).setInt("limit", limit).setStr("search", search).values(),
		resource: ResourceUsers,
	}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *ServiceClient) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.query(ctx, call{
		endpoint: "/users/{id}",
		path:     "/users/" + url.PathEscape(id),
		resource: ResourceUsers,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *ServiceClient) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	var user models.User
	err := s.mutate(ctx, call{
		method:   http.MethodPost,
		endpoint: "/users",
		path:     "/users",
		body:     in,
	}, &user, ResourceUsers, ResourceDashboard)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *ServiceClient) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.Message, error) {
	return s.userAction(ctx, http.MethodPut, "/users/{id}", "/users/"+url.PathEscape(id), upd)
}

func (s *ServiceClient) DeleteUser(ctx context.Context, id string) (*models.Message, error) {
	return s.userAction(ctx, http.MethodDelete, "/users/{id}", "/users/"+url.PathEscape(id), nil)
}

func (s *ServiceClient) ActivateUser(ctx context.Context, id string) (*models.Message, error) {
	return s.userAction(ctx, http.MethodPost, "/users/{id}/activate", "/users/"+url.PathEscape(id)+"/activate", nil)
}

func (s *ServiceClient) DeactivateUser(ctx context.Context, id string) (*models.Message, error) {
	return s.userAction(ctx, http.MethodPost, "/users/{id}/deactivate", "/users/"+url.PathEscape(id)+"/deactivate", nil)
}

func (s *ServiceClient) userAction(ctx context.Context, method, endpoint, path string, body any) (*models.Message, error) {
	var msg models.Message
	err := s.mutate(ctx, call{
		method:   method,
		endpoint: endpoint,
		path:     path,
		body:     body,
	}, &msg, ResourceUsers, ResourceDashboard)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
