package services

import (
	"context"
	"net/http"

	"admin-dashboard/internal/models"
)

// RealtimeBatch is the most entries /logs/realtime returns per call. A full
// batch means older new entries may have been cut off.
const RealtimeBatch = 10

func logParams(f models.LogFilter) params {
	return params{}.
		setInt("page", f.Page).
		setInt("limit", f.Limit).
		setStr("level", f.Level).
		setStr("module", f.Module).
		setStr("search", f.Search).
		setStr("start_date", f.StartDate).
		setStr("end_date", f.EndDate)
}

func (s *ServiceClient) ListLogs(ctx context.Context, f models.LogFilter) ([]models.LogEntry, error) {
	var logs []models.LogEntry
	err := s.query(ctx, call{
		endpoint: "/logs",
		path:     "/logs",
		params:   logParams(f).values(),
	}, &logs)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// RealtimeLogs returns entries newer than lastID. It is polled, so it never
// goes through the query cache.
func (s *ServiceClient) RealtimeLogs(ctx context.Context, lastID int) (*models.RealtimeLogs, error) {
	var out models.RealtimeLogs
	err := s.query(ctx, call{
		endpoint: "/logs/realtime",
		path:     "/logs/realtime",
		params:   params{}.setInt("last_id", lastID).values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ServiceClient) LogStats(ctx context.Context, days int) (*models.LogStats, error) {
	var stats models.LogStats
	err := s.query(ctx, call{
		endpoint: "/logs/stats",
		path:     "/logs/stats",
		params:   params{}.setInt("days", days).values(),
		resource: ResourceLogs,
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *ServiceClient) ErrorLogs(ctx context.Context, page, limit int) ([]models.LogEntry, error) {
	var logs []models.LogEntry
	err := s.query(ctx, call{
		endpoint: "/logs/errors",
		path:     "/logs/errors",
		params:   params{}.setInt("page", page).setInt("limit", limit).values(),
		resource: ResourceLogs,
	}, &logs)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// ClearLogs deletes entries older than days.
func (s *ServiceClient) ClearLogs(ctx context.Context, days int) (*models.ClearLogsResult, error) {
	var out models.ClearLogsResult
	err := s.mutate(ctx, call{
		method:   http.MethodDelete,
		endpoint: "/logs",
		path:     "/logs",
		params:   params{}.setInt("days", days).values(),
	}, &out, ResourceLogs, ResourceDashboard)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ServiceClient) ExportLogs(ctx context.Context, f models.LogFilter) (*models.LogExport, error) {
	var out models.LogExport
	err := s.query(ctx, call{
		endpoint: "/logs/export",
		path:     "/logs/export",
		params:   exportParams(f, "json").values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ServiceClient) ExportLogsCSV(ctx context.Context, f models.LogFilter) (string, error) {
	var out models.LogCSVExport
	err := s.query(ctx, call{
		endpoint: "/logs/export",
		path:     "/logs/export",
		params:   exportParams(f, "csv").values(),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.CSVData, nil
}

func exportParams(f models.LogFilter, format string) params {
	return params{}.
		setStr("format", format).
		setStr("level", f.Level).
		setStr("start_date", f.StartDate).
		setStr("end_date", f.EndDate)
}
