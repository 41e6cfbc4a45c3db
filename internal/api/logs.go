package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"admin-dashboard/internal/export"
	"admin-dashboard/internal/models"
	"admin-dashboard/internal/poller"
	"admin-dashboard/internal/services"
	"admin-dashboard/internal/web"
)

const (
	logsPageSize      = 50
	errorLogsPageSize = 20
	logStatsDays      = 7
	defaultClearDays  = 30
	maxDays           = 365
	eventLogs         = "logs"
)

var logLevels = []string{"ERROR", "WARNING", "INFO", "DEBUG"}

func logFilterFrom(r *http.Request) models.LogFilter {
	q := r.URL.Query()
	f := models.LogFilter{
		Page:      pageParam(r),
		Limit:     logsPageSize,
		Module:    strings.TrimSpace(q.Get("module")),
		Search:    strings.TrimSpace(q.Get("search")),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
	level := strings.ToUpper(q.Get("level"))
	for _, known := range logLevels {
		if level == known {
			f.Level = level
		}
	}
	return f
}

type logsView struct {
	Filter models.LogFilter
	Levels []string
	Logs   []models.LogEntry
	Err    string
	Stats  *models.LogStats
	Stream string
	Pager  Pager
}

func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := logFilterFrom(r)

	var (
		wg       sync.WaitGroup
		logs     []models.LogEntry
		stats    *models.LogStats
		logsErr  error
		statsErr error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		logs, logsErr = h.svc.ListLogs(ctx, filter)
	}()

	go func() {
		defer wg.Done()
		stats, statsErr = h.svc.LogStats(ctx, logStatsDays)
	}()

	wg.Wait()

	if err := firstUnauthorized(logsErr, statsErr); err != nil {
		h.sessionExpired(w, r, err)
		return
	}
	if statsErr != nil {
		slog.WarnContext(ctx, "Log stats fallback", "error", statsErr)
	}

	h.render(w, r, http.StatusOK, "logs.html", "Logs", "logs", logsView{
		Filter: filter,
		Levels: logLevels,
		Logs:   logs,
		Err:    errText(r, "logs", logsErr),
		Stats:  stats,
		Stream: logStreamURL(filter, latestID(logs)),
		Pager:  newPager(r, logsPageSize, len(logs)),
	})
}

func latestID(logs []models.LogEntry) int {
	latest := 0
	for _, l := range logs {
		if l.ID > latest {
			latest = l.ID
		}
	}
	return latest
}

type errorLogsView struct {
	Logs  []models.LogEntry
	Err   string
	Pager Pager
}

func (h *Handler) ErrorLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.ErrorLogs(r.Context(), pageParam(r), errorLogsPageSize)
	if h.sessionExpired(w, r, err) {
		return
	}

	h.render(w, r, http.StatusOK, "log_errors.html", "Error logs", "logs", errorLogsView{
		Logs:  logs,
		Err:   errText(r, "error logs", err),
		Pager: newPager(r, errorLogsPageSize, len(logs)),
	})
}

func (h *Handler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	days := intParam(r.PostFormValue("days"), defaultClearDays, 1, maxDays)

	res, err := h.svc.ClearLogs(r.Context(), days)
	success := fmt.Sprintf("Deleted logs older than %d days.", days)
	if res != nil {
		success = fmt.Sprintf("Deleted %d logs older than %d days.", res.DeletedCount, days)
	}
	h.afterMutation(w, r, "/logs", success, err)
}

// ExportLogs downloads the filtered logs as json, csv or xlsx.
func (h *Handler) ExportLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := logFilterFrom(r)
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "json"
	}

	var (
		body        bytes.Buffer
		contentType string
		err         error
	)

	switch format {
	case "json":
		var out *models.LogExport
		if out, err = h.svc.ExportLogs(ctx, filter); err == nil {
			contentType = "application/json"
			enc := json.NewEncoder(&body)
			enc.SetIndent("", "  ")
			err = enc.Encode(out)
		}
	case "csv":
		var csv string
		if csv, err = h.svc.ExportLogsCSV(ctx, filter); err == nil {
			contentType = "text/csv; charset=utf-8"
			body.WriteString(csv)
		}
	case "xlsx":
		var out *models.LogExport
		if out, err = h.svc.ExportLogs(ctx, filter); err == nil {
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			err = export.WriteLogsXLSX(&body, out.Logs)
		}
	default:
		http.Error(w, "unsupported export format: "+format, http.StatusBadRequest)
		return
	}

	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Log export failed", "format", format, "error", err)
		setFlash(w, web.FlashError, "Export failed: "+services.UserMessage(err))
		http.Redirect(w, r, "/logs", http.StatusSeeOther)
		return
	}

	filename := "logs_" + time.Now().Format("20060102_150405") + "." + format
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	_, _ = body.WriteTo(w)
}

// LogStream tails new log entries after last_id, keeping only the ones that
// match the level, module and search filters of the page that opened it.
func (h *Handler) LogStream(w http.ResponseWriter, r *http.Request) {
	lastID, err := strconv.Atoi(r.URL.Query().Get("last_id"))
	if err != nil || lastID < 0 {
		lastID = 0
	}
	filter := logFilterFrom(r)

	p := &poller.Poller{
		Interval: h.cfg.LogsPollInterval,
		Fetch: func(ctx context.Context) (poller.Event, error) {
			fresh, latest, err := h.newLogs(ctx, filter, lastID)
			if err != nil {
				return poller.Event{}, err
			}
			if latest > lastID {
				lastID = latest
			}
			if len(fresh) == 0 {
				return poller.Event{}, nil
			}
			return poller.Event{Name: eventLogs, Data: models.RealtimeLogs{Logs: fresh, LatestID: lastID}}, nil
		},
		IsFatal:  isSessionRejected,
		Describe: services.UserMessage,
	}
	h.stream(w, r, "logs", p)
}

// newLogs returns entries after lastID that match f, newest first, and the
// highest id seen. A full realtime batch may hide older entries, so the first
// page of the filtered list is read instead; bursts beyond one page are skipped.
func (h *Handler) newLogs(ctx context.Context, f models.LogFilter, lastID int) ([]models.LogEntry, int, error) {
	res, err := h.svc.RealtimeLogs(ctx, lastID)
	if err != nil {
		return nil, 0, err
	}
	latest := res.LatestID
	entries := res.Logs

	if len(entries) >= services.RealtimeBatch {
		f.Page, f.Limit = 1, logsPageSize
		entries, err = h.svc.ListLogs(ctx, f)
		if err != nil {
			return nil, 0, err
		}
	}

	fresh := make([]models.LogEntry, 0, len(entries))
	for _, l := range entries {
		if l.ID > latest {
			latest = l.ID
		}
		if l.ID > lastID && logMatches(f, l) {
			fresh = append(fresh, l)
		}
	}
	return fresh, latest, nil
}

func logMatches(f models.LogFilter, l models.LogEntry) bool {
	if f.Level != "" && !strings.EqualFold(l.Level, f.Level) {
		return false
	}
	if f.Module != "" && !strings.Contains(strings.ToLower(l.Module), strings.ToLower(f.Module)) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(l.Message), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// logStreamURL is the live tail for the first page of a filtered view. Older
// pages are not tailed.
func logStreamURL(f models.LogFilter, latest int) string {
	if f.Page > 1 {
		return ""
	}
	q := url.Values{}
	q.Set("last_id", strconv.Itoa(latest))
	if f.Level != "" {
		q.Set("level", f.Level)
	}
	if f.Module != "" {
		q.Set("module", f.Module)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return "/logs/stream?" + q.Encode()
}
