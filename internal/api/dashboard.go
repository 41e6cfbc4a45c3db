package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/poller"
	"admin-dashboard/internal/services"
	"admin-dashboard/internal/telemetry"
)

const eventStats = "stats"

type dashboardView struct {
	Health     string
	Stats      *models.DashboardStats
	StatsErr   string
	Sales      *models.SalesSummary
	SalesErr   string
	Activities []models.Activity
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		wg          sync.WaitGroup
		view        dashboardView
		statsErr    error
		salesErr    error
		activityErr error
	)

	wg.Add(4)

	go func() {
		defer wg.Done()
		view.Stats, statsErr = h.svc.DashboardStats(ctx)
	}()

	go func() {
		defer wg.Done()
		view.Sales, salesErr = h.svc.Sales(ctx)
	}()

	go func() {
		defer wg.Done()
		res, err := h.svc.RecentActivity(ctx)
		if err != nil {
			activityErr = err
			slog.WarnContext(ctx, "Recent activity fallback", "error", err)
			res = []models.Activity{}
		}
		view.Activities = res
	}()

	go func() {
		defer wg.Done()
		health, err := h.svc.Health(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Health check failed", "error", err)
			view.Health = "unreachable"
			return
		}
		view.Health = health.Status
	}()

	wg.Wait()

	if err := firstUnauthorized(statsErr, salesErr, activityErr); err != nil {
		h.sessionExpired(w, r, err)
		return
	}

	view.StatsErr = errText(r, "dashboard stats", statsErr)
	view.SalesErr = errText(r, "sales", salesErr)

	h.render(w, r, http.StatusOK, "dashboard.html", "Dashboard", "dashboard", view)
}

// DashboardStream pushes fresh overview counters while the dashboard is open.
func (h *Handler) DashboardStream(w http.ResponseWriter, r *http.Request) {
	p := &poller.Poller{
		Interval: h.cfg.DashboardPollInterval,
		Fetch: func(ctx context.Context) (poller.Event, error) {
			stats, err := h.svc.FreshDashboardStats(ctx)
			if err != nil {
				return poller.Event{}, err
			}
			return poller.Event{Name: eventStats, Data: stats.Overview}, nil
		},
		IsFatal:  isSessionRejected,
		Describe: services.UserMessage,
	}
	h.stream(w, r, "dashboard", p)
}

func isSessionRejected(err error) bool {
	return errors.Is(err, services.ErrUnauthorized)
}

// stream runs p until the viewer disconnects or the backend rejects the session.
// The headers are already sent by then, so a rejected session is ended by the
// login page the viewer is redirected to.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request, name string, p *poller.Poller) {
	ctx := r.Context()
	p.Redirect = expiredLoginURL
	sw := poller.NewStreamWriter(w)

	slog.InfoContext(ctx, "Stream opened", "stream", name)
	closed := telemetry.StreamOpened(name)
	defer closed()

	err := p.Run(ctx, sw.Send)
	switch {
	case isSessionRejected(err):
		slog.InfoContext(ctx, "Stream ended, session rejected", "stream", name)
	case err != nil:
		slog.WarnContext(ctx, "Stream aborted", "stream", name, "error", err)
	default:
		slog.InfoContext(ctx, "Stream closed", "stream", name)
	}
}
