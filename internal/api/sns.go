package api

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/web"
)

const (
	defaultAnalyticsDays = 30
	defaultContentType   = "post"
)

type snsView struct {
	Analytics    *models.SNSAnalytics
	AnalyticsErr string
	Platforms    []models.Platform
	PlatformsErr string
}

func (h *Handler) SNS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	days := intParam(r.URL.Query().Get("days"), defaultAnalyticsDays, 1, maxDays)

	var (
		wg           sync.WaitGroup
		analytics    *models.SNSAnalytics
		platforms    *models.PlatformList
		analyticsErr error
		platformsErr error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		analytics, analyticsErr = h.svc.SNSAnalytics(ctx, days)
	}()

	go func() {
		defer wg.Done()
		platforms, platformsErr = h.svc.Platforms(ctx)
	}()

	wg.Wait()

	if err := firstUnauthorized(analyticsErr, platformsErr); err != nil {
		h.sessionExpired(w, r, err)
		return
	}

	view := snsView{
		Analytics:    analytics,
		AnalyticsErr: errText(r, "sns analytics", analyticsErr),
		PlatformsErr: errText(r, "sns platforms", platformsErr),
	}
	if platforms != nil {
		view.Platforms = platforms.Platforms
	}

	h.render(w, r, http.StatusOK, "sns.html", "SNS", "sns", view)
}

type snsContentView struct {
	ProductID    string
	Product      *models.Product
	ProductErr   string
	Platforms    []models.Platform
	ContentTypes []string
	Contents     []models.SNSContent
	Err          string
}

func (h *Handler) SNSContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := r.PathValue("productID")
	platform := r.URL.Query().Get("platform")

	var (
		wg           sync.WaitGroup
		product      *models.Product
		platforms    *models.PlatformList
		contents     []models.SNSContent
		productErr   error
		platformsErr error
		contentsErr  error
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		product, productErr = h.svc.GetProduct(ctx, productID)
	}()

	go func() {
		defer wg.Done()
		platforms, platformsErr = h.svc.Platforms(ctx)
	}()

	go func() {
		defer wg.Done()
		contents, contentsErr = h.svc.ListSNSContent(ctx, productID, platform)
	}()

	wg.Wait()

	if err := firstUnauthorized(productErr, platformsErr, contentsErr); err != nil {
		h.sessionExpired(w, r, err)
		return
	}

	view := snsContentView{
		ProductID:  productID,
		Product:    product,
		ProductErr: errText(r, "product", productErr),
		Contents:   contents,
		Err:        errText(r, "sns content", contentsErr),
	}
	if platformsErr != nil {
		slog.WarnContext(ctx, "Platform list fallback", "error", platformsErr)
	} else {
		view.Platforms = platforms.Platforms
	}
	view.ContentTypes = contentTypes(view.Platforms)

	h.render(w, r, http.StatusOK, "sns_content.html", "SNS content", "sns", view)
}

// contentTypes lists every content type offered by any platform, in order.
func contentTypes(platforms []models.Platform) []string {
	seen := make(map[string]bool)
	var types []string
	for _, p := range platforms {
		for _, t := range p.ContentTypes {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	}
	if len(types) == 0 {
		types = []string{defaultContentType}
	}
	return types
}

func (h *Handler) GenerateSNSContent(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productID")
	target := "/sns/content/" + productID

	req := models.GenerateRequest{
		Platform:    strings.TrimSpace(r.PostFormValue("platform")),
		ContentType: strings.TrimSpace(r.PostFormValue("content_type")),
	}
	if req.Platform == "" {
		setFlash(w, web.FlashError, "Choose a platform.")
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	if req.ContentType == "" {
		req.ContentType = defaultContentType
	}

	_, err := h.svc.GenerateSNSContent(r.Context(), productID, req)
	h.afterMutation(w, r, target, "SNS content generated.", err)
}

func (h *Handler) UpdateSNSContent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	var upd models.ContentUpdate
	if v, ok := r.PostForm["title"]; ok && len(v) > 0 {
		title := strings.TrimSpace(v[0])
		upd.Title = &title
	}
	if v, ok := r.PostForm["description"]; ok && len(v) > 0 {
		upd.Description = &v[0]
	}
	if v, ok := r.PostForm["hashtags"]; ok && len(v) > 0 {
		upd.Hashtags = splitHashtags(v[0])
	}

	_, err := h.svc.UpdateSNSContent(r.Context(), r.PathValue("id"), upd)
	h.afterMutation(w, r, contentPage(r), "SNS content saved.", err)
}

func (h *Handler) RegenerateSNSContent(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.RegenerateSNSContent(r.Context(), r.PathValue("id"))
	h.afterMutation(w, r, contentPage(r), "SNS content regenerated.", err)
}

// contentPage is the product content list the form was posted from.
func contentPage(r *http.Request) string {
	if id := strings.TrimSpace(r.PostFormValue("product_id")); id != "" && !strings.ContainsAny(id, "/?#") {
		return "/sns/content/" + id
	}
	return backTo(r, "/sns")
}

// splitHashtags accepts space or comma separated tags and adds missing '#'.
func splitHashtags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if !strings.HasPrefix(f, "#") {
			f = "#" + f
		}
		if f != "#" {
			tags = append(tags, f)
		}
	}
	return tags
}
