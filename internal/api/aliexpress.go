package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/web"
)

const (
	aliexpressPageSize   = 20
	trendingLimit        = 10
	defaultMinOrders     = 100
	defaultAliExpressCat = "Home & Garden"
)

var aliexpressCategories = []string{
	"Home & Garden",
	"Electronics",
	"Fashion",
	"Sports & Entertainment",
}

type aliexpressView struct {
	Query       models.AliExpressQuery
	Categories  []string
	Searched    bool
	Results     []models.AliExpressProduct
	Err         string
	Trending    []models.AliExpressProduct
	TrendingErr string
	Status      *models.ImportStatus
	StatusErr   string
}

// AliExpress shows the search form with either search results or the
// trending list for the selected category, plus recent imports.
func (h *Handler) AliExpress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	query := models.AliExpressQuery{
		Keyword:   strings.TrimSpace(q.Get("keyword")),
		Category:  q.Get("category"),
		MinOrders: defaultMinOrders,
		Page:      pageParam(r),
		Limit:     aliexpressPageSize,
	}
	if !validCategory(query.Category) {
		query.Category = defaultAliExpressCat
	}
	if v, err := strconv.Atoi(q.Get("min_orders")); err == nil && v >= 0 {
		query.MinOrders = v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil && v > 0 {
		query.MaxPrice = v
	}

	if q.Get("searched") != "" && query.Keyword == "" {
		setFlash(w, web.FlashError, "Please enter a search keyword.")
		http.Redirect(w, r, "/aliexpress?category="+url.QueryEscape(query.Category), http.StatusSeeOther)
		return
	}

	view := aliexpressView{
		Query:      query,
		Categories: aliexpressCategories,
		Searched:   query.Keyword != "",
	}

	var (
		wg          sync.WaitGroup
		searchErr   error
		trendingErr error
		statusErr   error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		if view.Searched {
			res, err := h.svc.SearchAliExpress(ctx, query)
			if err != nil {
				searchErr = err
				return
			}
			view.Results = res.Products
			return
		}
		res, err := h.svc.TrendingAliExpress(ctx, query.Category, trendingLimit)
		if err != nil {
			trendingErr = err
			return
		}
		view.Trending = res.Products
	}()

	go func() {
		defer wg.Done()
		view.Status, statusErr = h.svc.ImportStatus(ctx)
	}()

	wg.Wait()

	if err := firstUnauthorized(searchErr, trendingErr, statusErr); err != nil {
		h.sessionExpired(w, r, err)
		return
	}

	view.Err = errText(r, "aliexpress search", searchErr)
	view.TrendingErr = errText(r, "aliexpress trending", trendingErr)
	view.StatusErr = errText(r, "import status", statusErr)

	h.render(w, r, http.StatusOK, "aliexpress.html", "AliExpress import", "aliexpress", view)
}

func (h *Handler) ImportProduct(w http.ResponseWriter, r *http.Request) {
	back := backTo(r, "/aliexpress")

	id := strings.TrimSpace(r.FormValue("product_id"))
	if id == "" {
		setFlash(w, web.FlashError, "No product selected.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	res, err := h.svc.ImportProduct(r.Context(), id)
	success := "Product import started."
	if res != nil && res.Message != "" {
		success = res.Message
	}
	h.afterMutation(w, r, back, success, err)
}

func (h *Handler) ImportBatch(w http.ResponseWriter, r *http.Request) {
	back := backTo(r, "/aliexpress")

	if err := r.ParseForm(); err != nil {
		setFlash(w, web.FlashError, "Invalid form submission.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	var ids []string
	for _, id := range r.PostForm["product_ids"] {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		setFlash(w, web.FlashError, "Select at least one product to import.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	res, err := h.svc.ImportBatch(r.Context(), ids)
	success := strconv.Itoa(len(ids)) + " products queued for import."
	if res != nil && res.Message != "" {
		success = res.Message
	}
	h.afterMutation(w, r, back, success, err)
}

func validCategory(c string) bool {
	for _, known := range aliexpressCategories {
		if c == known {
			return true
		}
	}
	return false
}

type aliexpressProductView struct {
	Product *models.AliExpressProduct
	Err     string
}

func (h *Handler) AliExpressProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.GetAliExpressProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		if isNotFound(err) {
			h.errorPage(w, r, http.StatusNotFound, "aliexpress", "AliExpress product not found.", "/aliexpress")
			return
		}
	}

	h.render(w, r, http.StatusOK, "aliexpress_product.html", "AliExpress product", "aliexpress", aliexpressProductView{
		Product: product,
		Err:     errText(r, "aliexpress product", err),
	})
}
