package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/services"
	"admin-dashboard/internal/web"
)

const productsPageSize = 20

type productsView struct {
	Search   string
	Products []models.Product
	Err      string
	Pager    Pager
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	page := pageParam(r)

	products, err := h.svc.ListProducts(r.Context(), page, productsPageSize, search)
	if h.sessionExpired(w, r, err) {
		return
	}

	h.render(w, r, http.StatusOK, "products.html", "Products", "products", productsView{
		Search:   search,
		Products: products,
		Err:      errText(r, "products", err),
		Pager:    newPager(r, productsPageSize, len(products)),
	})
}

func (h *Handler) SyncShopify(w http.ResponseWriter, r *http.Request) {
	msg, err := h.svc.SyncShopify(r.Context())
	success := "Shopify sync started."
	if msg != nil && msg.Message != "" {
		success = msg.Message
	}
	h.afterMutation(w, r, "/products", success, err)
}

type productView struct {
	Product *models.Product
	Err     string
}

func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		if isNotFound(err) {
			h.errorPage(w, r, http.StatusNotFound, "products", "Product not found.", "/products")
			return
		}
	}

	h.render(w, r, http.StatusOK, "product_detail.html", "Product", "products", productView{
		Product: product,
		Err:     errText(r, "product", err),
	})
}

// UpdateProduct applies the edit form. Blank fields are left unchanged.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	target := "/products/" + id

	if err := r.ParseForm(); err != nil {
		setFlash(w, web.FlashError, "Invalid form submission.")
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	var upd models.ProductUpdate
	if v := strings.TrimSpace(r.PostFormValue("title")); v != "" {
		upd.Title = &v
	}
	if v, ok := r.PostForm["description"]; ok && len(v) > 0 {
		upd.Description = &v[0]
	}
	if v := strings.TrimSpace(r.PostFormValue("status")); v != "" {
		upd.Status = &v
	}
	if v := strings.TrimSpace(strings.TrimPrefix(r.PostFormValue("price"), "$")); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			setFlash(w, web.FlashError, "Price must be a non-negative number.")
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		upd.Price = &price
	}

	_, err := h.svc.UpdateProduct(r.Context(), id, upd)
	h.afterMutation(w, r, target, "Product updated.", err)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	_, err := h.svc.DeleteProduct(r.Context(), id)
	if err != nil && !isNotFound(err) {
		h.afterMutation(w, r, "/products/"+id, "", err)
		return
	}
	h.afterMutation(w, r, "/products", "Product deleted.", nil)
}

type errorView struct {
	Message string
	Back    string
}

func (h *Handler) errorPage(w http.ResponseWriter, r *http.Request, status int, nav, message, back string) {
	h.render(w, r, status, "error.html", "Error", nav, errorView{Message: message, Back: back})
}

func isNotFound(err error) bool {
	var apiErr *services.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
