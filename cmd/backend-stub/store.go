package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/services"
)

// store is the in-memory data set served by the stub backend.
type store struct {
	mu       sync.Mutex
	products []models.Product
	users    []models.User
	logs     []models.LogEntry
	contents map[int][]models.SNSContent
	nextID   int
	now      func() time.Time
}

func newStore(now func() time.Time) *store {
	s := &store{contents: make(map[int][]models.SNSContent), nextID: 100, now: now}

	price := func(v float64) *float64 { return &v }
	created := now().Add(-48 * time.Hour).Format(time.RFC3339)

	for i, title := range []string{"Desk lamp", "Ceramic mug", "Wireless earbuds", "Yoga mat", "Wall clock"} {
		s.products = append(s.products, models.Product{
			ID:                i + 1,
			Title:             title,
			Description:       title + " imported for the demo shop.",
			Price:             price(9.99 + float64(i)*5),
			Status:            "active",
			InventoryQuantity: 10 * (i + 1),
			CreatedAt:         created,
		})
	}
	s.users = []models.User{
		{ID: 1, Username: "admin", FullName: "Shop Admin", Email: "admin@example.com", IsActive: true, IsSuperuser: true, CreatedAt: created},
		{ID: 2, Username: "editor", FullName: "Content Editor", Email: "editor@example.com", IsActive: true, CreatedAt: created},
	}
	for i := 1; i <= 30; i++ {
		level := "INFO"
		if i%7 == 0 {
			level = "ERROR"
		} else if i%5 == 0 {
			level = "WARNING"
		}
		s.logs = append(s.logs, models.LogEntry{
			ID:        i,
			Level:     level,
			Module:    "shopify",
			Function:  "sync_products",
			Message:   fmt.Sprintf("sync step %d", i),
			CreatedAt: now().Add(time.Duration(i-30) * time.Minute).Format(time.RFC3339),
		})
	}
	return s
}

func (s *store) id() int {
	s.nextID++
	return s.nextID
}

func (s *store) log(level, module, msg string) {
	s.logs = append(s.logs, models.LogEntry{
		ID:        s.lastLogID() + 1,
		Level:     level,
		Module:    module,
		Message:   msg,
		CreatedAt: s.now().Format(time.RFC3339),
	})
}

func (s *store) lastLogID() int {
	if len(s.logs) == 0 {
		return 0
	}
	return s.logs[len(s.logs)-1].ID
}

// page slices items for a 1-based page number.
func page[T any](items []T, pageNum, limit int) []T {
	if pageNum < 1 {
		pageNum = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (pageNum - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (s *store) listProducts(search string, pageNum, limit int) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Product
	for _, p := range s.products {
		if search == "" || strings.Contains(strings.ToLower(p.Title), strings.ToLower(search)) {
			out = append(out, p)
		}
	}
	return page(out, pageNum, limit)
}

func (s *store) product(id int) (*models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, true
		}
	}
	return nil, false
}

func (s *store) updateProduct(id int, upd models.ProductUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		p := &s.products[i]
		if p.ID != id {
			continue
		}
		if upd.Title != nil {
			p.Title = *upd.Title
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if upd.Price != nil {
			v := *upd.Price
			p.Price = &v
		}
		if upd.Status != nil {
			p.Status = *upd.Status
		}
		s.log("INFO", "products", fmt.Sprintf("product %d updated", id))
		return true
	}
	return false
}

func (s *store) deleteProduct(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.log("INFO", "products", fmt.Sprintf("product %d deleted", id))
			return true
		}
	}
	return false
}

func (s *store) importProduct(sourceID string) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := 4.99
	p := models.Product{
		ID:           s.id(),
		Title:        "AliExpress item " + sourceID,
		Price:        &v,
		Status:       "draft",
		ImportSource: "aliexpress",
		SourceURL:    "https://www.aliexpress.com/item/" + sourceID + ".html",
		CreatedAt:    s.now().Format(time.RFC3339),
	}
	s.products = append(s.products, p)
	s.log("INFO", "aliexpress", "imported "+sourceID)
	return p
}

func (s *store) imports() []models.ImportedProduct {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ImportedProduct
	for i := len(s.products) - 1; i >= 0 && len(out) < 10; i-- {
		p := s.products[i]
		if p.ImportSource == "" {
			continue
		}
		out = append(out, models.ImportedProduct{
			ID:           p.ID,
			Title:        p.Title,
			ImportSource: p.ImportSource,
			SourceURL:    p.SourceURL,
			Status:       p.Status,
			CreatedAt:    p.CreatedAt,
		})
	}
	return out
}

func (s *store) listUsers(search string, pageNum, limit int) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.User
	for _, u := range s.users {
		if search == "" || strings.Contains(u.Username, search) || strings.Contains(u.Email, search) {
			out = append(out, u)
		}
	}
	return page(out, pageNum, limit)
}

func (s *store) user(id int) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, true
		}
	}
	return nil, false
}

// createUser reports false when the username or email is taken.
func (s *store) createUser(in models.UserCreate) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == in.Username || u.Email == in.Email {
			return nil, false
		}
	}
	u := models.User{
		ID:          s.id(),
		Username:    in.Username,
		FullName:    in.FullName,
		Email:       in.Email,
		IsActive:    true,
		IsSuperuser: in.IsSuperuser,
		CreatedAt:   s.now().Format(time.RFC3339),
	}
	s.users = append(s.users, u)
	s.log("INFO", "users", "user "+u.Username+" created")
	return &u, true
}

// editUser applies fn to the user with id. A nil fn deletes the user.
func (s *store) editUser(id int, fn func(*models.User)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		if fn == nil {
			s.users = append(s.users[:i], s.users[i+1:]...)
		} else {
			fn(&s.users[i])
		}
		return true
	}
	return false
}

// filterLogs returns matching entries newest first.
func (s *store) filterLogs(level, module, search string) []models.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.LogEntry
	for i := len(s.logs) - 1; i >= 0; i-- {
		l := s.logs[i]
		if level != "" && l.Level != strings.ToUpper(level) {
			continue
		}
		if module != "" && !strings.Contains(l.Module, module) {
			continue
		}
		if search != "" && !strings.Contains(l.Message, search) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (s *store) logsAfter(lastID int) []models.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.LogEntry
	for i := len(s.logs) - 1; i >= 0 && len(out) < services.RealtimeBatch; i-- {
		if s.logs[i].ID <= lastID {
			break
		}
		out = append(out, s.logs[i])
	}
	return out
}

func (s *store) clearLogs(days int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().AddDate(0, 0, -days)
	kept := s.logs[:0]
	deleted := 0
	for _, l := range s.logs {
		if t, err := time.Parse(time.RFC3339, l.CreatedAt); err == nil && t.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	s.logs = kept
	return deleted
}

func (s *store) logStats() models.LogStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := models.LogStats{
		LevelDistribution:  map[string]int{},
		ModuleDistribution: map[string]int{},
	}
	for _, l := range s.logs {
		st.TotalLogs++
		st.LevelDistribution[l.Level]++
		st.ModuleDistribution[l.Module]++
		if l.Level == "ERROR" {
			st.ErrorCount++
		}
	}
	return st
}

func (s *store) addContent(productID int, req models.GenerateRequest) models.SNSContent {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := models.SNSContent{
		ID:               s.id(),
		Platform:         req.Platform,
		ContentType:      req.ContentType,
		Title:            fmt.Sprintf("%s %s for product %d", req.Platform, req.ContentType, productID),
		GeneratedContent: "Meet your new favourite find. Limited stock, order today!",
		Hashtags:         []string{"#shop", "#" + req.Platform},
		CreatedAt:        s.now().Format(time.RFC3339),
	}
	s.contents[productID] = append([]models.SNSContent{c}, s.contents[productID]...)
	s.log("INFO", "sns", "generated content "+c.Title)
	return c
}

// editContent applies fn to the content item with id.
func (s *store) editContent(id int, fn func(*models.SNSContent)) (*models.SNSContent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for pid := range s.contents {
		for i := range s.contents[pid] {
			if c := &s.contents[pid][i]; c.ID == id {
				fn(c)
				out := *c
				return &out, true
			}
		}
	}
	return nil, false
}

func (s *store) contentFor(productID int, platform string) []models.SNSContent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.SNSContent{}
	for _, c := range s.contents[productID] {
		if platform == "" || c.Platform == platform {
			out = append(out, c)
		}
	}
	return out
}

func (s *store) overview() models.DashboardOverview {
	s.mu.Lock()
	defer s.mu.Unlock()

	var o models.DashboardOverview
	o.TotalProducts = len(s.products)
	for _, p := range s.products {
		if p.Status == "active" {
			o.ActiveProducts++
		}
	}
	o.TotalUsers = len(s.users)
	for _, u := range s.users {
		if u.IsActive {
			o.ActiveUsers++
		}
	}
	o.RecentLogs = len(s.logs)
	for _, l := range s.logs {
		if l.Level == "ERROR" {
			o.ErrorLogs++
		}
	}
	for _, list := range s.contents {
		o.TotalSNSContent += len(list)
		for _, c := range list {
			if c.IsPublished {
				o.PublishedSNSContent++
			}
		}
	}
	return o
}

func (s *store) trends() []models.TrendPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]int{}
	for _, p := range s.products {
		if len(p.CreatedAt) >= 10 {
			counts[p.CreatedAt[:10]]++
		}
	}
	out := make([]models.TrendPoint, 0, len(counts))
	for d, n := range counts {
		out = append(out, models.TrendPoint{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
