package api

import (
	"net/http"
	"net/url"
	"strconv"
)

// Pager drives the previous/next controls of list pages. The backend does not
// report totals for most lists, so a full page means there may be a next one.
type Pager struct {
	Page  int
	Limit int
	Count int
	path  string
	query url.Values
}

func newPager(r *http.Request, limit, count int) Pager {
	return Pager{
		Page:  pageParam(r),
		Limit: limit,
		Count: count,
		path:  r.URL.Path,
		query: r.URL.Query(),
	}
}

// Visible hides the controls for empty result sets.
func (p Pager) Visible() bool { return p.Count > 0 }

func (p Pager) HasPrev() bool { return p.Page > 1 }

func (p Pager) HasNext() bool { return p.Count >= p.Limit }

func (p Pager) PrevURL() string {
	prev := p.Page - 1
	if prev < 1 {
		prev = 1
	}
	return p.url(prev)
}

func (p Pager) NextURL() string { return p.url(p.Page + 1) }

func (p Pager) url(page int) string {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return p.path + "?" + q.Encode()
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// intParam parses a positive integer clamped to [lo, hi], falling back to def.
func intParam(raw string, def, lo, hi int) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
