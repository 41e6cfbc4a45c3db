package models

type AliExpressProduct struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    string  `json:"price"`
	Orders   int     `json:"orders"`
	Rating   float64 `json:"rating,omitempty"`
	ImageURL string  `json:"image_url"`
	URL      string  `json:"url,omitempty"`
}

type AliExpressQuery struct {
	Keyword   string
	Category  string
	MinOrders int
	MaxPrice  float64
	Page      int
	Limit     int
}

type AliExpressSearchResult struct {
	Products []AliExpressProduct `json:"products"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	Limit    int                 `json:"limit"`
}

type TrendingResult struct {
	Products []AliExpressProduct `json:"products"`
	Category string              `json:"category"`
	Total    int                 `json:"total"`
}

type ImportRequest struct {
	ProductID string `json:"product_id"`
}

type BatchImportRequest struct {
	ProductIDs []string `json:"product_ids"`
}

type ImportResult struct {
	Message   string `json:"message"`
	ProductID string `json:"product_id"`
	Status    string `json:"status"`
}

type BatchImportResult struct {
	Message          string   `json:"message"`
	NewProducts      []string `json:"new_products"`
	ExistingProducts []string `json:"existing_products"`
	Status           string   `json:"status"`
}

type ImportedProduct struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	ImportSource string `json:"import_source"`
	SourceURL    string `json:"source_url"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

type ImportStatus struct {
	RecentImports []ImportedProduct `json:"recent_imports"`
	TotalImported int               `json:"total_imported"`
}
