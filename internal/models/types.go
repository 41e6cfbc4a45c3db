// Package models holds the response and request bodies of the backend REST API.
// The backend owns these shapes; the dashboard only decodes and displays them.
package models

type Product struct {
	ID                int      `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Price             *float64 `json:"price"`
	CompareAtPrice    *float64 `json:"compare_at_price,omitempty"`
	Vendor            string   `json:"vendor,omitempty"`
	ProductType       string   `json:"product_type,omitempty"`
	Tags              string   `json:"tags,omitempty"`
	Status            string   `json:"status"`
	ImageURL          string   `json:"image_url"`
	InventoryQuantity int      `json:"inventory_quantity,omitempty"`
	ShopifyID         string   `json:"shopify_id,omitempty"`
	ImportSource      string   `json:"import_source,omitempty"`
	SourceURL         string   `json:"source_url,omitempty"`
	CreatedAt         string   `json:"created_at"`
}

// PriceValue is the price with a missing value shown as zero.
func (p Product) PriceValue() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

type ProductUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	CreatedAt   string `json:"created_at"`
}

type UserCreate struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name,omitempty"`
	IsSuperuser bool   `json:"is_superuser"`
}

type UserUpdate struct {
	Email       *string `json:"email,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
}

// Message is the plain acknowledgement body returned by most mutations.
type Message struct {
	Message string `json:"message"`
}

type Health struct {
	Status string `json:"status"`
}
