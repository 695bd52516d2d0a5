package models

import "time"

// ProductRecord is a catalog product carrying the ten feed fields.
type ProductRecord struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	Image         string    `json:"image"`
	Stock         int       `json:"stock"`
	Featured      bool      `json:"featured"`
	DefaultWeight string    `json:"defaultWeight"`
	ShelfLife     string    `json:"shelfLife"`
	DeliveryTime  string    `json:"deliveryTime"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// ImageFile is an uploaded image matched to a row by product name.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateResult is the product creation outcome, {success, data | error} on the wire.
type CreateResult struct {
	Success bool           `json:"success"`
	Data    *ProductRecord `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ImportResult summarises one bulk import run. Errors is ordered by row.
type ImportResult struct {
	Success  int      `json:"success"`
	Failed   int      `json:"failed"`
	Warnings int      `json:"warnings"`
	Errors   []string `json:"errors"`
}
