package model

import "time"

type Book struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Genre        string    `json:"genre"`
	Condition    string    `json:"condition"`
	Availability bool      `json:"availability"`
	Location     string    `json:"location"`
	UserID       int64     `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// BookFilters are optional case-insensitive substring filters.
// All provided filters must match (AND semantics).
type BookFilters struct {
	Title    string
	Author   string
	Genre    string
	Location string
}

// BookPage is the envelope returned by the paginated dashboard listing.
type BookPage struct {
	Count    int64  `json:"count"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Results  []Book `json:"results"`
}
