package models

import "time"

// User is a teacher account. Staff users may read listings and detail pages.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Identity is the caller of an operation. The zero value is anonymous.
type Identity struct {
	UserID  string
	IsStaff bool
}

// Anonymous reports whether no user is attached.
func (i Identity) Anonymous() bool { return i.UserID == "" }

// PageRequest carries pagination input shared by list filters.
type PageRequest struct {
	Page     int
	PageSize int
}

// Window normalises the request into page, size and row offset.
func (p PageRequest) Window() (page, size, offset int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	size = p.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size, (page - 1) * size
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// NewPagination builds response metadata for a page request.
func NewPagination(req PageRequest, total int) *Pagination {
	page, size, _ := req.Window()
	return &Pagination{Page: page, PageSize: size, TotalCount: total}
}
