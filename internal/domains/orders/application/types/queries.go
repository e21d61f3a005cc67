package types

import (
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/shared/pagination"
)

// SortField enumerates admin listing sort keys.
type SortField string

const (
	SortByCreatedAt  SortField = "createdAt"
	SortByTotalPrice SortField = "totalPrice"
	SortByStatus     SortField = "status"
)

// OrderQuery is the repository-level listing request.
type OrderQuery struct {
	CustomerID string
	Status     domain.Status
	// Search matches customer name, email, or phone, ignoring case.
	Search string
	SortBy SortField
	Asc    bool
	Offset int
	Limit  int
}

// CustomerOrdersInput pages through one customer's orders.
type CustomerOrdersInput struct {
	UserID string
	Page   int
	Limit  int
}

// AdminListInput is the admin order listing request.
type AdminListInput struct {
	Page      int
	Limit     int
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}

// OrderPage is one page of orders.
type OrderPage struct {
	Orders     []*OrderProjection
	Pagination pagination.Info
}
