package dto

import (
	"github.com/shopspring/decimal"
)

// RecordMovementRequest is the body of POST /stores/:store_id/stock
type RecordMovementRequest struct {
	ProductID       string          `json:"product_id" binding:"required,uuid"`
	MovementType    string          `json:"movement_type" binding:"required,movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReferenceNumber string          `json:"reference_number" binding:"omitempty,max=100"`
	Notes           string          `json:"notes" binding:"omitempty,max=1000"`
}

// CreateStoreRequest is the body of POST /stores
type CreateStoreRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Code    string `json:"code" binding:"required,max=50"`
	Address string `json:"address" binding:"omitempty,max=500"`
}

// CreateProductRequest is the body of POST /products
type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required,max=200"`
	SKU               string          `json:"sku" binding:"required,max=100"`
	Description       string          `json:"description" binding:"omitempty,max=2000"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// UpdateThresholdRequest is the body of PATCH /products/:id/threshold
type UpdateThresholdRequest struct {
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin manager staff"`
}
