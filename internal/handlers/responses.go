package handlers

import (
	"productapi/internal/models"
	"productapi/internal/validation"
)

// CreateProductRequest is the body of POST /products.
type CreateProductRequest struct {
	Name  string  `json:"name" example:"Curved Monitor 49\""`
	Price float64 `json:"price" example:"399"`
}

// UpdateProductRequest is the body of PUT /products/{id}.
type UpdateProductRequest struct {
	Name         string  `json:"name" example:"Curved Monitor 49\""`
	Price        float64 `json:"price" example:"399"`
	Availability bool    `json:"availability" example:"true"`
}

// ProductResponse wraps a single product.
type ProductResponse struct {
	Data models.Product `json:"data"`
}

// ProductListResponse wraps the product list.
type ProductListResponse struct {
	Data []models.Product `json:"data"`
}

// ValidationErrorResponse lists every failed validation rule.
type ValidationErrorResponse struct {
	Errors validation.Errors `json:"errors"`
}

// ErrorResponse carries a single error message.
type ErrorResponse struct {
	Error string `json:"error" example:"Product Not Found"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message" example:"Product Deleted"`
}
