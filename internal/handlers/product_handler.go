package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"productapi/internal/repositories"
	"productapi/internal/services"
	"productapi/internal/validation"
)

const (
	productNotFoundMsg     = "Product Not Found"
	internalServerErrorMsg = "Internal Server Error"
	productDeletedMsg      = "Product Deleted"
)

var (
	idRule = validation.Param("id", validation.IsInt, "Not Valid ID")

	createProductRules = []validation.Rule{
		validation.Body("name", validation.NotEmpty, "Product Name Must Be Filled"),
		validation.Body("price", validation.IsNumeric, "Not Valid Value"),
		validation.Body("price", validation.NotEmpty, "Product Price Must Be Filled"),
		validation.Body("price", validation.IsPositive, "Price Not Valid"),
	}

	updateProductRules = []validation.Rule{
		idRule,
		validation.Body("name", validation.NotEmpty, "Product Name Cant Be Empty"),
		validation.Body("price", validation.IsNumeric, "Valor no válido"),
		validation.Body("price", validation.NotEmpty, "Product Price Cant Be Empty"),
		validation.Body("price", validation.IsPositive, "Price Not Valid"),
		validation.Body("availability", validation.IsBoolean, "Not Valid Availability Value"),
	}
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes. Order matters: each route runs
// its validation chain before the handler.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", validation.Handle(idRule), h.HandleGetProductByID)
	productRoutes.Post("/", validation.Handle(createProductRules...), h.HandleCreateProduct)
	productRoutes.Put("/:id", validation.Handle(updateProductRules...), h.HandleUpdateProduct)
	productRoutes.Patch("/:id", validation.Handle(idRule), h.HandleUpdateAvailability)
	productRoutes.Delete("/:id", validation.Handle(idRule), h.HandleDeleteProduct)
}

// HandleGetProducts godoc
// @Summary      Get a list of products
// @Tags         Products
// @Produce      json
// @Success      200  {object}  ProductListResponse
// @Router       /products [get]
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.fail(c, "listing products", err)
	}
	return c.JSON(fiber.Map{"data": products})
}

// HandleGetProductByID godoc
// @Summary      Get a product by ID
// @Tags         Products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  ProductResponse
// @Failure      400  {object}  ValidationErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), pathID(c))
	if err != nil {
		return h.fail(c, "getting product "+c.Params("id"), err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleCreateProduct godoc
// @Summary      Create a new product
// @Tags         Products
// @Accept       json
// @Produce      json
// @Param        product  body      CreateProductRequest  true  "Product data"
// @Success      201      {object}  ProductResponse
// @Failure      400      {object}  ValidationErrorResponse
// @Router       /products [post]
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	body := validation.ParsedBody(c)
	price, _ := validation.ToFloat(body["price"])

	product, err := h.service.CreateProduct(c.UserContext(), validation.ToString(body["name"]), price)
	if err != nil {
		return h.fail(c, "creating product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": product})
}

// HandleUpdateProduct godoc
// @Summary      Replace a product
// @Tags         Products
// @Accept       json
// @Produce      json
// @Param        id       path      int                   true  "Product ID"
// @Param        product  body      UpdateProductRequest  true  "Product data"
// @Success      200      {object}  ProductResponse
// @Failure      400      {object}  ValidationErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	body := validation.ParsedBody(c)
	price, _ := validation.ToFloat(body["price"])
	input := services.ProductInput{
		Name:         validation.ToString(body["name"]),
		Price:        price,
		Availability: validation.ToBool(body["availability"]),
	}

	product, err := h.service.UpdateProduct(c.UserContext(), pathID(c), input)
	if err != nil {
		return h.fail(c, "updating product "+c.Params("id"), err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleUpdateAvailability godoc
// @Summary      Toggle product availability
// @Tags         Products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  ProductResponse
// @Failure      400  {object}  ValidationErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /products/{id} [patch]
func (h *ProductHandler) HandleUpdateAvailability(c *fiber.Ctx) error {
	product, err := h.service.ToggleAvailability(c.UserContext(), pathID(c))
	if err != nil {
		return h.fail(c, "toggling availability of product "+c.Params("id"), err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleDeleteProduct godoc
// @Summary      Delete a product
// @Tags         Products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ValidationErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), pathID(c)); err != nil {
		return h.fail(c, "deleting product "+c.Params("id"), err)
	}
	return c.JSON(fiber.Map{"message": productDeletedMsg})
}

// pathID reads the already validated id parameter. Values that overflow
// int64 cannot name a row and map to 0, which is never found.
func pathID(c *fiber.Ctx) int64 {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (h *ProductHandler) fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": productNotFoundMsg})
	case errors.Is(err, services.ErrInvalidProduct):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("Error %s (request %v): %v", action, c.Locals("requestid"), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internalServerErrorMsg})
}
