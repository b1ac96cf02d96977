package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Patch("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Price int64  `json:"price" validate:"required,gt=0"`
}

// UpdateProductRequest is the request body for partially updating a product.
// Pointer fields distinguish "absent" from "zero": only supplied fields are
// written, and a supplied field must satisfy the same constraints as on
// create.
type UpdateProductRequest struct {
	Name  *string `json:"name" validate:"omitnil,min=1,max=100"`
	Price *int64  `json:"price" validate:"omitnil,gt=0"`
}

// HandleListProducts retrieves products ordered by the requested column,
// windowed by limit/offset. An empty result is a 200 with an empty array,
// not an error.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	// The page parameter is accepted for client compatibility, but the
	// result window is driven entirely by limit and offset.
	_ = c.QueryInt("page", 1)

	params := repositories.ListParams{
		Limit:   c.QueryInt("limit", 10),
		Offset:  c.QueryInt("offset", 0),
		OrderBy: c.Query("order_by", "created_at"),
	}

	products, err := h.service.ListProducts(params)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error while retrieving products",
		})
	}
	if len(products) == 0 {
		log.Println("No products found")
		products = []models.Product{}
	} else {
		log.Printf("Retrieved %d products successfully", len(products))
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		log.Printf("Invalid product ID format: %s", id)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID format",
		})
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			log.Printf("Product not found with ID: %s", id)
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error while retrieving product",
		})
	}

	log.Printf("Retrieved product successfully: %s", id)
	return c.JSON(product)
}

// HandleCreateProduct validates the request body and creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	product := models.Product{
		Name:  req.Name,
		Price: req.Price,
	}
	if err := h.service.CreateProduct(&product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateProduct) {
			log.Printf("Conflict while creating product: %v", err)
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Product creation failed due to constraint violation",
			})
		}
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error while creating product",
		})
	}

	log.Printf("Created new product successfully: %s", product.ID)
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct merges the supplied fields onto an existing product.
// A body that supplies no fields is rejected rather than performed as a
// no-op write.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		log.Printf("Invalid product ID format: %s", id)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID format",
		})
	}

	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return h.validationError(c, err)
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if len(fields) == 0 {
		log.Printf("Empty update payload for product %s", id)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No valid fields provided for update",
		})
	}

	product, err := h.service.UpdateProduct(id, fields)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrProductNotFound):
			log.Printf("Product not found for update: %s", id)
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		case errors.Is(err, repositories.ErrDuplicateProduct):
			log.Printf("Conflict while updating product %s: %v", id, err)
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Product update failed due to constraint violation",
			})
		default:
			log.Printf("Error updating product %s: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Internal server error while updating product",
			})
		}
	}

	log.Printf("Updated product successfully: %s", id)
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		log.Printf("Invalid product ID format: %s", id)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID format",
		})
	}

	if err := h.service.DeleteProduct(id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			log.Printf("Product not found for deletion: %s", id)
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error deleting product %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error while deleting product",
		})
	}

	log.Printf("Deleted product successfully: %s", id)
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// validationError renders a field-constraint failure as a 422 with one
// message per violated field.
func (h *ProductHandler) validationError(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	log.Printf("Validation failed: %v", errorMessages)
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
