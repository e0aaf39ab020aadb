package handlers

import (
	"fmt"
	"net/http"

	"ecommerce_api/internal/apperrors"
	"ecommerce_api/internal/models"
	"ecommerce_api/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	catalogService services.CatalogService
}

func NewProductHandler(catalogService services.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

type productResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}

func toProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Category:    p.Category.Name,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalogService.ListProducts()
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		ImageURL    string  `json:"image_url"`
		CategoryID  uint    `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.KindInvalidInput, "invalid data provided"))
		return
	}

	product, err := h.catalogService.CreateProduct(services.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": product})
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		ImageURL    *string  `json:"image_url"`
		CategoryID  *uint    `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.KindInvalidInput, "invalid data provided"))
		return
	}

	product, err := h.catalogService.UpdateProduct(id, services.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.catalogService.DeleteProduct(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Product %q has been deleted successfully.", product.Name)})
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.KindInvalidInput, "invalid data provided"))
		return
	}
	category, err := h.catalogService.CreateCategory(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created successfully", "category": category})
}

func (h *ProductHandler) ListByCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	products, err := h.catalogService.ListProductsByCategory(id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, out)
}
