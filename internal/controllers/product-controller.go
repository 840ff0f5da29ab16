package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ProductController handles HTTP requests related to products of a pizzeria
type ProductController interface {
	ListProducts(c *gin.Context)
	GetProduct(c *gin.Context)
	CreateProduct(c *gin.Context)
	UpdateProduct(c *gin.Context)
	DeleteProduct(c *gin.Context)
}

type productController struct {
	service services.ProductService
}

// NewProductController creates a new instance of ProductController
func NewProductController(service services.ProductService) ProductController {
	return &productController{service: service}
}

type productRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Active      *bool   `json:"active"`
}

func (req *productRequest) active() bool {
	if req.Active == nil {
		return true
	}
	return *req.Active
}

// ListProducts godoc
// @Summary List products of a pizzeria
// @Tags products
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Success 200 {array} models.Product
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/productos/ [get]
func (pc *productController) ListProducts(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}
	products, err := pc.service.ListProducts(userID, pizzeriaID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, products)
}

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/productos/{id} [get]
func (pc *productController) GetProduct(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}
	productID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	product, err := pc.service.GetProduct(userID, pizzeriaID, productID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/productos/ [post]
func (pc *productController) CreateProduct(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}

	var req productRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	product := models.Product{
		PizzeriaID:  pizzeriaID,
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Active:      req.active(),
	}
	if err := pc.service.CreateProduct(userID, &product); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Update a product
// @Description Update a product; deactivation never invalidates past sales
// @Tags products
// @Accept json
// @Produce json
// @Param pizzeria_id path int true "Pizzeria ID"
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/productos/{id} [put]
func (pc *productController) UpdateProduct(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}
	productID, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req productRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	product := models.Product{
		ID:          productID,
		PizzeriaID:  pizzeriaID,
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Active:      req.active(),
	}
	if err := pc.service.UpdateProduct(userID, &product); err != nil {
		respondError(ctx, err)
		return
	}
	updated, err := pc.service.GetProduct(userID, pizzeriaID, productID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Delete a product; fails with a conflict if the product has been sold
// @Tags products
// @Param pizzeria_id path int true "Pizzeria ID"
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/pizzerias/{pizzeria_id}/productos/{id} [delete]
func (pc *productController) DeleteProduct(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	pizzeriaID, ok := paramID(ctx, "pizzeria_id")
	if !ok {
		return
	}
	productID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := pc.service.DeleteProduct(userID, pizzeriaID, productID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
