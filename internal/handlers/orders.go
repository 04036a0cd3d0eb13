package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"couples-gallery/internal/config"
	"couples-gallery/internal/middleware"
	"couples-gallery/internal/models"
	"couples-gallery/internal/repositories"
	"couples-gallery/internal/services"
	"couples-gallery/internal/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// OrderHandler covers the print shop: admins manage the product list and
// work through incoming orders, guests place orders through their share.
type OrderHandler struct {
	Products *repositories.ProductRepository
	Orders   *repositories.OrderRepository
	Shares   *repositories.ShareRepository
	Activity *repositories.ActivityRepository
	Config   config.Config
	Log      *zap.Logger
}

func (h OrderHandler) Register(r *gin.Engine) {
	auth := middleware.AdminAuth(h.Config.JWTSecret)

	products := r.Group("/api/products")
	products.GET("", h.ListProducts) // public: guests browse the catalogue
	products.POST("", auth, h.CreateProduct)
	products.PUT("/:productId", auth, h.UpdateProduct)
	products.DELETE("/:productId", auth, h.DeleteProduct)

	orders := r.Group("/api/orders", auth)
	orders.GET("", h.ListOrders)
	orders.GET("/:orderId", h.GetOrder)
	orders.PUT("/:orderId/status", h.UpdateOrderStatus)

	r.POST("/api/gallery/:token/orders", h.PlaceOrder)
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Active      *bool  `json:"active"`
}

func (r productRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.PriceCents, validation.Required, validation.Min(1)),
	)
}

func (h OrderHandler) ListProducts(c *gin.Context) {
	// Guests only see active products; admins pass all=true for the rest.
	activeOnly := c.Query("all") != "true"

	products, err := h.Products.List(activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h OrderHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.PrintProduct{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if err := h.Products.Create(&product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h OrderHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "productId")
	if !ok {
		return
	}

	product, err := h.Products.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.PriceCents = req.PriceCents
	if req.Active != nil {
		product.Active = *req.Active
	}
	if err := h.Products.Update(product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h OrderHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "productId")
	if !ok {
		return
	}

	n, err := h.Products.Delete(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if n == 0 {
		respondError(c, services.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h OrderHandler) ListOrders(c *gin.Context) {
	rawLimit, _ := strconv.Atoi(c.Query("limit"))
	rawOffset, _ := strconv.Atoi(c.Query("offset"))
	limit, offset := utils.ValidatePaginationParams(rawLimit, rawOffset)

	orders, err := h.Orders.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, "orderId")
	if !ok {
		return
	}

	order, err := h.Orders.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (r orderStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required,
			validation.In(models.OrderStatusNew, models.OrderStatusConfirmed,
				models.OrderStatusShipped, models.OrderStatusCancelled)),
	)
}

func (h OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "orderId")
	if !ok {
		return
	}

	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, err := h.Orders.UpdateStatus(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	if n == 0 {
		respondError(c, services.ErrNotFound)
		return
	}

	order, err := h.Orders.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// maxOrderItemQuantity caps a single line item. It also keeps the subtotal
// arithmetic far away from int64 overflow.
const maxOrderItemQuantity = 100

type orderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	FileID    uuid.UUID `json:"file_id"`
	Quantity  int       `json:"quantity"`
}

func (i orderItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Quantity, validation.Required,
			validation.Min(1), validation.Max(maxOrderItemQuantity)),
	)
}

type placeOrderRequest struct {
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Items         []orderItem `json:"items"`
}

func (r placeOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CustomerName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.CustomerEmail, validation.Required, is.Email),
		validation.Field(&r.Items, validation.Required, validation.Length(1, 200)),
	)
}

func (h OrderHandler) PlaceOrder(c *gin.Context) {
	share, err := h.Shares.GetByToken(c.Param("token"))
	if err != nil {
		respondError(c, services.ErrNotFound)
		return
	}

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var subtotal int64
	for _, item := range req.Items {
		if item.Quantity < 1 || item.Quantity > maxOrderItemQuantity {
			respondError(c, services.ErrInvalid)
			return
		}
		product, err := h.Products.GetByID(item.ProductID)
		if err != nil || !product.Active {
			respondError(c, services.ErrInvalid)
			return
		}
		subtotal += product.PriceCents * int64(item.Quantity)
	}
	if subtotal < h.Config.OrderMinSubtotalCent {
		respondError(c, services.ErrInvalid)
		return
	}

	items, err := json.Marshal(req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	order := models.PrintOrder{
		ShareToken:    share.Token,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Items:         datatypes.JSON(items),
		SubtotalCents: subtotal,
	}
	if err := h.Orders.Create(&order); err != nil {
		respondError(c, err)
		return
	}

	if err := h.Activity.Log("order_placed", share.Token, "", "", c.ClientIP(), map[string]any{
		"order_id":       order.ID.String(),
		"subtotal_cents": subtotal,
		"items":          len(req.Items),
	}); err != nil {
		h.Log.Warn("activity log write failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, order)
}
