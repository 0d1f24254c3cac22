package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
	"github.com/kiettt23/vendoor-sub002/internal/core/service"
	"github.com/kiettt23/vendoor-sub002/internal/port"
)

type Handler struct {
	checkout  *service.CheckoutService
	status    *service.StatusService
	analytics *service.AnalyticsService
	db        port.DatabaseRepository
}

func NewHandler(
	checkout *service.CheckoutService,
	status *service.StatusService,
	analytics *service.AnalyticsService,
	db port.DatabaseRepository,
) *Handler {
	return &Handler{
		checkout:  checkout,
		status:    status,
		analytics: analytics,
		db:        db,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/checkout", h.Checkout)
		api.GET("/orders/:id", h.GetOrder)
		api.GET("/orders/:id/status", h.GetOrderStatus)
		api.POST("/orders/:id/transition", h.Transition)
		api.POST("/orders/:id/payment/confirm", h.ConfirmPayment)
		api.POST("/orders/:id/payment/fail", h.FailPayment)
		api.GET("/vendors/:id/stats", h.VendorStats)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type checkoutRequest struct {
	RequestID     string              `json:"request_id" binding:"required"`
	CustomerID    string              `json:"customer_id" binding:"required"`
	Items         []domain.CartItem   `json:"items" binding:"required"`
	Shipping      domain.ShippingInfo `json:"shipping" binding:"required"`
	PaymentMethod string              `json:"payment_method" binding:"required,oneof=COD ONLINE"`
	CouponCode    string              `json:"coupon_code"`
	ShippingFee   int64               `json:"shipping_fee" binding:"gte=0"`
}

func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	orders, err := h.checkout.Checkout(c.Request.Context(), service.CheckoutInput{
		RequestID:     req.RequestID,
		CustomerID:    req.CustomerID,
		Items:         req.Items,
		Shipping:      req.Shipping,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CouponCode:    req.CouponCode,
		ShippingFee:   req.ShippingFee,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"orders": orders})
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.db.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrderStatus is the hot polling endpoint; it reads through the Redis
// status cache instead of loading the whole order.
func (h *Handler) GetOrderStatus(c *gin.Context) {
	status, err := h.status.OrderStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "status": status})
}

type transitionRequest struct {
	To string `json:"to" binding:"required"`
}

func (h *Handler) Transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if err := h.status.Transition(c.Request.Context(), c.Param("id"), domain.Status(req.To)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "status": req.To})
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	if err := h.status.ConfirmPayment(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "status": string(domain.StatusPending)})
}

func (h *Handler) FailPayment(c *gin.Context) {
	if err := h.status.CancelUnpaid(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "status": string(domain.StatusCancelled)})
}

func (h *Handler) VendorStats(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	stats, err := h.analytics.VendorStats(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// respondError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	var stockErr *domain.InsufficientStockError
	var transErr *domain.InvalidTransitionError

	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     stockErr.Error(),
			"shortages": stockErr.Shortages,
		})
	case errors.As(err, &transErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": transErr.Error()})
	case errors.Is(err, service.ErrDuplicateCheckout):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyCart), errors.Is(err, domain.ErrVendorSplit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCouponNotFound),
		errors.Is(err, domain.ErrCouponExpired),
		errors.Is(err, domain.ErrCouponNotEligible):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
