package handler

import (
	"math"
	"net/http"

	"tavolo/internal/domain"
	"tavolo/internal/middleware"
	"tavolo/internal/models"
	"tavolo/internal/repository"
	"tavolo/internal/service"
	"tavolo/internal/ws"
	"tavolo/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const taxRate = 0.0825

type OrderHandler struct {
	db          *gorm.DB
	orderRepo   *repository.OrderRepository
	menuRepo    *repository.MenuRepository
	promoSvc    *service.PromoService
	giftcardSvc *service.GiftCardService
	loyaltySvc  *service.LoyaltyService
	posSvc      *service.PosSyncService
	paymentSvc  *service.PaymentService
	auditSvc    *service.AuditService
	hub         *ws.Hub
	log         *zap.Logger
}

func NewOrderHandler(
	db *gorm.DB,
	orderRepo *repository.OrderRepository,
	menuRepo *repository.MenuRepository,
	promoSvc *service.PromoService,
	giftcardSvc *service.GiftCardService,
	loyaltySvc *service.LoyaltyService,
	posSvc *service.PosSyncService,
	paymentSvc *service.PaymentService,
	auditSvc *service.AuditService,
	hub *ws.Hub,
	log *zap.Logger,
) *OrderHandler {
	return &OrderHandler{
		db:          db,
		orderRepo:   orderRepo,
		menuRepo:    menuRepo,
		promoSvc:    promoSvc,
		giftcardSvc: giftcardSvc,
		loyaltySvc:  loyaltySvc,
		posSvc:      posSvc,
		paymentSvc:  paymentSvc,
		auditSvc:    auditSvc,
		hub:         hub,
		log:         log,
	}
}

type OrderItemRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PromoCode     string             `json:"promo_code"`
	GiftCode      string             `json:"gift_code"`
	GiftCardEmail string             `json:"gift_card_email"`
	CustomerType  string             `json:"customer_type" binding:"omitempty,oneof=dine_in takeout delivery"`
	FranchiseID   *uint              `json:"franchise_id"`
	LocationID    *uint              `json:"location_id"`
}

// Create prices the order from the canonical menu, applies a promo and
// optionally a gift card, and opens the order in pending. Item prices in the
// request body are ignored; the menu is the source of truth.
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var items []models.OrderItem
	var subtotal float64
	for _, it := range req.Items {
		mi, err := h.menuRepo.GetByID(it.MenuItemID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown menu item"})
			return
		}
		if !mi.Available {
			c.JSON(http.StatusBadRequest, gin.H{"error": mi.Name + " is not available"})
			return
		}
		line := mi.Price * float64(it.Quantity)
		items = append(items, models.OrderItem{
			MenuItemID: &mi.ID,
			Name:       mi.Name,
			Quantity:   it.Quantity,
			UnitPrice:  mi.Price,
			LineTotal:  line,
		})
		subtotal += line
	}
	subtotal = round2(subtotal)

	var userID *uint
	if uid := middleware.GetUserID(c); uid != 0 {
		userID = &uid
	}

	order := &models.Order{
		UserID:       userID,
		Subtotal:     subtotal,
		CustomerType: req.CustomerType,
		Status:       domain.OrderStatusPending,
		FranchiseID:  req.FranchiseID,
		LocationID:   req.LocationID,
		Items:        items,
	}

	var discount float64
	if req.PromoCode != "" {
		res, err := h.promoSvc.Validate(req.PromoCode, subtotal)
		if err != nil {
			metrics.PromoRedemptions.WithLabelValues("rejected").Inc()
			c.JSON(promoStatus(err), gin.H{"error": err.Error()})
			return
		}
		discount = res.Discount
		order.PromoCode = res.Code
	}
	order.Discount = discount

	order.Tax = round2((subtotal - discount) * taxRate)
	order.Total = round2(subtotal - discount + order.Tax)

	// The order row, the promo redemption, and the gift card debit commit or
	// roll back together: a consumed promo slot or a debited card must always
	// have the order it paid for behind it.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.orderRepo.CreateTx(tx, order); err != nil {
			return err
		}
		if req.PromoCode != "" {
			if _, err := h.promoSvc.RedeemTx(tx, req.PromoCode, subtotal, userID, &order.ID); err != nil {
				return err
			}
		}
		if req.GiftCode != "" {
			_, applied, err := h.giftcardSvc.RedeemTx(tx, req.GiftCardEmail, req.GiftCode, order.Total, &order.ID)
			if err != nil {
				return err
			}
			order.Total = round2(order.Total - applied)
			if err := h.orderRepo.SetTotal(tx, order.ID, order.Total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if status := promoStatus(err); status != http.StatusInternalServerError {
			metrics.PromoRedemptions.WithLabelValues("rejected").Inc()
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		if status := giftCardStatus(err); status != http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("order create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}
	if req.PromoCode != "" {
		metrics.PromoRedemptions.WithLabelValues("accepted").Inc()
	}
	metrics.OrdersCreated.Inc()
	h.hub.BroadcastOrder(ws.OrderEvent{Type: "order.created", OrderID: order.ID, Status: order.Status, Total: order.Total})
	h.auditSvc.Record("order.created", "order opened", actorEmail(c), order.FranchiseID, order.LocationID)
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderRepo.List(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Live feeds the kitchen dashboard with recent non-final orders.
func (h *OrderHandler) Live(c *gin.Context) {
	orders, err := h.orderRepo.Live(listFilter(c))
	if err != nil {
		h.log.Error("live orders query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load live orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves an order through its lifecycle. The transition table is
// checked first and the write itself is guarded on the expected current
// status, so a concurrent transition loses cleanly instead of overwriting.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.orderRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err := domain.ValidateOrderTransition(order.Status, req.Status); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	affected, err := h.orderRepo.UpdateStatusGuard(h.db, id, order.Status, req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status update failed"})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "order status changed concurrently"})
		return
	}
	order.Status = req.Status
	h.hub.BroadcastOrder(ws.OrderEvent{Type: "order.status", OrderID: order.ID, Status: order.Status, Total: order.Total})
	h.auditSvc.Record("order.status", "order moved to "+req.Status, actorEmail(c), order.FranchiseID, order.LocationID)

	if req.Status == domain.OrderStatusCompleted {
		if order.UserID != nil {
			if err := h.loyaltySvc.CreditForOrder(*order.UserID, order.Total, order.ID); err != nil {
				h.log.Error("loyalty credit failed", zap.Uint("order_id", order.ID), zap.Error(err))
			}
		}
		go func(orderID uint, total float64) {
			if _, err := h.posSvc.SyncOrder(orderID, total); err != nil {
				h.log.Warn("pos sync failed", zap.Uint("order_id", orderID), zap.Error(err))
			}
		}(order.ID, order.Total)
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Checkout creates a Stripe checkout session for a pending order.
func (h *OrderHandler) Checkout(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if order.Status != domain.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "order is not payable"})
		return
	}
	url, err := h.paymentSvc.CheckoutOrder(order)
	if err != nil {
		h.log.Error("stripe checkout failed", zap.Uint("order_id", order.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "checkout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}

func promoStatus(err error) int {
	switch err {
	case service.ErrPromoNotFound:
		return http.StatusNotFound
	case service.ErrPromoInactive, service.ErrPromoExpired, service.ErrPromoMinOrder, service.ErrPromoLimitExceeded:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func actorEmail(c *gin.Context) string {
	v, _ := c.Get("email")
	email, _ := v.(string)
	if email == "" {
		return "guest"
	}
	return email
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
