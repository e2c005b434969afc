package handler

import (
	"net/http"

	"tavolo/internal/middleware"
	"tavolo/internal/models"
	"tavolo/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CartHandler persists cart snapshots so the abandoned-cart job has
// something to nudge. The frontend syncs the cart on change.
type CartHandler struct {
	repo *repository.CartRepository
	log  *zap.Logger
}

func NewCartHandler(repo *repository.CartRepository, log *zap.Logger) *CartHandler {
	return &CartHandler{repo: repo, log: log}
}

type CartItemRequest struct {
	MenuItemID *uint   `json:"menu_item_id"`
	Name       string  `json:"name" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice  float64 `json:"unit_price" binding:"required,gte=0"`
}

type CartRequest struct {
	Email       string            `json:"email" binding:"required,email"`
	Items       []CartItemRequest `json:"items" binding:"required,dive"`
	FranchiseID *uint             `json:"franchise_id"`
	LocationID  *uint             `json:"location_id"`
}

func cartItems(reqs []CartItemRequest) []models.CartItem {
	items := make([]models.CartItem, 0, len(reqs))
	for _, it := range reqs {
		items = append(items, models.CartItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
		})
	}
	return items
}

func (h *CartHandler) Create(c *gin.Context) {
	var req CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var userID *uint
	if uid := middleware.GetUserID(c); uid != 0 {
		userID = &uid
	}
	cart := &models.Cart{
		Email:       req.Email,
		UserID:      userID,
		FranchiseID: req.FranchiseID,
		LocationID:  req.LocationID,
		Items:       cartItems(req.Items),
	}
	if err := h.repo.Create(cart); err != nil {
		h.log.Error("cart create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cart": cart})
}

// Update replaces the cart contents and clears any reminder flag.
func (h *CartHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Items []CartItemRequest `json:"items" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.repo.GetByID(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return
	}
	if err := h.repo.ReplaceItems(id, cartItems(req.Items)); err != nil {
		h.log.Error("cart update failed", zap.Uint("cart_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}
	cart, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// Delete removes a cart, typically after checkout completes.
func (h *CartHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.repo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
