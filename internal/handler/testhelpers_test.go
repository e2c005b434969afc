package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tavolo/config"
	"tavolo/internal/models"
	"tavolo/internal/repository"
	"tavolo/internal/service"
	"tavolo/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:handler_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.PointsTransaction{},
		&models.Order{},
		&models.OrderItem{},
		&models.PromoCode{},
		&models.PromoRedemption{},
		&models.GiftCard{},
		&models.GiftCardTransaction{},
		&models.Reward{},
		&models.RewardRedemption{},
		&models.PosSyncLog{},
		&models.AuditLog{},
		&models.EmailTemplate{},
		&models.MenuItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type nopMailer struct{}

func (nopMailer) Send(string, string, string) error { return nil }

// testDeps bundles everything the order flow needs wired against one database.
type testDeps struct {
	db          *gorm.DB
	orderRepo   *repository.OrderRepository
	menuRepo    *repository.MenuRepository
	promoRepo   *repository.PromoRepository
	promoSvc    *service.PromoService
	giftcardSvc *service.GiftCardService
	loyaltySvc  *service.LoyaltyService
	posSvc      *service.PosSyncService
	auditSvc    *service.AuditService
	hub         *ws.Hub
	log         *zap.Logger
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()
	promoRepo := repository.NewPromoRepository(db)
	templateSvc := service.NewTemplateService(repository.NewTemplateRepository(db), nil, log)
	auditSvc := service.NewAuditService(repository.NewAuditLogRepository(db), log)
	return &testDeps{
		db:        db,
		orderRepo: repository.NewOrderRepository(db),
		menuRepo:  repository.NewMenuRepository(db),
		promoRepo: promoRepo,
		promoSvc:  service.NewPromoService(promoRepo),
		giftcardSvc: service.NewGiftCardService(
			repository.NewGiftCardRepository(db), templateSvc, nopMailer{}, auditSvc, log),
		loyaltySvc: service.NewLoyaltyService(db,
			repository.NewUserRepository(db), repository.NewRewardRepository(db)),
		posSvc: service.NewPosSyncService(repository.NewPosRepository(db),
			config.PosConfig{SuccessRate: 1.0, MaxRetries: 3}, log),
		auditSvc: auditSvc,
		hub:      ws.NewHub(),
		log:      log,
	}
}

func newGinRouter() *gin.Engine {
	return gin.New()
}

func (d *testDeps) orderRouter() *gin.Engine {
	h := NewOrderHandler(d.db, d.orderRepo, d.menuRepo, d.promoSvc, d.giftcardSvc,
		d.loyaltySvc, d.posSvc, nil, d.auditSvc, d.hub, d.log)
	r := newGinRouter()
	r.POST("/api/v1/orders", h.Create)
	r.GET("/api/v1/orders/:id", h.Get)
	r.PATCH("/api/v1/staff/orders/:id/status", h.UpdateStatus)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newAuthedRequest(t *testing.T, method, path, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}
