package database

import (
	"errors"

	"tavolo/config"
	"tavolo/internal/domain"
	"tavolo/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Franchise{},
		&models.Location{},
		&models.User{},
		&models.PointsTransaction{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Reservation{},
		&models.PrivateDiningRequest{},
		&models.PromoCode{},
		&models.PromoRedemption{},
		&models.GiftCard{},
		&models.GiftCardTransaction{},
		&models.Reward{},
		&models.RewardRedemption{},
		&models.PosSyncLog{},
		&models.AuditLog{},
		&models.Cart{},
		&models.CartItem{},
		&models.NewsletterSubscription{},
		&models.Subscription{},
		&models.EmailTemplate{},
		&models.Event{},
		&models.Review{},
	)
}

// SeedAdmin creates the default admin account if no admin exists yet.
func SeedAdmin(db *gorm.DB) {
	var admin models.User
	err := db.Where("role = ?", domain.RoleAdmin).First(&admin).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	db.Create(&models.User{
		Name:         "Administrator",
		Email:        "admin@tavolo.app",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
	})
}
