package main

import (
	"fmt"
	"log"
	"time"

	"tavolo/config"
	"tavolo/internal/database"
	"tavolo/internal/domain"
	"tavolo/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a development database with a demo franchise, menu, promos and a few
// customers so the admin dashboard has something to show.
func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db)

	franchise := &models.Franchise{Name: "Tavolo Group", OwnerName: "Dana Moretti", Status: "active"}
	if err := firstOrCreate(db, franchise, "name = ?", franchise.Name); err != nil {
		log.Fatalf("franchise: %v", err)
	}

	downtown := &models.Location{FranchiseID: franchise.ID, Name: "Downtown", Address: "12 Market St", Timezone: "America/New_York"}
	riverside := &models.Location{FranchiseID: franchise.ID, Name: "Riverside", Address: "88 River Rd", Timezone: "America/New_York"}
	for _, l := range []*models.Location{downtown, riverside} {
		if err := firstOrCreate(db, l, "franchise_id = ? AND name = ?", l.FranchiseID, l.Name); err != nil {
			log.Fatalf("location: %v", err)
		}
	}

	menu := []models.MenuItem{
		{Name: "Margherita Pizza", Category: "mains", Price: 14.50, Available: true},
		{Name: "Tagliatelle al Ragu", Category: "mains", Price: 18.00, Available: true},
		{Name: "Burrata", Category: "starters", Price: 11.00, Available: true},
		{Name: "Tiramisu", Category: "desserts", Price: 8.50, Available: true},
		{Name: "House Negroni", Category: "drinks", Price: 12.00, Available: true},
	}
	for i := range menu {
		menu[i].FranchiseID = &franchise.ID
		menu[i].LocationID = &downtown.ID
		if err := firstOrCreate(db, &menu[i], "name = ? AND location_id = ?", menu[i].Name, downtown.ID); err != nil {
			log.Fatalf("menu: %v", err)
		}
	}

	expiry := time.Now().AddDate(0, 3, 0)
	promos := []models.PromoCode{
		{Code: "WELCOME20", Type: domain.PromoTypePercentage, Value: 20, MaxDiscount: 15, MinOrderAmount: 25, UsageLimit: 500, ExpiresAt: &expiry, Active: true},
		{Code: "TENOFF", Type: domain.PromoTypeFixed, Value: 10, MinOrderAmount: 40, UsageLimit: 200, ExpiresAt: &expiry, Active: true},
	}
	for i := range promos {
		promos[i].FranchiseID = &franchise.ID
		if err := firstOrCreate(db, &promos[i], "code = ?", promos[i].Code); err != nil {
			log.Fatalf("promo: %v", err)
		}
	}

	rewards := []models.Reward{
		{Title: "Free Dessert", PointCost: 150, Active: true},
		{Title: "Free Pizza", PointCost: 400, Active: true},
		{Title: "Chef's Table for Two", PointCost: 1200, Active: true},
	}
	for i := range rewards {
		rewards[i].FranchiseID = &franchise.ID
		if err := firstOrCreate(db, &rewards[i], "title = ?", rewards[i].Title); err != nil {
			log.Fatalf("reward: %v", err)
		}
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	customers := []models.User{
		{Name: "Ava Chen", Email: "ava@example.com", LoyaltyPoints: 120, TotalSpent: 310.40, OrderCount: 9},
		{Name: "Marcus Reed", Email: "marcus@example.com", LoyaltyPoints: 540, TotalSpent: 980.00, OrderCount: 22},
		{Name: "Priya Nair", Email: "priya@example.com", LoyaltyPoints: 1310, TotalSpent: 2410.75, OrderCount: 51},
	}
	for i := range customers {
		customers[i].PasswordHash = string(hash)
		customers[i].Role = domain.RoleCustomer
		customers[i].Status = domain.UserStatusActive
		customers[i].FranchiseID = &franchise.ID
		customers[i].LocationID = &downtown.ID
		if err := firstOrCreate(db, &customers[i], "email = ?", customers[i].Email); err != nil {
			log.Fatalf("customer: %v", err)
		}
	}

	fmt.Println("seed complete")
}

func firstOrCreate(db *gorm.DB, dest interface{}, cond string, args ...interface{}) error {
	return db.Where(cond, args...).FirstOrCreate(dest).Error
}
