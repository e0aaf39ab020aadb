package main

import (
	"fmt"
	"log"

	"ecommerce_api/internal/config"
	"ecommerce_api/internal/database"
	"ecommerce_api/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	fmt.Println("Starting seed...")

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("Dropping existing tables...")
	err = db.Migrator().DropTable(
		&models.Payment{},
		&models.OrderItem{},
		&models.Order{},
		&models.CartItem{},
		&models.Cart{},
		&models.Product{},
		&models.Category{},
		&models.User{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	fmt.Println("Creating tables...")
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatal("Failed to create tables:", err)
	}

	if err := seedUsers(db); err != nil {
		log.Fatal("Failed to seed users:", err)
	}
	if err := seedCatalog(db); err != nil {
		log.Fatal("Failed to seed catalog:", err)
	}

	fmt.Println("Seed completed successfully.")
}

func seedUsers(db *gorm.DB) error {
	hash := func(password string) string {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		return string(hashed)
	}

	admin := models.User{
		Username: "admin",
		Email:    "admin@example.com",
		Password: hash("adminpassword"),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	for i := 0; i < 10; i++ {
		customer := models.User{
			Username: fmt.Sprintf("customer%d", i),
			Email:    fmt.Sprintf("customer%d@example.com", i),
			Password: hash("customerpassword"),
			Role:     models.RoleCustomer,
		}
		if err := db.Create(&customer).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedCatalog(db *gorm.DB) error {
	type seedProduct struct {
		name        string
		description string
		price       float64
		imageURL    string
	}

	catalog := map[string][]seedProduct{
		"Denims": {
			{"Classic Jeans", "A timeless pair of classic jeans.", 49.99, "https://example.com/images/classic-jeans.jpg"},
			{"Skinny Jeans", "Skinny fit jeans that hug your figure.", 54.99, "https://example.com/images/skinny-jeans.jpg"},
			{"Ripped Denim", "Stylish ripped denim jeans.", 59.99, "https://example.com/images/ripped-denim.jpg"},
			{"High-Waisted Jeans", "High-waisted jeans for a retro look.", 64.99, "https://example.com/images/high-waisted.jpg"},
		},
		"Dresses": {
			{"Floral Dress", "A beautiful floral print dress.", 79.99, "https://example.com/images/floral-dress.jpg"},
			{"Evening Gown", "An elegant gown for formal occasions.", 129.99, "https://example.com/images/evening-gown.jpg"},
		},
		"Tops": {
			{"Basic Tee", "A soft everyday t-shirt.", 19.99, "https://example.com/images/basic-tee.jpg"},
			{"Silk Blouse", "A lightweight silk blouse.", 69.99, "https://example.com/images/silk-blouse.jpg"},
		},
		"Bottoms": {
			{"Pleated Skirt", "A versatile pleated midi skirt.", 44.99, "https://example.com/images/pleated-skirt.jpg"},
		},
		"Shoes": {
			{"White Sneakers", "Clean low-top sneakers.", 89.99, "https://example.com/images/white-sneakers.jpg"},
			{"Ankle Boots", "Leather ankle boots with a low heel.", 119.99, "https://example.com/images/ankle-boots.jpg"},
		},
		"Matching Sets": {
			{"Knit Lounge Set", "A two-piece knit lounge set.", 99.99, "https://example.com/images/knit-set.jpg"},
		},
	}

	for categoryName, products := range catalog {
		category := models.Category{Name: categoryName}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		for _, p := range products {
			product := models.Product{
				Name:        p.name,
				Description: p.description,
				Price:       p.price,
				ImageURL:    p.imageURL,
				CategoryID:  category.ID,
			}
			if err := db.Create(&product).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
