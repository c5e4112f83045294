package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API carries the injected dependencies every handler needs.
type API struct {
	db  *gorm.DB
	cfg Config
}

func NewAPI(db *gorm.DB, cfg Config) *API {
	return &API{db: db, cfg: cfg}
}

func main() {

	// Load .env variables
	LoadEnv()
	cfg := LoadConfig()

	// Connect DB
	db := InitDB()
	if err := EnsureAdmin(db, cfg); err != nil {
		log.Fatalf("❌ Admin seeding failed: %v", err)
	}

	api := NewAPI(db, cfg)

	// Start Gin
	r := gin.Default()

	// CORS
	r.Use(CORSMiddleware())

	// Routes
	SetupRoutes(r, api)

	// Start server
	log.Println("🚀 Server running on http://localhost:" + cfg.Port)
	r.Run(":" + cfg.Port)
}
