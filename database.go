package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB() *gorm.DB {
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	name := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")

	if host == "" || user == "" || pass == "" || name == "" || port == "" {
		log.Fatalf("DATABASE ENV MISSING, check .env file")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, pass, name, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	fmt.Println("✅ Database connected and migrated successfully")
	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Project{},
		&ProjectRequest{},
		&Task{},
		&TaskSubmission{},
		&Notification{},
	)
}

// EnsureAdmin creates the bootstrap admin account if no user with the
// configured email exists yet.
func EnsureAdmin(db *gorm.DB, cfg Config) error {
	var existing User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := User{
		Email:    cfg.AdminEmail,
		Password: hashed,
		Name:     "System Admin",
		Role:     RoleAdmin,
		Verified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Admin user created:", cfg.AdminEmail)
	return nil
}
