package storage

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleet-admin-server/models"
)

// EnsureSuperAdmin creates the initial super_admin account from ADMIN_EMAIL /
// ADMIN_PASSWORD when the users table is empty, so a fresh deployment can be
// logged into.
func EnsureSuperAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("could not hash bootstrap admin password:", err)
		return
	}

	admin := models.User{
		FirstName: "Platform",
		LastName:  "Admin",
		Email:     email,
		Password:  string(hashed),
		Role:      "super_admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Println("could not create bootstrap admin:", err)
		return
	}
	log.Println("created bootstrap super_admin:", email)
}
