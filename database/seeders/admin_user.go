package seeders

import (
	"log"
	"os"

	"container-tracker/models/user"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser creates the default administrator account if no admin exists.
func SeedAdminUser(db *gorm.DB) {
	log.Printf("🔍 Checking default admin account...")

	var count int64
	if err := db.Model(&user.User{}).Where("role = ?", user.RoleAdmin).Count(&count).Error; err != nil {
		log.Printf("❌ Failed to check admin account: %v", err)
		return
	}
	if count > 0 {
		log.Printf("✅ Admin account already present. No seeding needed.")
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Failed to hash admin password: %v", err)
		return
	}

	admin := user.User{
		Username:     "admin",
		Email:        "admin@warehouse.com",
		PasswordHash: string(hash),
		FullName:     "System Administrator",
		Role:         user.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("❌ Failed to seed admin account: %v", err)
		return
	}

	log.Printf("🎉 Default admin account created. username: admin")
}
