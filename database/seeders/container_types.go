package seeders

import (
	"log"

	"container-tracker/models/container"

	"gorm.io/gorm"
)

func SeedContainerTypes(db *gorm.DB) {
	log.Printf("🔍 Checking container types data integrity...")

	defaultTypes := []container.ContainerType{
		{Name: "Mattress", Description: "Mattress containers"},
		{Name: "Sofa", Description: "Sofa and upholstery containers"},
		{Name: "Dining", Description: "Dining furniture containers"},
		{Name: "Furniture", Description: "General furniture containers"},
	}

	var missingTypes []container.ContainerType
	for _, t := range defaultTypes {
		var count int64
		if err := db.Model(&container.ContainerType{}).Where("name = ?", t.Name).Count(&count).Error; err != nil {
			log.Printf("❌ Failed to check container type %s: %v", t.Name, err)
			continue
		}
		if count == 0 {
			missingTypes = append(missingTypes, t)
		}
	}

	if len(missingTypes) == 0 {
		log.Printf("✅ All container types are already present. No seeding needed.")
		return
	}

	log.Printf("🌱 Seeding %d missing container types...", len(missingTypes))

	successCount := 0
	failureCount := 0

	for _, t := range missingTypes {
		if err := db.Create(&t).Error; err != nil {
			log.Printf("❌ Failed to seed container type %s: %v", t.Name, err)
			failureCount++
		} else {
			log.Printf("✅ Added: %s", t.Name)
			successCount++
		}
	}

	log.Printf("🎉 Seeding completed! Successfully inserted %d container types, %d failures", successCount, failureCount)
}
