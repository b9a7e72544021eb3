package database

import (
	"fmt"
	"log"
	"time"

	"unimarket/internal/domain/catalog"
	"unimarket/internal/domain/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Universities []user.University
	Categories   []catalog.Category
}

var defaultUniversities = []user.University{
	{Name: "Technical University of Munich", City: "Munich", Domain: "tum.de"},
	{Name: "Ludwig Maximilian University", City: "Munich", Domain: "lmu.de"},
	{Name: "Humboldt University of Berlin", City: "Berlin", Domain: "hu-berlin.de"},
	{Name: "RWTH Aachen University", City: "Aachen", Domain: "rwth-aachen.de"},
}

var defaultCategories = []catalog.Category{
	{Name: "Textbooks", Slug: "textbooks"},
	{Name: "Electronics", Slug: "electronics"},
	{Name: "Furniture", Slug: "furniture"},
	{Name: "Clothing", Slug: "clothing"},
	{Name: "Bikes & Transport", Slug: "bikes-transport"},
	{Name: "Kitchen", Slug: "kitchen"},
	{Name: "Other", Slug: "other"},
}

// SeedLookups inserts the university and category lookup rows. Re-running is
// safe; existing rows are left untouched.
func SeedLookups(db *gorm.DB) (*SeedResult, error) {
	result := &SeedResult{}

	log.Println("Seeding lookup tables...")

	for _, u := range defaultUniversities {
		row := user.University{
			ID:        uuid.New(),
			Name:      u.Name,
			City:      u.City,
			Domain:    u.Domain,
			CreatedAt: time.Now(),
		}
		if err := db.Where(user.University{Name: u.Name}).FirstOrCreate(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to seed university %q: %w", u.Name, err)
		}
		result.Universities = append(result.Universities, row)
	}

	for _, c := range defaultCategories {
		row := catalog.Category{
			ID:        uuid.New(),
			Name:      c.Name,
			Slug:      c.Slug,
			CreatedAt: time.Now(),
		}
		if err := db.Where(catalog.Category{Slug: c.Slug}).FirstOrCreate(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to seed category %q: %w", c.Slug, err)
		}
		result.Categories = append(result.Categories, row)
	}

	log.Printf("Seeded %d universities and %d categories", len(result.Universities), len(result.Categories))
	return result, nil
}
