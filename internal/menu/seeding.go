package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Seeds returns the database seeds for the menu surface.
func Seeds(db *mongo.Database) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-08-01_menu_default_drinks",
			Description: "Seed the default espresso bar menu",
			Run: func(ctx context.Context) error {
				return seedDefaultDrinks(ctx, db)
			},
		},
	}
}

var defaultSizes = []SizeOption{
	{Name: "small", PriceDelta: 0},
	{Name: "medium", PriceDelta: 0.50},
	{Name: "large", PriceDelta: 1.00},
}

var milkGroup = CustomizationGroup{
	Name:    "milk",
	Options: []string{"whole", "skim", "oat", "almond", "soy"},
}

var syrupGroup = CustomizationGroup{
	Name:    "syrup",
	Options: []string{"none", "vanilla", "caramel", "hazelnut"},
}

func seedDefaultDrinks(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("menu_items")
	now := time.Now()

	items := []*MenuItem{
		{
			ShortCode:     "ESP",
			Name:          "Espresso",
			Description:   "Double shot",
			Category:      "coffee",
			BasePrice:     2.50,
			Temperatures:  []string{"hot"},
			Customization: []CustomizationGroup{syrupGroup},
			DisplayOrder:  1,
		},
		{
			ShortCode:     "LAT",
			Name:          "Latte",
			Category:      "coffee",
			BasePrice:     3.80,
			Sizes:         defaultSizes,
			Temperatures:  []string{"hot", "iced"},
			Customization: []CustomizationGroup{milkGroup, syrupGroup},
			DisplayOrder:  2,
		},
		{
			ShortCode:     "CAP",
			Name:          "Cappuccino",
			Category:      "coffee",
			BasePrice:     3.60,
			Sizes:         defaultSizes,
			Temperatures:  []string{"hot"},
			Customization: []CustomizationGroup{milkGroup},
			DisplayOrder:  3,
		},
		{
			ShortCode:    "CBR",
			Name:         "Cold Brew",
			Category:     "coffee",
			BasePrice:    4.20,
			Sizes:        defaultSizes,
			Temperatures: []string{"iced"},
			DisplayOrder: 4,
		},
		{
			ShortCode:     "MAT",
			Name:          "Matcha Latte",
			Category:      "tea",
			BasePrice:     4.50,
			Sizes:         defaultSizes,
			Temperatures:  []string{"hot", "iced"},
			Customization: []CustomizationGroup{milkGroup},
			DisplayOrder:  5,
		},
		{
			ShortCode:    "CRS",
			Name:         "Butter Croissant",
			Category:     "pastry",
			BasePrice:    3.20,
			DisplayOrder: 6,
		},
	}

	for _, item := range items {
		item.ID = uuid.New()
		item.Active = true
		item.SchemaVersion = CurrentMenuItemSchemaVersion
		item.CreatedAt = now
		item.UpdatedAt = now

		filter := bson.M{"short_code": item.ShortCode}
		count, err := collection.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("cannot check menu item %s: %w", item.ShortCode, err)
		}
		if count > 0 {
			continue
		}

		if _, err := collection.InsertOne(ctx, item); err != nil {
			return fmt.Errorf("cannot seed menu item %s: %w", item.ShortCode, err)
		}
	}

	return nil
}

// SeedingFunc returns a lifecycle hook that applies the menu seeds once
// the database is connected.
func SeedingFunc(appName string, dbFn func() *mongo.Database, logger apt.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("Applying menu seeds...")
		db := dbFn()
		tracker := seed.NewMongoTracker(db)
		if err := seed.Apply(ctx, tracker, Seeds(db), appName); err != nil {
			return fmt.Errorf("apply seeds: %w", err)
		}
		logger.Info("Menu seeds applied successfully")
		return nil
	}
}
