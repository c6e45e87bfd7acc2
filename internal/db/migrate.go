package db

import (
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/util"
	"gorm.io/gorm"
)

// Sample credentials seeded into an empty users table.
const (
	SampleUsername = "testuser"
	SamplePassword = "password123"
)

// Models lists every table managed by AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Item{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds the sample user and catalog when their tables are empty
func Seed() error {
	return SeedDB(DB)
}

// SeedDB seeds the given connection; used by Seed and by tests.
func SeedDB(db *gorm.DB) error {
	logger.Info("Seeding initial data...")

	if err := seedUsers(db); err != nil {
		logger.Error("Failed to seed users", err)
		return err
	}

	items, err := DefaultCatalog()
	if err != nil {
		logger.Error("Failed to load default catalog", err)
		return err
	}
	if _, err := SeedItems(db, items); err != nil {
		logger.Error("Failed to seed items", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Users already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword(SamplePassword)
	if err != nil {
		return err
	}
	return db.Create(&model.User{Username: SampleUsername, PasswordHash: hash}).Error
}

// SeedItems inserts items when the items table is empty and reports how many
// rows were written.
func SeedItems(db *gorm.DB, items []model.Item) (int, error) {
	var count int64
	if err := db.Model(&model.Item{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("Items already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return 0, nil
	}
	if len(items) == 0 {
		return 0, nil
	}

	if err := db.CreateInBatches(items, 100).Error; err != nil {
		return 0, err
	}

	logger.Info("Items seeded", map[string]interface{}{
		"count": len(items),
	})
	return len(items), nil
}

// ResetDB drops every managed table, recreates the schema and seeds the sample
// data again.
func ResetDB(db *gorm.DB) error {
	logger.Warn("Resetting database: dropping all tables")

	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			logger.Error("Failed to drop table", err)
			return err
		}
	}
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to recreate schema", err)
		return err
	}
	return SeedDB(db)
}
