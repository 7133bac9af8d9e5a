package services

import (
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"AgriLink/internal/models"
)

// setupTestDB creates an in-memory SQLite database with every entity
// migrated. The pool is capped at one connection so each test sees a single
// shared in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open SQLite test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access SQLite pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Farmer{},
		&models.Buyer{},
		&models.Supplier{},
		&models.CropListing{},
		&models.EquipmentListing{},
		&models.Order{},
		&models.EquipmentOrder{},
		&models.Payment{},
		&models.MarketPrice{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.ForumPost{},
		&models.ForumReply{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

var testPhoneCounter uint64 = 9000000000

// createTestUser inserts a user with a fresh unique phone number.
func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	testPhoneCounter++
	user := models.User{
		Name:         "Test " + string(role),
		Phone:        "+91" + strconv.FormatUint(testPhoneCounter, 10),
		PasswordHash: "hashed",
		Role:         role,
		LanguagePref: "en",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &user
}

func createTestFarmer(t *testing.T, db *gorm.DB) *models.Farmer {
	t.Helper()

	user := createTestUser(t, db, models.RoleFarmer)
	farmer := models.Farmer{
		UserID:        user.ID,
		FarmLongitude: 77.59,
		FarmLatitude:  12.97,
	}
	if err := db.Create(&farmer).Error; err != nil {
		t.Fatalf("Failed to create test farmer: %v", err)
	}
	return &farmer
}

func createTestBuyer(t *testing.T, db *gorm.DB) *models.Buyer {
	t.Helper()

	user := createTestUser(t, db, models.RoleBuyer)
	buyer := models.Buyer{
		UserID:    user.ID,
		BuyerType: models.BuyerRetail,
	}
	if err := db.Create(&buyer).Error; err != nil {
		t.Fatalf("Failed to create test buyer: %v", err)
	}
	return &buyer
}

func createTestSupplier(t *testing.T, db *gorm.DB) *models.Supplier {
	t.Helper()

	user := createTestUser(t, db, models.RoleSupplier)
	supplier := models.Supplier{
		UserID:       user.ID,
		BusinessName: "Test Equipment Co",
	}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatalf("Failed to create test supplier: %v", err)
	}
	return &supplier
}

func floatPtr(v float64) *float64 {
	return &v
}

// createTestCropListing inserts an active retail listing with the given
// quantity at ₹20 per unit.
func createTestCropListing(t *testing.T, db *gorm.DB, farmerID uint, quantity float64) *models.CropListing {
	t.Helper()

	listing := models.CropListing{
		FarmerID:       farmerID,
		CropName:       "Tomato",
		QuantityRetail: floatPtr(quantity),
		UnitRetail:     models.UnitKg,
		PriceRetail:    floatPtr(20),
		SaleType:       models.SaleRetail,
		ListingStatus:  models.ListingActive,
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("Failed to create test crop listing: %v", err)
	}
	return &listing
}
