package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgriLink/internal/apperror"
	"AgriLink/internal/models"
)

func TestCreateCropListing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	farmer := createTestFarmer(t, db)

	listing, err := svc.CreateCropListing(CreateCropListingRequest{
		FarmerID:       farmer.ID,
		CropName:       "Potato",
		QuantityRetail: floatPtr(100),
		UnitRetail:     models.UnitKg,
		PriceRetail:    floatPtr(18),
		SaleType:       models.SaleRetail,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ListingActive, listing.ListingStatus)
	assert.Equal(t, farmer.ID, listing.FarmerID)
}

func TestCreateCropListing_SaleTypeFieldRules(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	farmer := createTestFarmer(t, db)

	base := CreateCropListingRequest{FarmerID: farmer.ID, CropName: "Onion"}

	tests := []struct {
		name    string
		mutate  func(*CreateCropListingRequest)
		wantErr bool
	}{
		{
			name: "retail complete",
			mutate: func(r *CreateCropListingRequest) {
				r.SaleType = models.SaleRetail
				r.QuantityRetail = floatPtr(50)
				r.PriceRetail = floatPtr(25)
			},
		},
		{
			name: "retail missing price",
			mutate: func(r *CreateCropListingRequest) {
				r.SaleType = models.SaleRetail
				r.QuantityRetail = floatPtr(50)
			},
			wantErr: true,
		},
		{
			name: "retail with stray wholesale fields",
			mutate: func(r *CreateCropListingRequest) {
				r.SaleType = models.SaleRetail
				r.QuantityRetail = floatPtr(50)
				r.PriceRetail = floatPtr(25)
				r.PriceWholesale = floatPtr(20)
			},
			wantErr: true,
		},
		{
			name: "wholesale complete",
			mutate: func(r *CreateCropListingRequest) {
				r.SaleType = models.SaleWholesale
				r.QuantityWholesale = floatPtr(500)
				r.PriceWholesale = floatPtr(15)
			},
		},
		{
			name: "wholesale with stray retail quantity",
			mutate: func(r *CreateCropListingRequest) {
				r.SaleType = models.SaleWholesale
				r.QuantityWholesale = floatPtr(500)
				r.PriceWholesale = floatPtr(15)
				r.QuantityRetail = floatPtr(10)
			},
			wantErr: true,
		},
		{
			name: "both complete",
			mutate: func(r *CreateCropListingRequest) {
				r.SaleType = models.SaleBoth
				r.QuantityRetail = floatPtr(50)
				r.PriceRetail = floatPtr(25)
				r.QuantityWholesale = floatPtr(500)
				r.PriceWholesale = floatPtr(15)
			},
		},
		{
			name: "both missing wholesale pair",
			mutate: func(r *CreateCropListingRequest) {
				r.SaleType = models.SaleBoth
				r.QuantityRetail = floatPtr(50)
				r.PriceRetail = floatPtr(25)
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := svc.CreateCropListing(req)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCreateCropListing_FarmerNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)

	_, err := svc.CreateCropListing(CreateCropListingRequest{
		FarmerID:       9999,
		CropName:       "Potato",
		QuantityRetail: floatPtr(100),
		PriceRetail:    floatPtr(18),
		SaleType:       models.SaleRetail,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestCropListings_FarmerPopulated(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	farmer := createTestFarmer(t, db)
	createTestCropListing(t, db, farmer.ID, 100)

	listings, err := svc.CropListings(CropListingFilters{CropName: "Tomato"})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, farmer.ID, listings[0].Farmer.ID)
	assert.Equal(t, farmer.UserID, listings[0].Farmer.User.ID)
}

func TestCropListings_UnknownSaleTypeFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)

	_, err := svc.CropListings(CropListingFilters{SaleType: "auction"})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestReserveQuantity_Guard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	farmer := createTestFarmer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 10)

	err := svc.ReserveQuantity(db, listing.ID, models.OrderRetail, 6)
	require.NoError(t, err)

	// Only 4 units remain, a second 6-unit reservation cannot succeed.
	err = svc.ReserveQuantity(db, listing.ID, models.OrderRetail, 6)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientQuantity))

	var reloaded models.CropListing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, 4.0, *reloaded.QuantityRetail)
}

func TestMarkSoldIfExhausted(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	farmer := createTestFarmer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 10)

	require.NoError(t, svc.ReserveQuantity(db, listing.ID, models.OrderRetail, 10))
	require.NoError(t, svc.MarkSoldIfExhausted(db, listing.ID))

	var reloaded models.CropListing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, models.ListingSold, reloaded.ListingStatus)

	// Sold listings reject further reservations.
	err := svc.ReserveQuantity(db, listing.ID, models.OrderRetail, 1)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientQuantity))
}

func TestRestockQuantity_ReopensListing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	farmer := createTestFarmer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 10)

	require.NoError(t, svc.ReserveQuantity(db, listing.ID, models.OrderRetail, 10))
	require.NoError(t, svc.MarkSoldIfExhausted(db, listing.ID))
	require.NoError(t, svc.RestockQuantity(db, listing.ID, models.OrderRetail, 10))

	var reloaded models.CropListing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, models.ListingActive, reloaded.ListingStatus)
	assert.Equal(t, 10.0, *reloaded.QuantityRetail)
}

func TestFindNearbyEquipment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	supplier := createTestSupplier(t, db)

	create := func(name string, lon, lat float64) *models.EquipmentListing {
		listing, err := svc.CreateEquipmentListing(CreateEquipmentListingRequest{
			SupplierID:  supplier.ID,
			Name:        name,
			Price:       500,
			ListingType: models.EquipmentForRent,
			Longitude:   lon,
			Latitude:    lat,
		})
		require.NoError(t, err)
		return listing
	}

	// Center at (77.5, 12.9). One degree of latitude is ~111km, so 0.01
	// degrees is ~1.1km and 0.1 degrees is ~11km.
	near := create("Tractor nearby", 77.5, 12.91)
	nearer := create("Tiller next door", 77.501, 12.9)
	create("Harvester far away", 77.5, 13.0)

	results, err := svc.FindNearbyEquipment(77.5, 12.9, 5000)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ascending distance
	assert.Equal(t, nearer.ID, results[0].Listing.ID)
	assert.Equal(t, near.ID, results[1].Listing.ID)
	assert.Less(t, results[0].DistanceMeters, results[1].DistanceMeters)
	for _, r := range results {
		assert.LessOrEqual(t, r.DistanceMeters, 5000.0)
	}
}

func TestFindNearbyEquipment_SkipsUnavailable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	supplier := createTestSupplier(t, db)

	listing, err := svc.CreateEquipmentListing(CreateEquipmentListingRequest{
		SupplierID:  supplier.ID,
		Name:        "Rented out tractor",
		Price:       500,
		ListingType: models.EquipmentForRent,
		Longitude:   77.5,
		Latitude:    12.9,
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(listing).UpdateColumn("availability", false).Error)

	results, err := svc.FindNearbyEquipment(77.5, 12.9, 5000)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCreateEquipmentListing_SupplierNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)

	_, err := svc.CreateEquipmentListing(CreateEquipmentListingRequest{
		SupplierID:  9999,
		Name:        "Tractor",
		Price:       500,
		ListingType: models.EquipmentForSale,
		Longitude:   77.5,
		Latitude:    12.9,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}
