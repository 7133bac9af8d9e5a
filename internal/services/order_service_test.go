package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"AgriLink/internal/apperror"
	"AgriLink/internal/models"
)

func newOrderService(db *gorm.DB) *OrderService {
	listings := NewListingService(db)
	notifications := NewNotificationService(db)
	return NewOrderService(db, listings, notifications)
}

func placeTestOrder(t *testing.T, svc *OrderService, buyerID, farmerID, listingID uint, qty float64) *models.Order {
	t.Helper()

	order, err := svc.PlaceOrder(PlaceOrderRequest{
		BuyerID:       buyerID,
		FarmerIDs:     []uint{farmerID},
		CropListingID: listingID,
		Quantity:      qty,
		PriceTotal:    qty * 20,
		OrderType:     models.OrderRetail,
	})
	require.NoError(t, err)
	return order
}

func TestPlaceOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	farmer := createTestFarmer(t, db)
	buyer := createTestBuyer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 100)

	order := placeTestOrder(t, svc, buyer.ID, farmer.ID, listing.ID, 10)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.OrderPaymentPending, order.PaymentStatus)

	// Quantity reserved in the same transaction
	var reloaded models.CropListing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, 90.0, *reloaded.QuantityRetail)

	// Farmer gets an in-app notification
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ?", farmer.UserID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPlaceOrder_MissingReferences(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	farmer := createTestFarmer(t, db)
	buyer := createTestBuyer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 100)

	_, err := svc.PlaceOrder(PlaceOrderRequest{
		BuyerID:       9999,
		FarmerIDs:     []uint{farmer.ID},
		CropListingID: listing.ID,
		Quantity:      5,
		PriceTotal:    100,
		OrderType:     models.OrderRetail,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))

	_, err = svc.PlaceOrder(PlaceOrderRequest{
		BuyerID:       buyer.ID,
		FarmerIDs:     []uint{9999},
		CropListingID: listing.ID,
		Quantity:      5,
		PriceTotal:    100,
		OrderType:     models.OrderRetail,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))

	_, err = svc.PlaceOrder(PlaceOrderRequest{
		BuyerID:       buyer.ID,
		FarmerIDs:     []uint{},
		CropListingID: listing.ID,
		Quantity:      5,
		PriceTotal:    100,
		OrderType:     models.OrderRetail,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestPlaceOrder_TierNotSold(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	farmer := createTestFarmer(t, db)
	buyer := createTestBuyer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 100) // retail only

	_, err := svc.PlaceOrder(PlaceOrderRequest{
		BuyerID:       buyer.ID,
		FarmerIDs:     []uint{farmer.ID},
		CropListingID: listing.ID,
		Quantity:      50,
		PriceTotal:    750,
		OrderType:     models.OrderBulk,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestPlaceOrder_ConcurrentOversellPrevented(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	farmer := createTestFarmer(t, db)
	buyer := createTestBuyer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 10)

	// Two simultaneous 6-unit orders against quantity 10: exactly one may
	// succeed, never both.
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.PlaceOrder(PlaceOrderRequest{
				BuyerID:       buyer.ID,
				FarmerIDs:     []uint{farmer.ID},
				CropListingID: listing.ID,
				Quantity:      6,
				PriceTotal:    120,
				OrderType:     models.OrderRetail,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientQuantity))
		}
	}
	assert.Equal(t, 1, succeeded)

	var reloaded models.CropListing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, 4.0, *reloaded.QuantityRetail)
}

func TestAdvanceOrder_Graph(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	farmer := createTestFarmer(t, db)
	buyer := createTestBuyer(t, db)

	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{"pending to confirmed", models.OrderPending, models.OrderConfirmed, true},
		{"pending to cancelled", models.OrderPending, models.OrderCancelled, true},
		{"pending to delivered", models.OrderPending, models.OrderDelivered, false},
		{"confirmed to dispatched", models.OrderConfirmed, models.OrderDispatched, true},
		{"confirmed to delivered", models.OrderConfirmed, models.OrderDelivered, false},
		{"dispatched to delivered", models.OrderDispatched, models.OrderDelivered, true},
		{"dispatched to cancelled", models.OrderDispatched, models.OrderCancelled, true},
		{"delivered to cancelled", models.OrderDelivered, models.OrderCancelled, false},
		{"delivered to pending", models.OrderDelivered, models.OrderPending, false},
		{"cancelled to confirmed", models.OrderCancelled, models.OrderConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := createTestCropListing(t, db, farmer.ID, 100)
			order := placeTestOrder(t, svc, buyer.ID, farmer.ID, listing.ID, 5)
			require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
				UpdateColumn("status", tt.from).Error)

			updated, err := svc.AdvanceOrder(order.ID, tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, updated.Status)
			} else {
				require.Error(t, err)
				assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))

				var reloaded models.Order
				require.NoError(t, db.First(&reloaded, order.ID).Error)
				assert.Equal(t, tt.from, reloaded.Status)
			}
		})
	}
}

func TestAdvanceOrder_ConcurrentTerminalRace(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	farmer := createTestFarmer(t, db)
	buyer := createTestBuyer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 10)
	order := placeTestOrder(t, svc, buyer.ID, farmer.ID, listing.ID, 5)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		UpdateColumn("status", models.OrderDispatched).Error)

	// Deliver and cancel race from dispatched. Whatever the interleaving,
	// only one may win: the loser must fail rather than overwrite the
	// terminal state the winner reached.
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, target := range []models.OrderStatus{models.OrderDelivered, models.OrderCancelled} {
		wg.Add(1)
		go func(i int, target models.OrderStatus) {
			defer wg.Done()
			_, results[i] = svc.AdvanceOrder(order.ID, target)
		}(i, target)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
		}
	}
	assert.Equal(t, 1, succeeded)

	var reloadedOrder models.Order
	require.NoError(t, db.First(&reloadedOrder, order.ID).Error)
	var reloadedListing models.CropListing
	require.NoError(t, db.First(&reloadedListing, listing.ID).Error)
	if reloadedOrder.Status == models.OrderCancelled {
		// Restocked exactly once
		assert.Equal(t, 10.0, *reloadedListing.QuantityRetail)
	} else {
		assert.Equal(t, models.OrderDelivered, reloadedOrder.Status)
		assert.Equal(t, 5.0, *reloadedListing.QuantityRetail)
	}
}

func TestAdvanceOrder_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	farmer := createTestFarmer(t, db)
	buyer := createTestBuyer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 100)
	order := placeTestOrder(t, svc, buyer.ID, farmer.ID, listing.ID, 5)

	updated, err := svc.AdvanceOrder(order.ID, models.OrderPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, updated.Status)
}

func TestAdvanceOrder_UnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	farmer := createTestFarmer(t, db)
	buyer := createTestBuyer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 100)
	order := placeTestOrder(t, svc, buyer.ID, farmer.ID, listing.ID, 5)

	_, err := svc.AdvanceOrder(order.ID, "shipped")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestAdvanceOrder_CancelRestocks(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	farmer := createTestFarmer(t, db)
	buyer := createTestBuyer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 10)
	order := placeTestOrder(t, svc, buyer.ID, farmer.ID, listing.ID, 10)

	// Fully reserved listings flip to sold
	var sold models.CropListing
	require.NoError(t, db.First(&sold, listing.ID).Error)
	assert.Equal(t, models.ListingSold, sold.ListingStatus)

	_, err := svc.AdvanceOrder(order.ID, models.OrderCancelled)
	require.NoError(t, err)

	var reloaded models.CropListing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, models.ListingActive, reloaded.ListingStatus)
	assert.Equal(t, 10.0, *reloaded.QuantityRetail)
}

func TestAdvanceOrder_CancelRefundsEscrow(t *testing.T) {
	db := setupTestDB(t)
	listings := NewListingService(db)
	notifications := NewNotificationService(db)
	orders := NewOrderService(db, listings, notifications)
	payments := NewPaymentService(db, notifications)

	farmer := createTestFarmer(t, db)
	buyer := createTestBuyer(t, db)
	listing := createTestCropListing(t, db, farmer.ID, 100)
	order := placeTestOrder(t, orders, buyer.ID, farmer.ID, listing.ID, 5)

	payment, err := payments.RecordPayment(RecordPaymentRequest{
		OrderID: order.ID,
		BuyerID: buyer.ID,
		Amount:  order.PriceTotal,
		Method:  models.PaymentEscrow,
	})
	require.NoError(t, err)
	_, err = payments.Settle(payment.ID)
	require.NoError(t, err)

	_, err = orders.AdvanceOrder(order.ID, models.OrderCancelled)
	require.NoError(t, err)

	var reloadedPayment models.Payment
	require.NoError(t, db.First(&reloadedPayment, payment.ID).Error)
	assert.Equal(t, models.PaymentRefunded, reloadedPayment.Status)

	var reloadedOrder models.Order
	require.NoError(t, db.First(&reloadedOrder, order.ID).Error)
	assert.Equal(t, models.OrderPaymentRefunded, reloadedOrder.PaymentStatus)
}

func TestPlaceEquipmentOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	listings := svc.listings
	supplier := createTestSupplier(t, db)
	buyer := createTestBuyer(t, db)

	equipment, err := listings.CreateEquipmentListing(CreateEquipmentListingRequest{
		SupplierID:  supplier.ID,
		Name:        "Tractor",
		Price:       1200,
		ListingType: models.EquipmentForSale,
		Longitude:   77.5,
		Latitude:    12.9,
	})
	require.NoError(t, err)

	order, err := svc.PlaceEquipmentOrder(PlaceEquipmentOrderRequest{
		BuyerID:     buyer.ID,
		EquipmentID: equipment.ID,
		OrderType:   models.EquipmentOrderBuy,
		PriceTotal:  1200,
	})
	require.NoError(t, err)
	assert.Equal(t, supplier.ID, order.SupplierID)
	assert.Equal(t, models.EquipmentOrderPending, order.Status)

	// Rentals need dates
	_, err = svc.PlaceEquipmentOrder(PlaceEquipmentOrderRequest{
		BuyerID:     buyer.ID,
		EquipmentID: equipment.ID,
		OrderType:   models.EquipmentOrderRent,
		PriceTotal:  300,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestAdvanceEquipmentOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	supplier := createTestSupplier(t, db)
	buyer := createTestBuyer(t, db)

	equipment, err := svc.listings.CreateEquipmentListing(CreateEquipmentListingRequest{
		SupplierID:  supplier.ID,
		Name:        "Tiller",
		Price:       800,
		ListingType: models.EquipmentForSale,
		Longitude:   77.5,
		Latitude:    12.9,
	})
	require.NoError(t, err)

	order, err := svc.PlaceEquipmentOrder(PlaceEquipmentOrderRequest{
		BuyerID:     buyer.ID,
		EquipmentID: equipment.ID,
		OrderType:   models.EquipmentOrderBuy,
		PriceTotal:  800,
	})
	require.NoError(t, err)

	// pending cannot complete directly
	_, err = svc.AdvanceEquipmentOrder(order.ID, models.EquipmentOrderCompleted)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))

	updated, err := svc.AdvanceEquipmentOrder(order.ID, models.EquipmentOrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.EquipmentOrderConfirmed, updated.Status)

	updated, err = svc.AdvanceEquipmentOrder(order.ID, models.EquipmentOrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.EquipmentOrderCompleted, updated.Status)
}
