package services

import (
	"fmt"

	"github.com/mmcloughlin/geohash"
	"gorm.io/gorm"

	"AgriLink/internal/apperror"
	"AgriLink/internal/geo"
	"AgriLink/internal/models"
	"AgriLink/internal/validation"
)

type ListingService struct {
	db       *gorm.DB
	geoIndex *geo.Index
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db, geoIndex: geo.NewIndex()}
}

type CreateCropListingRequest struct {
	FarmerID          uint                `json:"farmer_id" validate:"required"`
	CropName          string              `json:"crop_name" validate:"required"`
	Variety           string              `json:"variety,omitempty"`
	QuantityRetail    *float64            `json:"quantity_available_retail,omitempty" validate:"omitempty,gt=0"`
	QuantityWholesale *float64            `json:"quantity_available_wholesale,omitempty" validate:"omitempty,gt=0"`
	UnitRetail        models.QuantityUnit `json:"unit_retail,omitempty" validate:"omitempty,oneof=kg quintal ton"`
	UnitWholesale     models.QuantityUnit `json:"unit_wholesale,omitempty" validate:"omitempty,oneof=kg quintal ton"`
	PriceRetail       *float64            `json:"price_per_unit_retail,omitempty" validate:"omitempty,gt=0"`
	PriceWholesale    *float64            `json:"price_per_unit_wholesale,omitempty" validate:"omitempty,gt=0"`
	SaleType          models.SaleType     `json:"sale_type" validate:"required,oneof=retail wholesale both"`
	OrganicCertified  bool                `json:"organic_certified,omitempty"`
}

// checkSaleTypeFields enforces the conservative reading of sale_type: each
// declared tier needs its price and quantity, and undeclared tiers must be
// left unset.
func checkSaleTypeFields(req CreateCropListingRequest) error {
	retailSet := req.QuantityRetail != nil || req.PriceRetail != nil
	wholesaleSet := req.QuantityWholesale != nil || req.PriceWholesale != nil
	retailComplete := req.QuantityRetail != nil && req.PriceRetail != nil
	wholesaleComplete := req.QuantityWholesale != nil && req.PriceWholesale != nil

	switch req.SaleType {
	case models.SaleRetail:
		if !retailComplete {
			return apperror.NewValidationError("retail listings require retail price and quantity")
		}
		if wholesaleSet {
			return apperror.NewValidationError("retail listings must not carry wholesale price or quantity")
		}
	case models.SaleWholesale:
		if !wholesaleComplete {
			return apperror.NewValidationError("wholesale listings require wholesale price and quantity")
		}
		if retailSet {
			return apperror.NewValidationError("wholesale listings must not carry retail price or quantity")
		}
	case models.SaleBoth:
		if !retailComplete || !wholesaleComplete {
			return apperror.NewValidationError("listings with sale_type=both require retail and wholesale price and quantity")
		}
	}
	return nil
}

func (s *ListingService) CreateCropListing(req CreateCropListingRequest) (*models.CropListing, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if err := checkSaleTypeFields(req); err != nil {
		return nil, err
	}

	var farmer models.Farmer
	if err := s.db.First(&farmer, req.FarmerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("farmer %d not found", req.FarmerID))
		}
		return nil, apperror.NewInternalError("failed to load farmer", err)
	}

	listing := models.CropListing{
		FarmerID:          req.FarmerID,
		CropName:          req.CropName,
		Variety:           req.Variety,
		QuantityRetail:    req.QuantityRetail,
		QuantityWholesale: req.QuantityWholesale,
		UnitRetail:        req.UnitRetail,
		UnitWholesale:     req.UnitWholesale,
		PriceRetail:       req.PriceRetail,
		PriceWholesale:    req.PriceWholesale,
		SaleType:          req.SaleType,
		OrganicCertified:  req.OrganicCertified,
		ListingStatus:     models.ListingActive,
	}
	if err := s.db.Create(&listing).Error; err != nil {
		return nil, apperror.NewInternalError("failed to create crop listing", err)
	}
	return &listing, nil
}

type CropListingFilters struct {
	CropName string
	SaleType models.SaleType
	Status   models.ListingStatus
	FarmerID uint
	Organic  *bool
}

// CropListings returns listings with the farmer profile (and its user)
// populated inline.
func (s *ListingService) CropListings(filters CropListingFilters) ([]models.CropListing, error) {
	// Filter values arrive as raw query strings, outside struct validation.
	if filters.SaleType != "" && !models.IsValidSaleType(filters.SaleType) {
		return nil, apperror.NewValidationError(fmt.Sprintf("unknown sale type %q", filters.SaleType))
	}

	q := s.db.Preload("Farmer").Preload("Farmer.User")
	if filters.CropName != "" {
		q = q.Where("crop_name = ?", filters.CropName)
	}
	if filters.SaleType != "" {
		q = q.Where("sale_type = ?", filters.SaleType)
	}
	if filters.Status != "" {
		q = q.Where("listing_status = ?", filters.Status)
	}
	if filters.FarmerID != 0 {
		q = q.Where("farmer_id = ?", filters.FarmerID)
	}
	if filters.Organic != nil {
		q = q.Where("organic_certified = ?", *filters.Organic)
	}

	var listings []models.CropListing
	if err := q.Order("id").Find(&listings).Error; err != nil {
		return nil, apperror.NewInternalError("failed to list crop listings", err)
	}
	return listings, nil
}

func (s *ListingService) CropListingByID(id uint) (*models.CropListing, error) {
	var listing models.CropListing
	if err := s.db.Preload("Farmer").First(&listing, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("crop listing %d not found", id))
		}
		return nil, apperror.NewInternalError("failed to load crop listing", err)
	}
	return &listing, nil
}

// quantityColumn maps an order type to the listing tier it draws from.
func quantityColumn(orderType models.OrderType) string {
	if orderType == models.OrderBulk {
		return "quantity_available_wholesale"
	}
	return "quantity_available_retail"
}

// ReserveQuantity decrements the tier quantity with a conditional update so
// two concurrent reservations can never both succeed past the available
// amount. Runs inside the caller's transaction.
func (s *ListingService) ReserveQuantity(tx *gorm.DB, listingID uint, orderType models.OrderType, qty float64) error {
	col := quantityColumn(orderType)
	res := tx.Model(&models.CropListing{}).
		Where(fmt.Sprintf("id = ? AND listing_status = ? AND %s >= ?", col), listingID, models.ListingActive, qty).
		UpdateColumn(col, gorm.Expr(fmt.Sprintf("%s - ?", col), qty))
	if res.Error != nil {
		return apperror.NewInternalError("failed to reserve listing quantity", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NewInsufficientQuantityError(
			fmt.Sprintf("listing %d cannot cover %g units", listingID, qty))
	}
	return nil
}

// RestockQuantity returns a previously reserved amount, reopening a sold
// listing. Runs inside the caller's transaction.
func (s *ListingService) RestockQuantity(tx *gorm.DB, listingID uint, orderType models.OrderType, qty float64) error {
	col := quantityColumn(orderType)
	res := tx.Model(&models.CropListing{}).
		Where("id = ?", listingID).
		Updates(map[string]interface{}{
			col:              gorm.Expr(fmt.Sprintf("COALESCE(%s, 0) + ?", col), qty),
			"listing_status": models.ListingActive,
		})
	if res.Error != nil {
		return apperror.NewInternalError("failed to restock listing quantity", res.Error)
	}
	return nil
}

// MarkSoldIfExhausted flips the listing to sold when every tier it sells has
// run out. Runs inside the caller's transaction.
func (s *ListingService) MarkSoldIfExhausted(tx *gorm.DB, listingID uint) error {
	var listing models.CropListing
	if err := tx.First(&listing, listingID).Error; err != nil {
		return apperror.NewInternalError("failed to reload listing", err)
	}
	if listing.ListingStatus == models.ListingActive && listing.Exhausted() {
		if err := tx.Model(&listing).UpdateColumn("listing_status", models.ListingSold).Error; err != nil {
			return apperror.NewInternalError("failed to mark listing sold", err)
		}
	}
	return nil
}

type CreateEquipmentListingRequest struct {
	SupplierID  uint                        `json:"supplier_id" validate:"required"`
	Name        string                      `json:"name" validate:"required"`
	Type        string                      `json:"type,omitempty"`
	Description string                      `json:"description,omitempty"`
	Price       float64                     `json:"price" validate:"gt=0"`
	ListingType models.EquipmentListingType `json:"listing_type" validate:"required,oneof=sale rent"`
	Longitude   float64                     `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude    float64                     `json:"latitude" validate:"gte=-90,lte=90"`
}

func (s *ListingService) CreateEquipmentListing(req CreateEquipmentListingRequest) (*models.EquipmentListing, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	point := geo.Point{Longitude: req.Longitude, Latitude: req.Latitude}
	if !point.Valid() {
		return nil, apperror.NewValidationError("location must be a valid lon/lat point")
	}

	var supplier models.Supplier
	if err := s.db.First(&supplier, req.SupplierID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("supplier %d not found", req.SupplierID))
		}
		return nil, apperror.NewInternalError("failed to load supplier", err)
	}

	listing := models.EquipmentListing{
		SupplierID:   req.SupplierID,
		Name:         req.Name,
		Type:         req.Type,
		Description:  req.Description,
		Price:        req.Price,
		ListingType:  req.ListingType,
		Availability: true,
		Longitude:    req.Longitude,
		Latitude:     req.Latitude,
		Geohash:      geohash.Encode(req.Latitude, req.Longitude),
	}
	if err := s.db.Create(&listing).Error; err != nil {
		return nil, apperror.NewInternalError("failed to create equipment listing", err)
	}

	s.geoIndex.Insert(listing.ID, point)
	return &listing, nil
}

func (s *ListingService) EquipmentListingByID(id uint) (*models.EquipmentListing, error) {
	var listing models.EquipmentListing
	if err := s.db.Preload("Supplier").First(&listing, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("equipment listing %d not found", id))
		}
		return nil, apperror.NewInternalError("failed to load equipment listing", err)
	}
	return &listing, nil
}

// LoadGeoIndex rebuilds the proximity index from persisted listings. Called
// once at startup.
func (s *ListingService) LoadGeoIndex() error {
	var listings []models.EquipmentListing
	if err := s.db.Find(&listings).Error; err != nil {
		return apperror.NewInternalError("failed to load equipment listings for geo index", err)
	}
	for _, l := range listings {
		s.geoIndex.Insert(l.ID, geo.Point{Longitude: l.Longitude, Latitude: l.Latitude})
	}
	return nil
}

type NearbyEquipment struct {
	Listing        models.EquipmentListing `json:"listing"`
	DistanceMeters float64                 `json:"distance_meters"`
}

// FindNearbyEquipment returns available equipment listings within
// radiusMeters of the point, closest first.
func (s *ListingService) FindNearbyEquipment(lon, lat, radiusMeters float64) ([]NearbyEquipment, error) {
	point := geo.Point{Longitude: lon, Latitude: lat}
	if !point.Valid() {
		return nil, apperror.NewValidationError("center must be a valid lon/lat point")
	}
	if radiusMeters <= 0 {
		return nil, apperror.NewValidationError("radius must be positive")
	}

	matches := s.geoIndex.Near(point, radiusMeters)
	if len(matches) == 0 {
		return []NearbyEquipment{}, nil
	}

	ids := make([]uint, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}

	var listings []models.EquipmentListing
	if err := s.db.Preload("Supplier").Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, apperror.NewInternalError("failed to load nearby equipment", err)
	}
	byID := make(map[uint]models.EquipmentListing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	results := make([]NearbyEquipment, 0, len(matches))
	for _, m := range matches {
		listing, ok := byID[m.ID]
		if !ok || !listing.Availability {
			continue
		}
		results = append(results, NearbyEquipment{Listing: listing, DistanceMeters: m.DistanceMeters})
	}
	return results, nil
}
