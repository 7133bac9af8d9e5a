package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"AgriLink/internal/apperror"
	"AgriLink/internal/models"
	"AgriLink/internal/validation"
)

const defaultMandiBaseURL = "https://api.data.gov.in/resource/35985678-0d79-46b4-9ed6-6f13308a1d24"

// MandiService proxies the public mandi price dataset and snapshots quotes
// into the local market_prices collection.
type MandiService struct {
	APIKey  string
	BaseURL string
	client  *http.Client
	db      *gorm.DB
}

func NewMandiService(db *gorm.DB) *MandiService {
	baseURL := os.Getenv("MANDI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultMandiBaseURL
	}
	return &MandiService{
		APIKey:  os.Getenv("MANDI_API_KEY"),
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		db:      db,
	}
}

type MandiFilters struct {
	State       string
	District    string
	Commodity   string
	ArrivalDate string // DD/MM/YYYY
}

// MandiRecord mirrors one row of the upstream dataset.
type MandiRecord struct {
	State      string `json:"state"`
	District   string `json:"district"`
	Market     string `json:"market"`
	Commodity  string `json:"commodity"`
	Variety    string `json:"variety"`
	MinPrice   string `json:"min_price"`
	MaxPrice   string `json:"max_price"`
	ModalPrice string `json:"modal_price"`
}

type MandiResponse struct {
	Total   int           `json:"total"`
	Count   int           `json:"count"`
	Records []MandiRecord `json:"records"`
}

// FetchPrices queries the upstream dataset. Upstream failures come back as a
// labeled upstream error; nothing is fabricated.
func (s *MandiService) FetchPrices(filters MandiFilters) (*MandiResponse, error) {
	if filters.State == "" {
		return nil, apperror.NewValidationError("state is required")
	}

	params := url.Values{}
	params.Set("api-key", s.APIKey)
	params.Set("format", "json")
	params.Set("limit", "1000")
	params.Set("filters[State]", filters.State)
	if filters.District != "" {
		params.Set("filters[District]", filters.District)
	}
	if filters.Commodity != "" {
		params.Set("filters[Commodity]", filters.Commodity)
	}
	if filters.ArrivalDate != "" {
		params.Set("filters[Arrival_Date]", filters.ArrivalDate)
	}

	resp, err := s.client.Get(s.BaseURL + "?" + params.Encode())
	if err != nil {
		return nil, apperror.NewUpstreamError("mandi price source is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewUpstreamError(
			fmt.Sprintf("mandi price source returned status %d", resp.StatusCode), nil)
	}

	var result MandiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperror.NewUpstreamError("failed to decode mandi price response", err)
	}
	return &result, nil
}

// ImportSnapshot persists the modal price of each fetched record.
func (s *MandiService) ImportSnapshot(records []MandiRecord) (int, error) {
	imported := 0
	for _, r := range records {
		price, err := strconv.ParseFloat(r.ModalPrice, 64)
		if err != nil || price <= 0 {
			continue
		}
		row := models.MarketPrice{
			CropName:      r.Commodity,
			MandiLocation: fmt.Sprintf("%s, %s", r.Market, r.District),
			PricePerUnit:  price,
			Unit:          "quintal",
		}
		if err := s.db.Create(&row).Error; err != nil {
			return imported, apperror.NewInternalError("failed to import market price", err)
		}
		imported++
	}
	return imported, nil
}

type CreateMarketPriceRequest struct {
	CropName      string  `json:"crop_name" validate:"required"`
	MandiLocation string  `json:"mandi_location" validate:"required"`
	PricePerUnit  float64 `json:"price_per_unit" validate:"gt=0"`
	Unit          string  `json:"unit" validate:"required"`
}

func (s *MandiService) CreateMarketPrice(req CreateMarketPriceRequest) (*models.MarketPrice, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	row := models.MarketPrice{
		CropName:      req.CropName,
		MandiLocation: req.MandiLocation,
		PricePerUnit:  req.PricePerUnit,
		Unit:          req.Unit,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, apperror.NewInternalError("failed to create market price", err)
	}
	return &row, nil
}

func (s *MandiService) MarketPrices(cropName, mandiLocation string) ([]models.MarketPrice, error) {
	q := s.db.Order("created_at DESC")
	if cropName != "" {
		q = q.Where("crop_name = ?", cropName)
	}
	if mandiLocation != "" {
		q = q.Where("mandi_location = ?", mandiLocation)
	}
	var prices []models.MarketPrice
	if err := q.Find(&prices).Error; err != nil {
		return nil, apperror.NewInternalError("failed to list market prices", err)
	}
	return prices, nil
}
