package services

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"AgriLink/internal/apperror"
	"AgriLink/internal/models"
	"AgriLink/internal/validation"
)

type IdentityService struct {
	db *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

type CreateUserRequest struct {
	Name         string          `json:"name" validate:"required"`
	Phone        string          `json:"phone" validate:"required,phone_in"`
	Email        *string         `json:"email,omitempty" validate:"omitempty,email"`
	Password     string          `json:"password" validate:"required,min=6"`
	Role         models.UserRole `json:"role" validate:"required,oneof=farmer buyer supplier admin"`
	LanguagePref string          `json:"language_pref,omitempty"`
}

// CreateUser persists a new user. Phone must be unique; email is unique only
// among non-null values.
func (s *IdentityService) CreateUser(req CreateUserRequest) (*models.User, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("phone = ?", req.Phone).Count(&count).Error; err != nil {
		return nil, apperror.NewInternalError("failed to check phone uniqueness", err)
	}
	if count > 0 {
		return nil, apperror.NewConflictError(fmt.Sprintf("a user with phone %s already exists", req.Phone))
	}

	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		if err := s.db.Model(&models.User{}).Where("email = ?", *req.Email).Count(&count).Error; err != nil {
			return nil, apperror.NewInternalError("failed to check email uniqueness", err)
		}
		if count > 0 {
			return nil, apperror.NewConflictError(fmt.Sprintf("a user with email %s already exists", *req.Email))
		}
	} else {
		req.Email = nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := models.User{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		LanguagePref: req.LanguagePref,
	}
	if user.LanguagePref == "" {
		user.LanguagePref = "en"
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, apperror.NewInternalError("failed to create user", err)
	}
	return &user, nil
}

func (s *IdentityService) Users() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, apperror.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (s *IdentityService) UserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user %d not found", id))
		}
		return nil, apperror.NewInternalError("failed to load user", err)
	}
	return &user, nil
}

// requireUserWithRole loads the referenced user and checks both existence and
// role match before a profile may be attached.
func (s *IdentityService) requireUserWithRole(userID uint, role models.UserRole) (*models.User, error) {
	user, err := s.UserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, apperror.NewRoleMismatchError(
			fmt.Sprintf("user %d has role %q, cannot attach a %s profile", userID, user.Role, role))
	}
	return user, nil
}

type CreateFarmerRequest struct {
	UserID           uint    `json:"user_id" validate:"required"`
	FarmLongitude    float64 `json:"farm_longitude" validate:"gte=-180,lte=180"`
	FarmLatitude     float64 `json:"farm_latitude" validate:"gte=-90,lte=90"`
	SoilType         string  `json:"soil_type,omitempty"`
	FarmingPractices string  `json:"farming_practices,omitempty"`
	ExperienceYears  int     `json:"experience_years,omitempty" validate:"gte=0"`
}

func (s *IdentityService) CreateFarmer(req CreateFarmerRequest) (*models.Farmer, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireProfileSlot(req.UserID, &models.Farmer{}); err != nil {
		return nil, err
	}

	farmer := models.Farmer{
		UserID:           req.UserID,
		FarmLongitude:    req.FarmLongitude,
		FarmLatitude:     req.FarmLatitude,
		SoilType:         req.SoilType,
		FarmingPractices: req.FarmingPractices,
		ExperienceYears:  req.ExperienceYears,
	}
	if err := s.db.Create(&farmer).Error; err != nil {
		return nil, apperror.NewInternalError("failed to create farmer profile", err)
	}
	return &farmer, nil
}

type CreateBuyerRequest struct {
	UserID      uint             `json:"user_id" validate:"required"`
	BuyerType   models.BuyerType `json:"buyer_type" validate:"required,oneof=retail business"`
	CompanyName string           `json:"company_name,omitempty"`
	GSTNumber   string           `json:"gst_number,omitempty"`
	Address     string           `json:"address,omitempty"`
}

func (s *IdentityService) CreateBuyer(req CreateBuyerRequest) (*models.Buyer, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireProfileSlot(req.UserID, &models.Buyer{}); err != nil {
		return nil, err
	}

	buyer := models.Buyer{
		UserID:      req.UserID,
		BuyerType:   req.BuyerType,
		CompanyName: req.CompanyName,
		GSTNumber:   req.GSTNumber,
		Address:     req.Address,
	}
	if err := s.db.Create(&buyer).Error; err != nil {
		return nil, apperror.NewInternalError("failed to create buyer profile", err)
	}
	return &buyer, nil
}

type CreateSupplierRequest struct {
	UserID        uint   `json:"user_id" validate:"required"`
	BusinessName  string `json:"business_name" validate:"required"`
	LicenseNumber string `json:"license_number,omitempty"`
	Address       string `json:"address,omitempty"`
}

func (s *IdentityService) CreateSupplier(req CreateSupplierRequest) (*models.Supplier, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireProfileSlot(req.UserID, &models.Supplier{}); err != nil {
		return nil, err
	}

	supplier := models.Supplier{
		UserID:        req.UserID,
		BusinessName:  req.BusinessName,
		LicenseNumber: req.LicenseNumber,
		Address:       req.Address,
	}
	if err := s.db.Create(&supplier).Error; err != nil {
		return nil, apperror.NewInternalError("failed to create supplier profile", err)
	}
	return &supplier, nil
}

// requireProfileSlot checks the referenced user exists with the role the
// profile kind requires and does not already hold such a profile.
func (s *IdentityService) requireProfileSlot(userID uint, profile interface{}) error {
	role := models.ProfileRole(profile)
	if _, err := s.requireUserWithRole(userID, role); err != nil {
		return err
	}
	return s.requireNoProfile(profile, userID, string(role))
}

func (s *IdentityService) requireNoProfile(model interface{}, userID uint, kind string) error {
	var count int64
	if err := s.db.Model(model).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return apperror.NewInternalError("failed to check existing profile", err)
	}
	if count > 0 {
		return apperror.NewConflictError(fmt.Sprintf("user %d already has a %s profile", userID, kind))
	}
	return nil
}
