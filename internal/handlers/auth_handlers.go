package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gymdesk/internal/config"
	"gymdesk/internal/middleware"
	"gymdesk/internal/models"
)

// AuthHandler handles registration, login and the current-owner profile.
type AuthHandler struct {
	db  *gorm.DB
	cfg config.AuthConfig
}

func NewAuthHandler(db *gorm.DB, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type registerRequest struct {
	Username  string  `json:"username" validate:"required,max=150"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,phone"`
	Password  string  `json:"password" validate:"required,min=8"`
	Password2 string  `json:"password2" validate:"required"`
}

// Register creates a new owner account. Uniqueness conflicts are rejected
// before anything is persisted.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if req.Password != req.Password2 {
		return middleware.NewValidationError("password", "Password fields didn't match.")
	}

	var count int64
	if err := h.db.Model(&models.Owner{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return middleware.NewValidationError("username", "An owner with that username already exists.")
	}

	if req.Phone != nil {
		if err := h.db.Model(&models.Owner{}).Where("phone = ?", *req.Phone).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return middleware.NewValidationError("phone", "An owner with that phone number already exists.")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	owner := models.Owner{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
	}
	if err := h.db.Create(&owner).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message":  "Owner registered successfully",
		"username": owner.Username,
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a bearer token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var owner models.Owner
	err := h.db.Where("username = ?", req.Username).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	token, err := middleware.IssueToken(owner, h.cfg.JWTSecret, h.cfg.TokenTTL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"access":     token,
		"token_type": "Bearer",
		"expires_in": int(h.cfg.TokenTTL.Seconds()),
	})
}

// Me returns the authenticated owner's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	owner := currentOwner(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":           owner.ID,
		"username":     owner.Username,
		"email":        owner.Email,
		"phone":        owner.Phone,
		"is_superuser": owner.IsSuperuser,
		"created_at":   owner.CreatedAt,
	})
}
