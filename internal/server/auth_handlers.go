package server

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"nhatro/internal/models"
	"nhatro/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type signupRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FullName      string `json:"full_name"`
	ContactNumber string `json:"contact_number"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Invalid request body"))
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError(err.Error()))
	}
	if err := validation.ValidatePhone(req.ContactNumber); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError(err.Error()))
	}

	existing, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}
	if existing != nil {
		return models.RespondWithError(c, models.NewConflictError("Email already registered"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}

	user := &models.User{
		Email:         req.Email,
		Password:      string(hashed),
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}

	slog.InfoContext(c.UserContext(), "user signed up", "user_id", user.ID)

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}

	return success(c, fiber.StatusCreated, "Account created", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login authenticates a user and returns a JWT.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Email and password are required"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}
	// Same response for unknown email and wrong password.
	if user == nil {
		return models.RespondWithError(c, models.NewUnauthorizedError("Invalid credentials"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithError(c, models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}

	slog.InfoContext(c.UserContext(), "user logged in", "user_id", user.ID)

	return success(c, fiber.StatusOK, "Logged in", fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(72 * time.Hour).Unix(),
		"jti": uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
