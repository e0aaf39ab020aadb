package services

import (
	"errors"

	"ecommerce_api/internal/apperrors"
	"ecommerce_api/internal/models"
	"ecommerce_api/internal/repository"
	"ecommerce_api/internal/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(username, password, email, role string) (*models.User, error)
	Login(username, password string) (string, *models.User, error)
}

type authService struct {
	store  repository.Store
	tokens *token.Maker
}

func NewAuthService(store repository.Store, tokens *token.Maker) AuthService {
	return &authService{store: store, tokens: tokens}
}

func (s *authService) Register(username, password, email, role string) (*models.User, error) {
	if username == "" || password == "" || email == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "invalid data provided")
	}
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleAdmin && role != models.RoleCustomer {
		return nil, apperrors.New(apperrors.KindInvalidInput, "invalid role")
	}

	if _, err := s.store.Users().GetByUsername(username); err == nil {
		return nil, apperrors.New(apperrors.KindConflict, "username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.store.Users().GetByEmail(email); err == nil {
		return nil, apperrors.New(apperrors.KindConflict, "email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.store.Users().Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, apperrors.New(apperrors.KindInvalidInput, "invalid data provided")
	}

	user, err := s.store.Users().GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
	}

	accessToken, err := s.tokens.Create(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return accessToken, user, nil
}
