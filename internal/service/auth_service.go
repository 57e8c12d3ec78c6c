package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/jwt"
	"go-inventory-api/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("email atau password salah")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrTokenExpired       = errors.New("token has expired")
)

type AuthService interface {
	Register(req RegisterRequest) (*model.User, error)
	Login(req LoginRequest) (*LoginResult, error)
	Logout(tokenID uuid.UUID) error
	Me(userID uint) (*model.User, error)
	Authenticate(tokenString string) (*Principal, error)
	SeedAdmin(name, email, password string) (bool, error)
	PurgeExpiredTokens() (int64, error)
}

type RegisterRequest struct {
	Name                 string `json:"name" validate:"notblank,max=255"`
	Email                string `json:"email" validate:"notblank,email,max=255"`
	Password             string `json:"password" validate:"required,min=4"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      model.UserResponse `json:"user"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	User    *model.User
	TokenID uuid.UUID
}

func (p *Principal) Actor() Actor {
	if p == nil || p.User == nil {
		return Actor{}
	}
	return Actor{ID: p.User.ID, Name: p.User.Name, Email: p.User.Email}
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwt       *jwt.Manager
	log       *zap.Logger
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, manager *jwt.Manager, log *zap.Logger) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwt:       manager,
		log:       log,
		now:       time.Now,
	}
}

func (s *authService) Register(req RegisterRequest) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	errs := validator.ValidateStruct(&req)
	if errs == nil {
		errs = validator.Errors{}
	}
	if req.Email != "" {
		if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
			errs.Add("email", "email sudah terdaftar.")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if err := newValidationError(errs); err != nil {
		return nil, err
	}

	user := &model.User{
		Name:  strings.TrimSpace(req.Name),
		Email: req.Email,
		Role:  model.RoleUser,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

func (s *authService) Login(req LoginRequest) (*LoginResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := newValidationError(validator.ValidateStruct(&req)); err != nil {
		return nil, err
	}

	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Persist the access token first so its id can be the jti
	token := &model.PersonalAccessToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Name:      "auth_token",
		ExpiresAt: s.now().Add(s.jwt.TTL()),
	}

	signed, expiresAt, err := s.jwt.GenerateToken(token.ID.String(), user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}
	token.ExpiresAt = expiresAt

	if err := s.tokenRepo.Create(token); err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("token_id", token.ID.String()))

	return &LoginResult{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      user.ToResponse(),
	}, nil
}

func (s *authService) Logout(tokenID uuid.UUID) error {
	if err := s.tokenRepo.Delete(tokenID); err != nil {
		return err
	}
	s.log.Info("token revoked", zap.String("token_id", tokenID.String()))
	return nil
}

func (s *authService) Me(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return user, nil
}

// Authenticate accepts a bearer token only while its access token row exists and is unexpired.
func (s *authService) Authenticate(tokenString string) (*Principal, error) {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}

	token, err := s.tokenRepo.FindByID(tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenRevoked
		}
		return nil, err
	}

	now := s.now()
	if token.Expired(now) {
		return nil, ErrTokenExpired
	}
	if token.UserID != claims.UserID || token.User == nil {
		return nil, jwt.ErrInvalidToken
	}

	if err := s.tokenRepo.Touch(token.ID, now); err != nil {
		s.log.Warn("failed to touch access token", zap.Error(err))
	}

	return &Principal{User: token.User, TokenID: token.ID}, nil
}

// SeedAdmin creates the administrator account when no user owns email yet.
func (s *authService) SeedAdmin(name, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	admin := &model.User{Name: name, Email: email, Role: model.RoleAdmin}
	if err := admin.SetPassword(password); err != nil {
		return false, err
	}
	if err := s.userRepo.Create(admin); err != nil {
		return false, err
	}

	s.log.Info("admin user created", zap.String("email", email))
	return true, nil
}

func (s *authService) PurgeExpiredTokens() (int64, error) {
	return s.tokenRepo.PurgeExpired(s.now())
}
