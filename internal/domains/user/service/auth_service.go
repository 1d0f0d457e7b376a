package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"blogcms-backend/internal/domains/user/model"
	"blogcms-backend/internal/domains/user/repository"
	"blogcms-backend/pkg/jwt"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
}

type AuthService struct {
	repo        repository.RepositoryInterface
	jwtManager  *jwt.Manager
	tokenExpiry time.Duration
}

func NewAuthService(repo repository.RepositoryInterface, jwtManager *jwt.Manager, tokenExpiry time.Duration) *AuthService {
	return &AuthService{
		repo:        repo,
		jwtManager:  jwtManager,
		tokenExpiry: tokenExpiry,
	}
}

// Login verifies credentials and issues an access token. Lookup and
// comparison failures collapse into the same error so responses never
// reveal whether an email exists.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn().Str("email", req.Email).Msg("Failed login attempt")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.tokenExpiry.Seconds()),
	}, nil
}
