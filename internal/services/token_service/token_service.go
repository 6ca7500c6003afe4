package services

import (
	"context"
	"errors"
	"time"

	"everafter/internal/domain/models"
	libjwt "everafter/internal/lib/jwt"
	"everafter/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidTokenClaims = errors.New("invalid token claims")
	ErrTokenNotInStorage  = errors.New("token not found in storage")
)

const (
	AccessTokenExpire  = 15 * time.Minute
	RefreshTokenExpire = 7 * 24 * time.Hour
)

type TokenService struct {
	repo      repository.TokenRepository
	secret    string
	accessTTL time.Duration
}

// NewTokenService builds a service issuing access tokens with the given
// TTL; a zero accessTTL falls back to AccessTokenExpire.
func NewTokenService(repo repository.TokenRepository, secret string, accessTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = AccessTokenExpire
	}
	return &TokenService{repo: repo, secret: secret, accessTTL: accessTTL}
}

func (s *TokenService) GenerateTokens(user models.User) (*models.TokenPair, error) {
	accessToken, err := libjwt.NewToken(user, s.secret, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := libjwt.NewToken(user, s.secret, RefreshTokenExpire)
	if err != nil {
		return nil, err
	}

	err = s.repo.SaveRefreshToken(context.Background(), user.ID.String(), refreshToken, RefreshTokenExpire)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens rotates a refresh token: the presented token is validated
// against storage, deleted, and a fresh pair is issued.
func (s *TokenService) RefreshTokens(refreshToken string) (*models.TokenPair, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(refreshToken, jwt.MapClaims{})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["uid"].(string)
	if !ok {
		return nil, ErrInvalidTokenClaims
	}

	exists, err := s.repo.GetRefreshToken(context.Background(), userID, refreshToken)
	if err != nil || !exists {
		return nil, ErrInvalidToken
	}

	if err := s.repo.DeleteRefreshToken(context.Background(), userID, refreshToken); err != nil {
		return nil, err
	}

	email, _ := claims["email"].(string)

	user := models.User{
		ID:    uuid.MustParse(userID),
		Email: email,
	}

	return s.GenerateTokens(user)
}

// SignOut revokes every refresh token the user holds.
func (s *TokenService) SignOut(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteAllUserTokens(ctx, userID.String())
}
