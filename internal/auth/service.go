package auth

import (
	"context"
	"errors"

	"contactbook/internal/user"
)

// TokenPair is the wire shape returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Service orchestrates signup, login, refresh rotation and logout over
// the account store. An account holds at most one valid refresh token;
// every successful login or refresh overwrites it, which revokes all
// previously issued refresh tokens. Already-issued access tokens stay
// valid until their natural expiry.
type Service struct {
	users user.Repository
	codec *Codec
}

func NewService(users user.Repository, codec *Codec) *Service {
	return &Service{users: users, codec: codec}
}

// Signup creates an unconfirmed account. Sending the confirmation email
// is the caller's job.
func (s *Service) Signup(ctx context.Context, username, email, password string) (*user.User, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrAccountExists
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	digest, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Username: username,
		Email:    email,
		Password: digest,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a fresh token pair. An unknown
// email and a wrong password both come back as ErrInvalidCredentials;
// an existing but unconfirmed account gets ErrEmailNotConfirmed.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.Confirmed {
		return nil, ErrEmailNotConfirmed
	}

	ok, err := VerifyPassword(u.Password, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(ctx, u)
}

// Refresh rotates a presented refresh token. The token must verify, its
// subject must exist, and it must textually equal the stored refresh
// token; a stale token that lost a rotation race fails the equality
// check even though its signature is still good.
func (s *Service) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	email, err := s.codec.Decode(presented, TokenRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if u.RefreshToken == nil || *u.RefreshToken != presented {
		return nil, ErrInvalidRefreshToken
	}

	return s.issuePair(ctx, u)
}

// Logout clears the stored refresh token so no further refresh succeeds.
func (s *Service) Logout(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.users.UpdateRefreshToken(ctx, u, nil)
}

func (s *Service) issuePair(ctx context.Context, u *user.User) (*TokenPair, error) {
	access, err := s.codec.Issue(TokenAccess, u.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.Issue(TokenRefresh, u.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateRefreshToken(ctx, u, &refresh); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
