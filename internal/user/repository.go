package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"contactbook/internal/database"
)

var ErrNotFound = errors.New("user not found")

// Repository is the account store the auth layer depends on.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	// UpdateRefreshToken overwrites the stored refresh credential.
	// Pass nil to clear it (logout).
	UpdateRefreshToken(ctx context.Context, u *User, token *string) error
	ConfirmEmail(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, email, url string) (*User, error)
}

type gormRepository struct {
	db *database.Database
}

func NewRepository(db *database.Database) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

func (r *gormRepository) Create(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *gormRepository) UpdateRefreshToken(ctx context.Context, u *User, token *string) error {
	if err := r.db.WithContext(ctx).Model(u).Update("refresh_token", token).Error; err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	u.RefreshToken = token
	return nil
}

func (r *gormRepository) ConfirmEmail(ctx context.Context, email string) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Update("confirmed", true)
	if res.Error != nil {
		return fmt.Errorf("failed to confirm email: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) UpdateAvatar(ctx context.Context, email, url string) (*User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(u).Update("avatar", url).Error; err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	u.Avatar = &url
	return u, nil
}
