package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"contactbook/internal/database"
)

var ErrNotFound = errors.New("contact not found")

// UpdateParams carries the partially updatable fields. Nil means keep
// the current value.
type UpdateParams struct {
	Email *string
	Phone *string
}

type Repository interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Contact, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Contact, error)
	Search(ctx context.Context, userID uuid.UUID, name, surname, email string) (*Contact, error)
	Create(ctx context.Context, c *Contact) error
	Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Contact, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (*Contact, error)
	UpcomingBirthdays(ctx context.Context, userID uuid.UUID) ([]Contact, error)
}

type gormRepository struct {
	db *database.Database
}

func NewRepository(db *database.Database) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Contact, error) {
	var contacts []Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(limit).
		Offset(offset).
		Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (r *gormRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*Contact, error) {
	var c Contact
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &c, nil
}

// Search matches case-insensitive substrings on name, surname and email.
// Empty filters are skipped.
func (r *gormRepository) Search(ctx context.Context, userID uuid.UUID, name, surname, email string) (*Contact, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if name != "" {
		q = q.Where("name ILIKE ?", "%"+name+"%")
	}
	if surname != "" {
		q = q.Where("surname ILIKE ?", "%"+surname+"%")
	}
	if email != "" {
		q = q.Where("email ILIKE ?", "%"+email+"%")
	}

	var c Contact
	if err := q.First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return &c, nil
}

func (r *gormRepository) Create(ctx context.Context, c *Contact) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *gormRepository) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Contact, error) {
	updates := map[string]any{}
	if params.Email != nil {
		updates["email"] = *params.Email
	}
	if params.Phone != nil {
		updates["phone"] = *params.Phone
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&Contact{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update contact: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	var c Contact
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to reload contact: %w", err)
	}
	return &c, nil
}

func (r *gormRepository) Delete(ctx context.Context, userID, id uuid.UUID) (*Contact, error) {
	var c Contact
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}
	if err := r.db.WithContext(ctx).Delete(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to delete contact: %w", err)
	}
	return &c, nil
}

// UpcomingBirthdays returns the contacts whose birthday falls within the
// next seven days, comparing month and day only.
func (r *gormRepository) UpcomingBirthdays(ctx context.Context, userID uuid.UUID) ([]Contact, error) {
	today := time.Now()
	nextWeek := today.AddDate(0, 0, 7)

	var contacts []Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(`(EXTRACT(MONTH FROM birthday) = ? AND EXTRACT(DAY FROM birthday) >= ?)
			OR (EXTRACT(MONTH FROM birthday) = ? AND EXTRACT(DAY FROM birthday) <= ?)
			OR (EXTRACT(MONTH FROM birthday) > ? AND EXTRACT(MONTH FROM birthday) < ?)`,
			int(today.Month()), today.Day(),
			int(nextWeek.Month()), nextWeek.Day(),
			int(today.Month()), int(nextWeek.Month())).
		Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming birthdays: %w", err)
	}
	return contacts, nil
}
