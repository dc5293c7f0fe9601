package database

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/example/bazaar/internal/identity"
	"github.com/example/bazaar/internal/models"
)

// AccountStore is the gorm-backed identity.Store. Email uniqueness
// rides on the unique index; gorm's translated duplicate-key error is
// surfaced as identity.ErrDuplicateEmail.
type AccountStore struct {
	db *gorm.DB
}

// NewAccountStore constructs an AccountStore.
func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *AccountStore) FindActiveByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND archived = ?", email, false).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *AccountStore) FindByLiveResetToken(token string, now time.Time) (*models.User, error) {
	var user models.User
	err := s.db.Where("reset_token = ? AND reset_expires_at > ?", token, now).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *AccountStore) Create(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (s *AccountStore) Save(user *models.User) error {
	if err := s.db.Save(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return identity.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return identity.ErrDuplicateEmail
	default:
		return err
	}
}
