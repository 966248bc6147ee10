package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mfalcon/shop-api/internal/models"
	"github.com/mfalcon/shop-api/internal/store"
)

// AccountService creates and updates login accounts. The password is hashed
// with bcrypt before it ever reaches the store; the optional customer link is
// checked against an existing customer.
type AccountService struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func NewAccountService(db *gorm.DB, timeout time.Duration) *AccountService {
	return &AccountService{DB: db, Timeout: timeout}
}

type AccountInput struct {
	Username   string
	Password   string
	CustomerID *uint
}

func (s *AccountService) Create(ctx context.Context, in AccountInput) (*models.CustomerAccount, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	account := models.CustomerAccount{Username: in.Username, Password: string(hash), CustomerID: in.CustomerID}
	err = store.Retry(ctx, retryAttempts, func() error {
		account.ID = 0
		return store.Classify(s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.checkCustomerLink(tx, in.CustomerID); err != nil {
				return err
			}
			return tx.Create(&account).Error
		}))
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Update replaces the editable fields wholesale, re-hashing the password.
func (s *AccountService) Update(ctx context.Context, id uint, in AccountInput) (*models.CustomerAccount, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	var account models.CustomerAccount
	err = store.Retry(ctx, retryAttempts, func() error {
		return store.Classify(s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&account, id).Error; err != nil {
				return err
			}
			if err := s.checkCustomerLink(tx, in.CustomerID); err != nil {
				return err
			}
			account.Username = in.Username
			account.Password = string(hash)
			account.CustomerID = in.CustomerID
			return tx.Save(&account).Error
		}))
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountService) checkCustomerLink(tx *gorm.DB, customerID *uint) error {
	if customerID == nil {
		return nil
	}
	var customer models.Customer
	if err := tx.Select("id").First(&customer, *customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return store.ErrInvalidReference
		}
		return err
	}
	return nil
}

func (s *AccountService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout > 0 {
		return context.WithTimeout(ctx, s.Timeout)
	}
	return ctx, func() {}
}
