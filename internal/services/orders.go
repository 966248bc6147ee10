package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mfalcon/shop-api/internal/models"
	"github.com/mfalcon/shop-api/internal/notifier"
	"github.com/mfalcon/shop-api/internal/store"
)

// ErrStatusRequired rejects an empty status string on a transition request.
var ErrStatusRequired = errors.New("missing_status")

const retryAttempts = 3

// OrderService owns the order placement and status-transition workflow.
// Placement spans two logical writes (header, then the product associations);
// both run inside a single transaction so a crash can never leave one without
// the other. Product ids that do not resolve are skipped, not fatal: the
// header persists even when nothing resolves, and the result reports what was
// dropped.
type OrderService struct {
	DB       *gorm.DB
	Notifier notifier.Notifier
	Timeout  time.Duration
}

func NewOrderService(db *gorm.DB, n notifier.Notifier, timeout time.Duration) *OrderService {
	return &OrderService{DB: db, Notifier: n, Timeout: timeout}
}

type PlaceInput struct {
	CustomerID uint
	Date       time.Time
	ProductIDs []uint
	Status     string
}

// PlaceResult reports the committed order together with the outcome of the
// association step, so the skip policy stays observable to the caller.
type PlaceResult struct {
	Order      models.Order
	Requested  int
	Associated int
	SkippedIDs []uint
}

func (s *OrderService) Place(ctx context.Context, in PlaceInput) (*PlaceResult, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	// The association is a set: collapse duplicate ids up front.
	ids := dedupe(in.ProductIDs)

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = models.StatusPending
	}

	var customer models.Customer
	res := &PlaceResult{Requested: len(in.ProductIDs)}
	err := store.Retry(ctx, retryAttempts, func() error {
		res.Order = models.Order{}
		return store.Classify(s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Reject unresolvable customer references before writing anything.
			if err := tx.First(&customer, in.CustomerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return store.ErrInvalidReference
				}
				return err
			}
			order := models.Order{Date: in.Date, Status: status, CustomerID: in.CustomerID}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			var products []models.Product
			if len(ids) > 0 {
				if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
					return err
				}
				if len(products) > 0 {
					if err := tx.Model(&order).Association("Products").Append(&products); err != nil {
						return err
					}
				}
			}
			order.Products = products
			res.Order = order
			res.Associated = len(products)
			res.SkippedIDs = missing(ids, products)
			return nil
		}))
	})
	if err != nil {
		return nil, err
	}
	s.notify(func(n notifier.Notifier) error {
		return n.OrderPlaced(context.Background(), customer, res.Order, res.Associated)
	})
	return res, nil
}

// UpdateStatus overwrites the status unconditionally; any non-empty string is
// a legal state and there is no transition graph to consult.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if strings.TrimSpace(status) == "" {
		return nil, ErrStatusRequired
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var order models.Order
	var customer models.Customer
	err := store.Retry(ctx, retryAttempts, func() error {
		return store.Classify(s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&order, id).Error; err != nil {
				return err
			}
			if err := tx.Model(&order).Update("status", status).Error; err != nil {
				return err
			}
			return tx.First(&customer, order.CustomerID).Error
		}))
	})
	if err != nil {
		return nil, err
	}
	s.notify(func(n notifier.Notifier) error {
		return n.OrderStatusChanged(context.Background(), customer, order)
	})
	return &order, nil
}

// Delete removes the order and its association rows in one transaction so no
// dangling (order_id, product_id) links survive.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	return store.Retry(ctx, retryAttempts, func() error {
		return store.Classify(s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var order models.Order
			if err := tx.First(&order, id).Error; err != nil {
				return err
			}
			if err := tx.Model(&order).Association("Products").Clear(); err != nil {
				return err
			}
			return tx.Delete(&order).Error
		}))
	})
}

// Get loads one order with its association set resolved.
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var order models.Order
	if err := s.DB.WithContext(ctx).Preload("Products").First(&order, id).Error; err != nil {
		return nil, store.Classify(err)
	}
	return &order, nil
}

// List returns all orders, association sets included, in stable id order.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var orders []models.Order
	if err := s.DB.WithContext(ctx).Preload("Products").Order("id").Find(&orders).Error; err != nil {
		return nil, store.Classify(err)
	}
	return orders, nil
}

func (s *OrderService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout > 0 {
		return context.WithTimeout(ctx, s.Timeout)
	}
	return ctx, func() {}
}

// notify fires after commit and never blocks or fails the workflow.
func (s *OrderService) notify(fn func(notifier.Notifier) error) {
	if s.Notifier == nil {
		return
	}
	n := s.Notifier
	go func() {
		if err := fn(n); err != nil {
			log.Printf("order notification failed: %v", err)
		}
	}()
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missing(requested []uint, found []models.Product) []uint {
	have := make(map[uint]struct{}, len(found))
	for _, p := range found {
		have[p.ID] = struct{}{}
	}
	var out []uint
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
