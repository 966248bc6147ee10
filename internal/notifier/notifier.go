package notifier

import (
	"context"
	"log"

	"github.com/mfalcon/shop-api/internal/models"
)

// Notifier is told about order events after they committed. Implementations
// must not fail the triggering operation; errors are theirs to log.
type Notifier interface {
	OrderPlaced(ctx context.Context, customer models.Customer, order models.Order, associated int) error
	OrderStatusChanged(ctx context.Context, customer models.Customer, order models.Order) error
}

// LogNotifier is the default sink when no email delivery is configured.
type LogNotifier struct{}

func (LogNotifier) OrderPlaced(_ context.Context, c models.Customer, o models.Order, associated int) error {
	log.Printf("order %d placed for customer %d (%s), %d product(s) associated", o.ID, c.ID, c.Name, associated)
	return nil
}

func (LogNotifier) OrderStatusChanged(_ context.Context, c models.Customer, o models.Order) error {
	log.Printf("order %d for customer %d now %q", o.ID, c.ID, o.Status)
	return nil
}
