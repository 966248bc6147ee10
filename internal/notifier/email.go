package notifier

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/mfalcon/shop-api/internal/config"
	"github.com/mfalcon/shop-api/internal/models"
)

// EmailNotifier sends order emails through AWS SES. Customers without an
// email address are skipped silently.
type EmailNotifier struct {
	cfg config.NotifyConfig
}

func NewEmailNotifier(cfg config.NotifyConfig) *EmailNotifier { return &EmailNotifier{cfg: cfg} }

func (n *EmailNotifier) client(ctx context.Context) (*ses.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(n.cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(n.cfg.AWSAccessKeyID, n.cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	return ses.NewFromConfig(awsCfg), nil
}

func (n *EmailNotifier) OrderPlaced(ctx context.Context, c models.Customer, o models.Order, associated int) error {
	subject := fmt.Sprintf("Order #%d received", o.ID)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour order #%d of %s has been placed with %d product(s). Current status: %s.\n",
		c.Name, o.ID, o.Date.Format("2006-01-02"), associated, o.Status)
	return n.send(ctx, c, o.ID, subject, body)
}

func (n *EmailNotifier) OrderStatusChanged(ctx context.Context, c models.Customer, o models.Order) error {
	subject := fmt.Sprintf("Order #%d update", o.ID)
	body := fmt.Sprintf("Dear %s,\n\nYour order #%d is now %q.\n", c.Name, o.ID, o.Status)
	return n.send(ctx, c, o.ID, subject, body)
}

func (n *EmailNotifier) send(ctx context.Context, c models.Customer, orderID uint, subject, body string) error {
	if n.cfg.SenderEmail == "" {
		return fmt.Errorf("sender email address is not configured")
	}
	if c.Email == "" {
		return nil
	}
	client, err := n.client(ctx)
	if err != nil {
		log.Printf("notifier: aws config for order %d: %v", orderID, err)
		return err
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(n.cfg.SenderEmail),
		Destination: &types.Destination{ToAddresses: []string{c.Email}},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(body)},
			},
		},
	}
	if _, err := client.SendEmail(ctx, input); err != nil {
		log.Printf("notifier: send email for order %d to %s: %v", orderID, c.Email, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// FromConfig picks the SES notifier when enabled, otherwise the log sink.
func FromConfig(cfg config.NotifyConfig) Notifier {
	if cfg.Enabled && cfg.SenderEmail != "" {
		return NewEmailNotifier(cfg)
	}
	return LogNotifier{}
}
