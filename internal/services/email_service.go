package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/telconnect/telconnect/internal/models"
)

// SESNotifier emails the site mailbox when a new contact submission
// arrives. It satisfies the Notifier interface consumed by
// ContactService.
type SESNotifier struct {
	sesClient   *ses.Client
	fromAddress string
	toAddress   string
	siteName    string
	logger      *slog.Logger
}

// NewSESNotifier creates a new AWS SES notifier
func NewSESNotifier(region, fromAddress, toAddress, siteName string, logger *slog.Logger) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESNotifier{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		toAddress:   toAddress,
		siteName:    siteName,
		logger:      logger,
	}, nil
}

// NotifyNewContact sends a plain-text summary of the submission. The
// visitor's message is included verbatim; the mail client renders it as
// text, not markup.
func (n *SESNotifier) NotifyNewContact(ctx context.Context, contact *models.ContactSubmission) error {
	subject := fmt.Sprintf("[%s] New contact: %s", n.siteName, contact.Subject)

	body := fmt.Sprintf(
		"New contact form submission\n\nName: %s\nEmail: %s\nPhone: %s\nPlan interest: %s\nSubject: %s\n\n%s\n",
		contact.Name,
		contact.Email,
		stringOrEmpty(contact.Phone),
		stringOrEmpty(contact.PlanInterest),
		contact.Subject,
		contact.Message,
	)

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{n.toAddress},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
		ReplyToAddresses: []string{contact.Email},
	}

	if _, err := n.sesClient.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send contact notification: %w", err)
	}

	n.logger.Info("contact notification sent", slog.String("contact_id", contact.ID))
	return nil
}
