package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/BradenHooton/roomgate/internal/models"
	pkglogger "github.com/BradenHooton/roomgate/pkg/logger"
)

// SESClient is the part of the SES API used to send mail
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESApplicationNotifier emails applicants the outcome of their administrator application
type SESApplicationNotifier struct {
	sesClient   SESClient
	fromAddress string
	logger      *slog.Logger
}

// NewSESApplicationNotifier creates a notifier backed by the default AWS credential chain
func NewSESApplicationNotifier(ctx context.Context, region, fromAddress string, logger *slog.Logger) (*SESApplicationNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSESApplicationNotifierWithClient(ses.NewFromConfig(cfg), fromAddress, logger), nil
}

// NewSESApplicationNotifierWithClient creates a notifier around an existing client
func NewSESApplicationNotifierWithClient(client SESClient, fromAddress string, logger *slog.Logger) *SESApplicationNotifier {
	return &SESApplicationNotifier{
		sesClient:   client,
		fromAddress: fromAddress,
		logger:      logger,
	}
}

// NotifyApplicationDecision sends the approved or rejected message to applicant
func (n *SESApplicationNotifier) NotifyApplicationDecision(ctx context.Context, applicant *models.Administrator, approved bool) error {
	subject, textBody := applicationDecisionMessage(applicant, approved)

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{applicant.Contact.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := n.sesClient.SendEmail(ctx, input)
	if err != nil {
		n.logger.Error("failed to send application decision via SES",
			slog.String("email", pkglogger.SanitizedEmail(applicant.Contact.Email)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	messageID := ""
	if result != nil && result.MessageId != nil {
		messageID = *result.MessageId
	}
	n.logger.Info("application decision email sent",
		slog.String("email", pkglogger.SanitizedEmail(applicant.Contact.Email)),
		slog.Bool("approved", approved),
		slog.String("message_id", messageID))

	return nil
}

func applicationDecisionMessage(applicant *models.Administrator, approved bool) (subject, body string) {
	if approved {
		return "Your administrator application was approved",
			fmt.Sprintf(`Hello %s,

Your application for an administrator account has been approved.
You can now sign in with the email and password you applied with.

This is an automated message. Please do not reply to this email.
`, applicant.Name)
	}

	return "Your administrator application was not approved",
		fmt.Sprintf(`Hello %s,

Your application for an administrator account was reviewed and not approved.
If you believe this is a mistake, please contact an existing administrator.

This is an automated message. Please do not reply to this email.
`, applicant.Name)
}
