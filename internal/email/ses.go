package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESSender sends mail through Amazon SES.
type SESSender struct {
	client *ses.Client
	from   string
}

// NewSES constructs an SES-backed sender using the ambient AWS credential
// chain.
func NewSES(ctx context.Context, region, from string) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESSender{client: ses.NewFromConfig(cfg), from: from}, nil
}

// SendDeadlineReminder mails a deadline warning for one scholarship.
func (s *SESSender) SendDeadlineReminder(ctx context.Context, to, studentName, scholarshipName string, daysLeft int) error {
	subject := fmt.Sprintf("Scholarship Deadline Reminder - %s", scholarshipName)
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Scholarship Deadline Reminder</h2>
  <p>Dear %s,</p>
  <p>This is a reminder that the application deadline for <strong>%s</strong> is approaching.</p>
  <div style="background-color: #fff3cd; border: 1px solid #ffeaa7; padding: 15px; margin: 20px 0; border-radius: 5px;">
    <strong>%d days remaining</strong>
  </div>
  <p>Don't miss out on this opportunity! Submit your application before the deadline.</p>
  <p>Best regards,<br>Scholar Hub Team</p>
</div>`, studentName, scholarshipName, daysLeft)
	return s.send(ctx, to, subject, body)
}

// SendNewScholarshipAlert mails an alert about a newly listed scholarship.
func (s *SESSender) SendNewScholarshipAlert(ctx context.Context, to, studentName, scholarshipName string) error {
	subject := fmt.Sprintf("New Scholarship Available - %s", scholarshipName)
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>New Scholarship Available</h2>
  <p>Dear %s,</p>
  <p>A new scholarship <strong>%s</strong> has been added that may interest you.</p>
  <p>Log in to your account to review the requirements and apply.</p>
  <p>Best regards,<br>Scholar Hub Team</p>
</div>`, studentName, scholarshipName)
	return s.send(ctx, to, subject, body)
}

// SendApplicationStatus mails a status change for one application.
func (s *SESSender) SendApplicationStatus(ctx context.Context, to, studentName, scholarshipName, status string) error {
	subject := fmt.Sprintf("Application Status Update - %s", scholarshipName)
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Application Status Update</h2>
  <p>Dear %s,</p>
  <p>Your application for the scholarship <strong>%s</strong> has been updated.</p>
  <div style="background-color: #f0f0f0; padding: 15px; margin: 20px 0; border-radius: 5px;">
    <strong>Status: %s</strong>
  </div>
  <p>Please log in to your account to view more details about your application.</p>
  <p>Best regards,<br>Scholar Hub Team</p>
</div>`, studentName, scholarshipName, status)
	return s.send(ctx, to, subject, body)
}

func (s *SESSender) send(ctx context.Context, to, subject, htmlBody string) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
			},
		},
	})
	return err
}

var _ Sender = (*SESSender)(nil)
