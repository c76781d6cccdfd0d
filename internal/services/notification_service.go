package services

import (
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/wey-codes/haulpro-crm/internal/config"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

/*
NotificationService fans job events out over SMS (Twilio) and email
(SendGrid). Either client may be nil, in which case that channel is
logged and skipped, so local dev and tests need no credentials.
*/
type NotificationService struct {
	cfg            *config.Config
	twilioClient   *twilio.RestClient
	sendgridClient *sendgrid.Client
}

func NewNotificationService(
	cfg *config.Config,
	twilioClient *twilio.RestClient,
	sendgridClient *sendgrid.Client,
) *NotificationService {
	return &NotificationService{
		cfg:            cfg,
		twilioClient:   twilioClient,
		sendgridClient: sendgridClient,
	}
}

// BroadcastJobToSubs texts every active sub when a job is dispatched.
func (s *NotificationService) BroadcastJobToSubs(job *models.Job, pkg *models.Package, subs []*models.Subcontractor) {
	body := fmt.Sprintf(
		"New job available: %s on %s at %s. Payout: $%.2f. Reply or open the app to claim.",
		pkg.Name,
		job.ScheduledDate.Format("Mon Jan 2"),
		job.AddressLine1,
		float64(pkg.SubPayoutCents)/100,
	)
	for _, sub := range subs {
		if sub.Status != models.SubStatusActive {
			continue
		}
		s.sendSMS(sub.Phone, body)
	}
}

// ConfirmAssignment texts the assigned sub their job details.
func (s *NotificationService) ConfirmAssignment(job *models.Job, sub *models.Subcontractor) {
	body := fmt.Sprintf(
		"You're confirmed for %s at %s. Customer: %s (%s).",
		job.ScheduledDate.Format("Mon Jan 2"),
		job.AddressLine1,
		job.CustomerName,
		job.CustomerPhone,
	)
	s.sendSMS(sub.Phone, body)
}

// EscalateUnclaimedJobs emails the account owner a digest of dispatched jobs
// nobody has claimed.
func (s *NotificationService) EscalateUnclaimedJobs(account *models.Account, jobs []*models.Job) {
	if len(jobs) == 0 {
		return
	}
	if account.Email == nil {
		utils.Logger.Warnf("Account %s has no owner email, cannot escalate unclaimed jobs", account.ID)
		return
	}

	var lines strings.Builder
	for _, j := range jobs {
		fmt.Fprintf(&lines, "- %s, %s (dispatched %s)\n",
			j.CustomerName,
			j.AddressLine1,
			j.DispatchSentAt.Format("Jan 2 15:04"),
		)
	}
	subject := fmt.Sprintf("%d unclaimed job(s) need attention", len(jobs))
	plainText := "These dispatched jobs have no sub assigned:\n\n" + lines.String()

	s.sendEmail(account.CompanyName, *account.Email, subject, plainText)
}

func (s *NotificationService) sendSMS(to string, body string) {
	if s.twilioClient == nil {
		utils.Logger.Warnf("Twilio client is nil, skipping SMS to %s", to)
		return
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.cfg.LDFlag_TwilioFromPhone)
	params.SetBody(body)
	if _, err := s.twilioClient.Api.CreateMessage(params); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to send SMS to %s", to)
	}
}

func (s *NotificationService) sendEmail(toName string, toAddr string, subject string, plainText string) {
	if s.sendgridClient == nil {
		utils.Logger.Warnf("SendGrid client is nil, skipping email to %s", toAddr)
		return
	}
	from := mail.NewEmail("HaulPro", s.cfg.LDFlag_SendgridFromEmail)
	to := mail.NewEmail(toName, toAddr)
	htmlBody := "<pre>" + plainText + "</pre>"
	msg := mail.NewSingleEmail(from, subject, to, plainText, htmlBody)
	msg.TrackingSettings = &mail.TrackingSettings{
		ClickTracking: &mail.ClickTrackingSetting{
			Enable: utils.Ptr(false),
		},
	}
	if s.cfg.LDFlag_SendgridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}
	if _, err := s.sendgridClient.Send(msg); err != nil {
		utils.Logger.WithError(err).Warnf("Email send failure to %s", toAddr)
	}
}
