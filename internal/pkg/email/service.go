package email

import (
	"bytes"
	"context"
	"html/template"
	"sync"

	"github.com/rs/zerolog/log"
)

// Sender interface for sending emails
type Sender interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// Service handles email sending with templates
type Service struct {
	client       Sender
	templates    map[string]*template.Template
	baseTemplate *template.Template
	queue        chan *QueuedEmail
	wg           sync.WaitGroup
}

// QueuedEmail represents an email in the send queue
type QueuedEmail struct {
	To           string
	ToName       string
	Subject      string
	TemplateName string
	Data         interface{}
}

// NewService creates email service
func NewService(config SendGridConfig) *Service {
	return NewServiceWithSender(NewSendGridClient(config))
}

// NewServiceWithSender creates email service with a custom sender
func NewServiceWithSender(sender Sender) *Service {
	s := &Service{
		client:    sender,
		templates: make(map[string]*template.Template),
		queue:     make(chan *QueuedEmail, 100),
	}

	// Load base template
	s.baseTemplate, _ = template.New("base").Parse(BaseTemplate)

	s.loadTemplates()

	// Start async worker
	s.wg.Add(1)
	go s.worker()

	return s
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {
	templates := map[string]string{
		"welcome":           WelcomeTemplate,
		"booking_created":   BookingCreatedTemplate,
		"booking_confirmed": BookingConfirmedTemplate,
		"booking_canceled":  BookingCanceledTemplate,
		"payment_completed": PaymentCompletedTemplate,
	}

	for name, content := range templates {
		tmpl, err := template.New(name).Parse(content)
		if err != nil {
			log.Error().Err(err).Str("template", name).Msg("Failed to parse email template")
			continue
		}
		s.templates[name] = tmpl
	}
}

// worker processes queued emails asynchronously
func (s *Service) worker() {
	defer s.wg.Done()

	for email := range s.queue {
		ctx := context.Background()
		if err := s.send(ctx, email); err != nil {
			log.Error().Err(err).
				Str("to", email.To).
				Str("template", email.TemplateName).
				Msg("Failed to send email")
		}
	}
}

// send actually sends the email
func (s *Service) send(ctx context.Context, email *QueuedEmail) error {
	tmpl, ok := s.templates[email.TemplateName]
	if !ok {
		log.Warn().Str("template", email.TemplateName).Msg("Template not found")
		return nil
	}

	var contentBuf bytes.Buffer
	if err := tmpl.Execute(&contentBuf, email.Data); err != nil {
		return err
	}

	// Wrap in base template
	var htmlBuf bytes.Buffer
	if err := s.baseTemplate.Execute(&htmlBuf, map[string]interface{}{
		"Content": template.HTML(contentBuf.String()),
	}); err != nil {
		return err
	}

	return s.client.Send(ctx, &EmailMessage{
		To:          email.To,
		ToName:      email.ToName,
		Subject:     email.Subject,
		HTMLContent: htmlBuf.String(),
	})
}

// Queue adds an email to the async send queue
func (s *Service) Queue(to, toName, templateName, subject string, data interface{}) {
	select {
	case s.queue <- &QueuedEmail{
		To:           to,
		ToName:       toName,
		Subject:      subject,
		TemplateName: templateName,
		Data:         data,
	}:
	default:
		log.Warn().Str("to", to).Msg("Email queue full, dropping email")
	}
}

// SendSync sends an email synchronously (blocking)
func (s *Service) SendSync(ctx context.Context, to, toName, templateName, subject string, data interface{}) error {
	return s.send(ctx, &QueuedEmail{
		To:           to,
		ToName:       toName,
		Subject:      subject,
		TemplateName: templateName,
		Data:         data,
	})
}

// Close stops the email worker
func (s *Service) Close() {
	close(s.queue)
	s.wg.Wait()
}

// --- Convenience methods for specific emails ---

// SendWelcome sends welcome email to new user
func (s *Service) SendWelcome(to, toName, dashboardURL string) {
	s.Queue(to, toName, "welcome", "Welcome to Voyago!", map[string]string{
		"UserName":     toName,
		"DashboardURL": dashboardURL,
	})
}

// SendBookingCreated notifies the host about a new booking request
func (s *Service) SendBookingCreated(to, toName, guestName, listingTitle, startDate, endDate, totalPrice, bookingURL string, guests int) {
	s.Queue(to, toName, "booking_created", "New booking request for "+listingTitle, map[string]interface{}{
		"GuestName":    guestName,
		"ListingTitle": listingTitle,
		"StartDate":    startDate,
		"EndDate":      endDate,
		"Guests":       guests,
		"TotalPrice":   totalPrice,
		"BookingURL":   bookingURL,
	})
}

// SendBookingConfirmed notifies the guest their booking was confirmed
func (s *Service) SendBookingConfirmed(to, toName, listingTitle, startDate, endDate, totalPrice, bookingURL string) {
	s.Queue(to, toName, "booking_confirmed", "Booking confirmed: "+listingTitle, map[string]string{
		"ListingTitle": listingTitle,
		"StartDate":    startDate,
		"EndDate":      endDate,
		"TotalPrice":   totalPrice,
		"BookingURL":   bookingURL,
	})
}

// SendBookingCanceled notifies the guest their booking was canceled
func (s *Service) SendBookingCanceled(to, toName, listingTitle, startDate, endDate, listingsURL string) {
	s.Queue(to, toName, "booking_canceled", "Booking canceled: "+listingTitle, map[string]string{
		"ListingTitle": listingTitle,
		"StartDate":    startDate,
		"EndDate":      endDate,
		"ListingsURL":  listingsURL,
	})
}

// SendPaymentCompleted confirms a successful payment
func (s *Service) SendPaymentCompleted(to, toName, listingTitle, amount, txRef, startDate, endDate, bookingURL string) {
	s.Queue(to, toName, "payment_completed", "Payment received for "+listingTitle, map[string]string{
		"ListingTitle": listingTitle,
		"Amount":       amount,
		"TxRef":        txRef,
		"StartDate":    startDate,
		"EndDate":      endDate,
		"BookingURL":   bookingURL,
	})
}
