// Package notify sends owner notifications for storefront events.
package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/trade"
	"github.com/prakruthi/storefront/internal/infrastructure/config"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Message is a rendered notification
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a rendered message to the store owner
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender delivers messages through the SendGrid v3 API
type SendGridSender struct {
	client mailClient
	from   *mail.Email
	to     *mail.Email
	logger *zap.Logger
}

// NewSendGridSender creates a sender from notification settings
func NewSendGridSender(cfg config.NotifyConfig, logger *zap.Logger) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		to:     mail.NewEmail("", cfg.ToEmail),
		logger: logger,
	}
}

// Send sends one email. Any 4xx/5xx answer is an error.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	message := mail.NewSingleEmail(s.from, msg.Subject, s.to, msg.Text, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Warn("sendgrid rejected message",
			zap.Int("status_code", response.StatusCode),
			zap.String("body", response.Body),
		)
		return fmt.Errorf("sendgrid send: status code %d", response.StatusCode)
	}

	s.logger.Debug("notification sent", zap.String("subject", msg.Subject), zap.Int("status_code", response.StatusCode))
	return nil
}

// NoopSender logs and drops messages
type NoopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a sender that only logs
func NewNoopSender(logger *zap.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

// Send logs the subject
func (s *NoopSender) Send(ctx context.Context, msg Message) error {
	s.logger.Debug("notification suppressed", zap.String("subject", msg.Subject))
	return nil
}

// NewSender returns a SendGrid sender when notifications are enabled, otherwise a no-op sender
func NewSender(cfg config.NotifyConfig, logger *zap.Logger) Sender {
	if !cfg.Enabled {
		return NewNoopSender(logger)
	}
	return NewSendGridSender(cfg, logger)
}

// OrderNotifier emails the owner when an order is placed or cancelled
type OrderNotifier struct {
	sender    Sender
	storeName func(ctx context.Context) string
}

// NewOrderNotifier creates the handler. storeName resolves the storefront title for
// subject lines; nil means "Store".
func NewOrderNotifier(sender Sender, storeName func(ctx context.Context) string) *OrderNotifier {
	if storeName == nil {
		storeName = func(context.Context) string { return "Store" }
	}
	return &OrderNotifier{sender: sender, storeName: storeName}
}

// EventTypes implements shared.EventHandler
func (n *OrderNotifier) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced, trade.EventTypeOrderStatusChanged}
}

// Handle implements shared.EventHandler
func (n *OrderNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		return n.sender.Send(ctx, orderPlacedMessage(n.storeName(ctx), e))
	case *trade.OrderStatusChangedEvent:
		if e.To != trade.OrderStatusCancelled {
			return nil
		}
		return n.sender.Send(ctx, orderCancelledMessage(n.storeName(ctx), e))
	}
	return nil
}

func orderPlacedMessage(store string, e *trade.OrderPlacedEvent) Message {
	ref := shortRef(e.OrderID.String())
	text := fmt.Sprintf("%s placed order %s: %d item(s), total %s.", e.CustomerName, ref, e.ItemCount, e.Total)
	return Message{
		Subject: fmt.Sprintf("[%s] New order from %s", store, e.CustomerName),
		Text:    text,
		HTML:    "<p>" + html.EscapeString(text) + "</p>",
	}
}

func orderCancelledMessage(store string, e *trade.OrderStatusChangedEvent) Message {
	ref := shortRef(e.OrderID.String())
	text := fmt.Sprintf("Order %s was cancelled.", ref)
	return Message{
		Subject: fmt.Sprintf("[%s] Order %s cancelled", store, ref),
		Text:    text,
		HTML:    "<p>" + html.EscapeString(text) + "</p>",
	}
}

// shortRef returns the first 8 characters of an id, the reference shown to staff
func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var _ shared.EventHandler = (*OrderNotifier)(nil)
