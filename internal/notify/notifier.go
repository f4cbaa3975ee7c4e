// Package notify delivers scan alerts to configured channels: SMTP email,
// Telegram, and Discord webhooks. Senders are isolated from each other and
// from the scan: a delivery failure is reported to the caller but never
// invalidates the computed opportunity list.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/arbscan/internal/domain"
	"github.com/alanyoungcy/arbscan/internal/session"
)

// Sender is one delivery channel.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns the channel identifier (e.g. "telegram").
	Name() string
}

// Notifier dispatches a notification to every registered sender, collecting
// per-sender failures into one combined error.
type Notifier struct {
	senders []Sender
	logger  *slog.Logger
}

// NewNotifier creates a Notifier over the given senders.
func NewNotifier(senders []Sender, logger *slog.Logger) *Notifier {
	return &Notifier{
		senders: senders,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Notify sends to all senders. A single sender failure does not prevent
// delivery to the remaining senders.
func (n *Notifier) Notify(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent",
			slog.String("sender", s.Name()),
			slog.String("title", title),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// AlertSink adapts the Notifier to the scanner's sink interface: each
// non-empty scan becomes one alert message summarizing the top findings.
type AlertSink struct {
	notifier *Notifier
	sess     *session.Session
	// MaxListed bounds how many opportunities appear in the message body.
	MaxListed int
}

// NewAlertSink creates an AlertSink. sess may be nil when no counters are
// tracked.
func NewAlertSink(notifier *Notifier, sess *session.Session) *AlertSink {
	return &AlertSink{notifier: notifier, sess: sess, MaxListed: 10}
}

// Name identifies the sink.
func (a *AlertSink) Name() string { return "alerts" }

// Consume sends one alert per non-empty scan.
func (a *AlertSink) Consume(ctx context.Context, opps []domain.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	title := fmt.Sprintf("%d arbitrage opportunities found", len(opps))
	if err := a.notifier.Notify(ctx, title, summarize(opps, a.MaxListed)); err != nil {
		return err
	}
	if a.sess != nil {
		a.sess.NoteAlert()
	}
	return nil
}

// summarize renders a plain-text digest of the ranked list.
func summarize(opps []domain.Opportunity, max int) string {
	var b strings.Builder
	for i, opp := range opps {
		if max > 0 && i >= max {
			fmt.Fprintf(&b, "... and %d more\n", len(opps)-max)
			break
		}
		fmt.Fprintf(&b, "[%s] %s — %s: +%.2f%% ($%.2f on $%.2f, risk %s)\n",
			opp.Kind, opp.Instrument, opp.Strategy,
			opp.ProfitPct, opp.ExpectedProfit, opp.Investment, opp.Risk,
		)
	}
	return b.String()
}
