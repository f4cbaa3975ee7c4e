package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/alanyoungcy/arbscan/internal/domain"
	"github.com/alanyoungcy/arbscan/internal/session"
)

// EmailConfig holds SMTP delivery parameters.
type EmailConfig struct {
	Host      string
	Port      int
	Sender    string
	Password  string
	Recipient string
}

// EmailAlert sends a tabular HTML summary of each non-empty scan over SMTP.
// It implements the scanner sink interface.
type EmailAlert struct {
	cfg    EmailConfig
	sess   *session.Session
	logger *slog.Logger
	// send is swappable in tests; defaults to smtp.SendMail, which performs
	// STARTTLS when the server offers it.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailAlert creates an EmailAlert sink. sess may be nil.
func NewEmailAlert(cfg EmailConfig, sess *session.Session, logger *slog.Logger) *EmailAlert {
	return &EmailAlert{
		cfg:    cfg,
		sess:   sess,
		logger: logger.With(slog.String("component", "email_alert")),
		send:   smtp.SendMail,
	}
}

// Name identifies the sink.
func (e *EmailAlert) Name() string { return "email" }

// Consume emails the rendered summary. Empty scans send nothing.
func (e *EmailAlert) Consume(ctx context.Context, opps []domain.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	html, err := RenderAlertHTML(opps)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Arbitrage alert: %d opportunities found", len(opps))
	msg := buildMessage(e.cfg.Sender, e.cfg.Recipient, subject, html)

	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)
	auth := smtp.PlainAuth("", e.cfg.Sender, e.cfg.Password, e.cfg.Host)
	if err := e.send(addr, auth, e.cfg.Sender, []string{e.cfg.Recipient}, msg); err != nil {
		return fmt.Errorf("email: send alert: %w", err)
	}

	e.logger.Info("alert email sent",
		slog.String("recipient", e.cfg.Recipient),
		slog.Int("opportunities", len(opps)),
	)
	if e.sess != nil {
		e.sess.NoteAlert()
	}
	return nil
}

// buildMessage assembles an RFC 822 message with an HTML body.
func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// alertRow is one table row of the HTML summary.
type alertRow struct {
	Instrument string
	Kind       string
	BuySource  string
	BuyPrice   string
	SellSource string
	SellPrice  string
	ProfitPct  string
}

var alertTemplate = template.Must(template.New("alert").Parse(`<html>
<head>
<style>
table { border-collapse: collapse; width: 100%; margin: 20px 0; }
th, td { border: 1px solid #ddd; padding: 10px; text-align: left; }
th { background-color: #4CAF50; color: white; }
tr:nth-child(even) { background-color: #f2f2f2; }
.profit { color: #4CAF50; font-weight: bold; }
</style>
</head>
<body>
<h2>Arbitrage opportunities detected</h2>
<table>
<tr><th>Instrument</th><th>Type</th><th>Buy</th><th>Buy price</th><th>Sell</th><th>Sell price</th><th>Profit</th></tr>
{{range .}}<tr><td>{{.Instrument}}</td><td>{{.Kind}}</td><td>{{.BuySource}}</td><td>{{.BuyPrice}}</td><td>{{.SellSource}}</td><td>{{.SellPrice}}</td><td class="profit">{{.ProfitPct}}</td></tr>
{{end}}</table>
<p><small>Generated automatically. Re-check prices before trading.</small></p>
</body>
</html>
`))

// RenderAlertHTML renders the tabular HTML summary: instrument, buy/sell
// source and price, profit percentage.
func RenderAlertHTML(opps []domain.Opportunity) (string, error) {
	rows := make([]alertRow, 0, len(opps))
	for _, opp := range opps {
		row := alertRow{
			Instrument: opp.Instrument,
			Kind:       string(opp.Kind),
			ProfitPct:  fmt.Sprintf("%.2f%%", opp.ProfitPct),
		}
		if opp.BuySource != "" {
			row.BuySource = strings.ToUpper(opp.BuySource)
			row.SellSource = strings.ToUpper(opp.SellSource)
			if len(opp.Prices) > 0 {
				row.BuyPrice = fmt.Sprintf("$%.4f", opp.Prices[0].Price)
				row.SellPrice = fmt.Sprintf("$%.4f", opp.Prices[len(opp.Prices)-1].Price)
			}
		} else if len(opp.Prices) >= 2 {
			row.BuySource = opp.Prices[0].Source
			row.BuyPrice = fmt.Sprintf("$%.3f", opp.Prices[0].Price)
			row.SellSource = opp.Prices[1].Source
			row.SellPrice = fmt.Sprintf("$%.3f", opp.Prices[1].Price)
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	if err := alertTemplate.Execute(&buf, rows); err != nil {
		return "", fmt.Errorf("email: render alert: %w", err)
	}
	return buf.String(), nil
}
