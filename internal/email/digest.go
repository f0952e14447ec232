package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Glamslot/internal/reports"
)

const digestEmailTimeout = 10 * time.Second

type Message struct {
	Subject string
	Body    string
}

// BuildDigestEmail renders the weekly revenue recap as plain text.
func BuildDigestEmail(salonName string, digest reports.Digest) Message {
	salonName = strings.TrimSpace(salonName)
	if salonName == "" {
		salonName = "your salon"
	}

	week := digest.Week
	subject := fmt.Sprintf("Weekly revenue - %s", salonName)

	lines := []string{
		fmt.Sprintf("Revenue recap for %s.", salonName),
		"",
		fmt.Sprintf("Period: %s", week.Selection.Range.String()),
		fmt.Sprintf("Revenue: %s", formatAmount(week.Revenue)),
		fmt.Sprintf("Completed appointments: %d of %d", week.Completed, week.Appointments),
		fmt.Sprintf("Average ticket: %s", formatAmount(week.AverageTicket)),
	}
	if week.Comparison != nil {
		lines = append(lines,
			fmt.Sprintf("%s: %s (%s)", week.Comparison.Label, formatAmount(week.Comparison.Revenue), week.Comparison.ChangeLabel),
		)
	}
	if digest.BestRevenue.IsPositive() {
		lines = append(lines,
			"",
			fmt.Sprintf("%s on record: %s, %s", digest.BestWeek.Label, digest.BestWeek.Range.String(), formatAmount(digest.BestRevenue)),
		)
	}

	return Message{
		Subject: subject,
		Body:    strings.Join(lines, "\n"),
	}
}

// SendDigest delivers msg and waits for the result. The send survives
// cancellation of ctx but is bounded by its own timeout.
func SendDigest(ctx context.Context, sender EmailSender, recipient string, msg Message) error {
	if sender == nil {
		return fmt.Errorf("email sender is not configured")
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}

	sendCtx, cancel := newEmailContext(ctx, digestEmailTimeout)
	defer cancel()

	if err := sender.Send(sendCtx, recipient, msg.Subject, msg.Body); err != nil {
		return fmt.Errorf("send digest to %s: %w", recipient, err)
	}
	log.Ctx(ctx).Info().Str("recipient", recipient).Msg("Revenue digest sent")
	return nil
}

func formatAmount(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
