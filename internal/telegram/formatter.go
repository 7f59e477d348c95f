package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/pfrederiksen/liga-rankings/internal/views"
)

// FormatDigest formats a round digest as a Telegram HTML message
func FormatDigest(d views.RoundDigest) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("⚽ <b>Round %s results</b>\n\n", html.EscapeString(d.Round)))

	msg.WriteString(fmt.Sprintf("🏆 <b>%s</b>", html.EscapeString(d.Winner.Name)))
	if d.Winner.User != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", html.EscapeString(d.Winner.User)))
	}
	msg.WriteString(fmt.Sprintf(" - %d pts\n", d.Winner.Points))

	if len(d.Payers) == 0 {
		msg.WriteString("\n💸 Nobody pays into the pool this round\n")
	} else {
		msg.WriteString(fmt.Sprintf("\n💸 <b>Pool: %d</b>\n", d.Pool))
		for _, p := range d.Payers {
			msg.WriteString(fmt.Sprintf("%d. %s", p.Position, html.EscapeString(p.Name)))
			if p.User != "" {
				msg.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(p.User)))
			}
			msg.WriteString(fmt.Sprintf(": %d\n", p.Amount))
		}
	}

	msg.WriteString(fmt.Sprintf("\n<i>%d teams</i>\n", d.Teams))
	msg.WriteString("\n#LigaRecord")

	return msg.String()
}

// FormatSummary formats several digests as one message, one line per round
func FormatSummary(digests []views.RoundDigest) string {
	if len(digests) == 0 {
		return "No rounds to report"
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("⚽ <b>%d round(s)</b>\n\n", len(digests)))

	total := 0
	for _, d := range digests {
		msg.WriteString(fmt.Sprintf("Round %s: 🏆 %s, pool %d\n",
			html.EscapeString(d.Round), html.EscapeString(d.Winner.Name), d.Pool))
		total += d.Pool
	}
	msg.WriteString(fmt.Sprintf("\n💸 <b>Total: %d</b>", total))

	return msg.String()
}
