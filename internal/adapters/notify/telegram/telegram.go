// Package telegram pushes fired alert events to a chat
package telegram

import (
	"context"
	"fmt"
	"strings"

	perr "fxradar/internal/platform/errors"
	"fxradar/internal/platform/logger"
	alerts "fxradar/internal/services/alerts/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier implements alerts.NotifierPort over the bot API
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    logger.Logger
}

// New constructs the notifier; fails fast on a bad token
func New(token string, chatID int64, log logger.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "create telegram bot")
	}
	log.Info().Str("bot", api.Self.UserName).Msg("telegram notifier ready")
	return &Notifier{api: api, chatID: chatID, log: log}, nil
}

// Notify implements alerts.NotifierPort
func (n *Notifier) Notify(ctx context.Context, ev alerts.Event) error {
	msg := tgbotapi.NewMessage(n.chatID, format(ev))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := n.api.Send(msg); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeTransport, "send telegram alert for rule %d", ev.RuleID)
	}
	logger.C(ctx).Debug().Int64("rule_id", ev.RuleID).Msg("telegram alert sent")
	return nil
}

func format(ev alerts.Event) string {
	a := ev.Payload.Analysis
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n", ev.RuleName)
	fmt.Fprintf(&sb, "%s\n", ev.Payload.Title)
	fmt.Fprintf(&sb, "`%s` %s, confidence %d (%s)\n",
		strings.Join(a.ImpactedSymbols, " "), a.Direction, a.Confidence, a.Horizon)
	if ev.Payload.URL != "" {
		fmt.Fprintf(&sb, "%s\n", ev.Payload.URL)
	}
	fmt.Fprintf(&sb, "_%s_", ev.TriggeredAt.UTC().Format("2006-01-02 15:04:05 MST"))
	return sb.String()
}
