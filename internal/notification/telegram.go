// Package notification delivers booking events to staff outside the web app.
package notification

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"techrent/internal/domain/booking"
	"techrent/internal/domain/rental"
	"techrent/internal/pkg/format"
)

const sendTimeout = 10 * time.Second

// sender is the part of *bot.Bot the notifier uses.
type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Telegram posts booking events to an admin chat. Messages are sent in the background;
// a failed send is logged and dropped.
type Telegram struct {
	bot    sender
	chatID int64
	log    *zap.Logger
	wg     sync.WaitGroup
}

func NewTelegram(token string, chatID int64, log *zap.Logger) (*Telegram, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return newTelegram(b, chatID, log), nil
}

func newTelegram(s sender, chatID int64, log *zap.Logger) *Telegram {
	if log == nil {
		log = zap.NewNop()
	}
	return &Telegram{bot: s, chatID: chatID, log: log}
}

// Notify implements booking.Notifier.
func (t *Telegram) Notify(ctx context.Context, e booking.Event) {
	text := Message(e)
	if text == "" {
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		defer cancel()

		_, err := t.bot.SendMessage(sendCtx, &bot.SendMessageParams{
			ChatID:    t.chatID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			t.log.Warn("telegram: send failed",
				zap.String("booking_id", e.Booking.ID),
				zap.String("event", e.Type),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until in-flight messages are sent or have failed.
func (t *Telegram) Wait() {
	t.wg.Wait()
}

// Message renders an event as Telegram HTML. Unknown event types render empty.
func Message(e booking.Event) string {
	v := e.Booking
	item := fmt.Sprintf("#%d", v.EquipmentID)
	if v.Equipment != nil {
		item = v.Equipment.Type + " " + v.Equipment.Model
	}

	var b strings.Builder
	switch e.Type {
	case booking.EventCreated:
		b.WriteString("<b>New booking request</b>\n")
	case booking.EventStatusChanged:
		fmt.Fprintf(&b, "<b>Booking %s</b>\n", html.EscapeString(strings.ToLower(format.Status(v.Status))))
	default:
		return ""
	}

	fmt.Fprintf(&b, "%s\n", html.EscapeString(item))
	fmt.Fprintf(&b, "%s (%s)\n", format.DateRange(rental.DateRange{Start: v.StartDate, End: v.EndDate}), format.Days(v.Days))
	fmt.Fprintf(&b, "Total: %s\n", format.Price(v.TotalPrice))
	if e.Type == booking.EventStatusChanged && e.From != "" {
		fmt.Fprintf(&b, "Status: %s → %s\n", format.Status(e.From), format.Status(v.Status))
	}
	if v.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", html.EscapeString(v.Notes))
	}
	fmt.Fprintf(&b, "<code>%s</code>", html.EscapeString(v.ID))
	return b.String()
}
