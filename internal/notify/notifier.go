package notify

import (
	"fmt"
	"log"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// Telegram — пассивный нотифайер, только шлёт сообщения в чат.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg))
	if err != nil {
		log.Printf("[TG] send failed: %v", err)
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Stdout — заглушка на случай пустого токена, чтобы пайплайн не падал.
type Stdout struct{}

func (Stdout) Send(msg string)                    { log.Printf("[NOTIFY] %s", msg) }
func (s Stdout) Sendf(format string, args ...any) { s.Send(fmt.Sprintf(format, args...)) }

// FormatSignal собирает текст уведомления по сигналу.
func FormatSignal(s models.Signal) string {
	emoji := "🟢"
	if s.Direction == models.DirectionShort {
		emoji = "🔴"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s %s @ %s", emoji, strings.ToUpper(string(s.Kind)), s.Symbol, s.Timeframe, helper.FormatPrice(s.EntryPrice))
	if s.TriggerLevel != nil {
		fmt.Fprintf(&b, "\nуровень: %s", helper.FormatPrice(*s.TriggerLevel))
	}
	if s.EMAPeriod > 0 {
		fmt.Fprintf(&b, "\nEMA%d", s.EMAPeriod)
	}
	if s.TakeProfit != nil {
		fmt.Fprintf(&b, "\nцель: %s", helper.FormatPrice(*s.TakeProfit))
		if s.ProfitPct != nil {
			fmt.Fprintf(&b, " (%.2f%%)", *s.ProfitPct)
		}
	}
	if s.Reason != "" {
		fmt.Fprintf(&b, "\n%s", s.Reason)
	}
	fmt.Fprintf(&b, "\n%s", s.Time.UTC().Format("2006-01-02 15:04 UTC"))
	return b.String()
}
