package notify

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"sketch2cad/internal/domain/entity"
)

// TelegramNotifier отправляет итог прогона в чат Telegram:
// краткую сводку и сам DXF-файл документом.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier авторизуется по токену бота.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// NotifyResult шлёт сводку прогона и готовый чертёж.
func (n *TelegramNotifier) NotifyResult(ctx context.Context, rep entity.Report) error {
	_ = ctx

	text := fmt.Sprintf("✅ DXF готов: %s\nмасштаб: %.4f мм/px\nпутей: %d",
		rep.OutputDXF, rep.MMPerPx, rep.NumPaths)
	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}

	doc := tgbotapi.NewDocument(n.chatID, tgbotapi.FilePath(rep.OutputDXF))
	if _, err := n.api.Send(doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}
