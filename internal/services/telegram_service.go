package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bijou/internal/models"
)

// TelegramService шлёт операционные алерты в общий чат магазина.
// Без токена или chat_id работает как no-op, чтобы не ломать dev-окружение.
type TelegramService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramService(botToken string, chatID int64) *TelegramService {
	svc := &TelegramService{chatID: chatID}
	if botToken == "" {
		return svc
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg][init] bot init failed, alerts disabled: %v", err)
		return svc
	}
	svc.bot = bot
	return svc
}

func (t *TelegramService) send(text string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		log.Printf("[tg][skip] alerts disabled, message: %q", text)
		return
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[tg][send][err] %v", err)
	}
}

func (t *TelegramService) NotifyOrderPaid(order *models.Order) {
	t.send(fmt.Sprintf(
		"💳 <b>결제 완료</b>\n주문번호: <code>%s</code>\n결제금액: %s원",
		order.OrderNumber, order.PaymentAmount.StringFixed(0),
	))
}

func (t *TelegramService) NotifyLowStock(productName string, stock int) {
	t.send(fmt.Sprintf("⚠️ <b>재고 부족</b>\n%s — 남은 수량 %d개", productName, stock))
}
