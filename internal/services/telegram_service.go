package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/example/bazario/internal/models"
	"github.com/example/bazario/internal/orders"
)

// TelegramService pushes order status notifications to the store
// owner's Telegram chat. Every lifecycle transition produces one
// message; cancellations are marked as destructive.
type TelegramService struct {
	botToken string
	chatID   string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, chatID string) *TelegramService {
	return &TelegramService{botToken: botToken, chatID: chatID}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a raw message to the configured chat. A missing
// bot token turns the service into a no-op so development setups work
// without Telegram.
func (s *TelegramService) SendMessage(text string) error {
	if s.botToken == "" || s.chatID == "" {
		log.Println("[Telegram] Not configured, skipping message")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    s.chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// NotifyOrderStatus sends the status-specific notification for an
// order transition.
func (s *TelegramService) NotifyOrderStatus(order models.Order) error {
	message, destructive := orders.StatusMessage(order.Status)

	icon := "📦"
	if destructive {
		icon = "❌"
	}

	var itemsList strings.Builder
	for _, item := range order.Items {
		itemsList.WriteString(fmt.Sprintf("  %dx %s - ₹%.0f\n",
			item.Quantity, item.ProductName, item.UnitPrice*float64(item.Quantity)))
	}

	text := fmt.Sprintf(`%s <b>%s</b>
<b>Order:</b> %s
<b>Customer:</b> %s
%s<b>Total:</b> ₹%.0f`,
		icon,
		message,
		order.OrderNumber,
		order.CustomerName,
		itemsList.String(),
		order.TotalAmount,
	)

	return s.SendMessage(strings.TrimSpace(text))
}

// NotifyHoliday announces a newly scheduled holiday closure.
func (s *TelegramService) NotifyHoliday(date, reason string) error {
	text := fmt.Sprintf("📅 <b>Holiday set</b>\nStore will be closed on %s", date)
	if reason != "" {
		text += " - " + reason
	}
	return s.SendMessage(text)
}
