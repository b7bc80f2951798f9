package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/grzeniux/pricewatch/logger"
)

const (
	defaultTelegramAPI = "https://api.telegram.org"
	sendTimeout        = 10 * time.Second
)

type TelegramNotifier struct {
	token  string
	chatID string
	apiURL string
	client *http.Client
}

type TelegramOption func(t *TelegramNotifier)

// WithTelegramAPI points the notifier at a different Bot API base URL.
func WithTelegramAPI(apiURL string) TelegramOption {
	return func(t *TelegramNotifier) {
		t.apiURL = apiURL
	}
}

func NewTelegramNotifier(token, chatID string, opts ...TelegramOption) *TelegramNotifier {
	t := &TelegramNotifier{
		token:  token,
		chatID: chatID,
		apiURL: defaultTelegramAPI,
		client: &http.Client{Timeout: sendTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}

	if !t.Configured() {
		log := logger.WithComponent("notifier")
		log.Warn().Msg("Telegram token or chat ID not set. Notifications are disabled.")
	}
	return t
}

func (t *TelegramNotifier) Configured() bool {
	return t.token != "" && t.chatID != ""
}

func (t *TelegramNotifier) Name() string {
	return "telegram"
}

type telegramRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendNotification is a no-op when the notifier is not configured.
func (t *TelegramNotifier) SendNotification(ctx context.Context, message string) error {
	if !t.Configured() {
		return nil
	}

	jsonData, err := json.Marshal(telegramRequest{
		ChatID:    t.chatID,
		Text:      message,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("error marshaling telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// the URL carries the bot token
		return fmt.Errorf("error sending telegram message: %w", redact(err, t.token))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("telegram message failed with status: %d", resp.StatusCode)
	}

	return nil
}

func redact(err error, secret string) error {
	if secret == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), secret, "<token>"))
}
