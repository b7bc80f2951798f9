package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const defaultPushbulletAPI = "https://api.pushbullet.com"

type PushbulletNotifier struct {
	token  string
	apiURL string
	client *http.Client
}

func NewPushbulletNotifier(token string) *PushbulletNotifier {
	return &PushbulletNotifier{
		token:  token,
		apiURL: defaultPushbulletAPI,
		client: &http.Client{Timeout: sendTimeout},
	}
}

func (p *PushbulletNotifier) Name() string {
	return "pushbullet"
}

type PushbulletRequest struct {
	Body  string `json:"body"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// SendNotification pushes a note whose title is the first line of message.
func (p *PushbulletNotifier) SendNotification(ctx context.Context, message string) error {
	title, body, _ := strings.Cut(message, "\n")
	pushData := PushbulletRequest{
		Body:  body,
		Title: title,
		Type:  "note",
	}

	jsonData, err := json.Marshal(pushData)
	if err != nil {
		return fmt.Errorf("error marshaling push notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/v2/pushes", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating push request: %w", err)
	}

	req.Header.Set("Access-Token", p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push notification failed with status: %d", resp.StatusCode)
	}

	return nil
}
