package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"saturday-planner/internal/config"
)

const twilioAPIURL = "https://api.twilio.com/2010-04-01"

// twilioNotifier sends real SMS messages through the Twilio REST API.
type twilioNotifier struct {
	accountSID string
	authToken  string
	from       string
	to         string
	baseURL    string
	httpClient *http.Client
}

// NewTwilioNotifier creates a Twilio SMS notifier.
func NewTwilioNotifier(cfg *config.Config) Notifier {
	return &twilioNotifier{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		from:       cfg.NotificationFrom,
		to:         cfg.NotificationTo,
		baseURL:    twilioAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send delivers the message as an SMS to the configured recipient.
func (n *twilioNotifier) Send(ctx context.Context, channel, message string) (Result, error) {
	form := url.Values{}
	form.Set("Body", message)
	form.Set("From", n.from)
	form.Set("To", n.to)

	reqURL := fmt.Sprintf("%s/Accounts/%s/Messages.json", n.baseURL, n.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(n.accountSID, n.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("twilio api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var twilioResp struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&twilioResp); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return Result{
		Status:     StatusSent,
		Channel:    channel,
		Provider:   "twilio",
		MessageSID: twilioResp.SID,
	}, nil
}
