package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"saturday-planner/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleCalendarURL = "https://www.googleapis.com/calendar/v3"
	calendarScope     = "https://www.googleapis.com/auth/calendar"
)

// googleWriter writes events to Google Calendar using a service account.
type googleWriter struct {
	clientEmail string
	privateKey  string
	tokenURL    string
	baseURL     string
	httpClient  *http.Client
}

func newGoogleWriter(cfg *config.Config) *googleWriter {
	return &googleWriter{
		clientEmail: cfg.GoogleClientEmail,
		privateKey:  cfg.GooglePrivateKey,
		tokenURL:    googleTokenURL,
		baseURL:     googleCalendarURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// accessToken exchanges a signed service-account assertion for a bearer token.
func (w *googleWriter) accessToken(ctx context.Context) (string, error) {
	// Env files often carry the key with literal \n sequences.
	pemKey := strings.ReplaceAll(w.privateKey, `\n`, "\n")
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemKey))
	if err != nil {
		return "", fmt.Errorf("failed to parse service account key: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   w.clientEmail,
		"scope": calendarScope,
		"aud":   w.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	assertion, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token endpoint error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}
	return tokenResp.AccessToken, nil
}

// Schedule creates the event through the Calendar REST API.
func (w *googleWriter) Schedule(ctx context.Context, ev Event) (Outcome, error) {
	token, err := w.accessToken(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to authenticate with Google Calendar: %w", err)
	}

	end := ev.Start.Add(eventDuration)
	body := map[string]interface{}{
		"summary": ev.Title,
		"start":   map[string]string{"dateTime": ev.Start.Format(time.RFC3339)},
		"end":     map[string]string{"dateTime": end.Format(time.RFC3339)},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to marshal event body: %w", err)
	}

	calendarID := ev.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	reqURL := fmt.Sprintf("%s/calendars/%s/events", w.baseURL, url.PathEscape(calendarID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to create event request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to execute event request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return Outcome{}, fmt.Errorf("calendar api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var eventResp struct {
		ID       string `json:"id"`
		HTMLLink string `json:"htmlLink"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&eventResp); err != nil {
		return Outcome{}, fmt.Errorf("failed to decode event response: %w", err)
	}

	return Outcome{
		Status:          StatusScheduled,
		EventID:         eventResp.ID,
		ConfirmationURL: eventResp.HTMLLink,
		Provider:        "google_calendar",
		Title:           ev.Title,
		StartTime:       ev.Start.Format("2006-01-02T15:04:05"),
		EndTime:         end.Format("2006-01-02T15:04:05"),
	}, nil
}
