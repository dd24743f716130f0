package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/sethvargo/go-retry"
)

// HTTPClient talks JSON to the Daybook server. Expired access tokens are
// refreshed transparently with the refresh token and the request replayed
// once.
type HTTPClient struct {
	baseURL      string
	http         *http.Client
	accessToken  string
	refreshToken string
}

// NewDaybookClient builds an HTTPClient for the given base URL
// (e.g. "http://127.0.0.1:8080").
func NewDaybookClient(baseURL string) (*HTTPClient, error) {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

type tokenResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// entryPayload is the wire shape of one entry. Field names follow the remote
// schema columns.
type entryPayload struct {
	Date      string    `json:"entry_date"`
	Content   string    `json:"content"`
	WordCount int       `json:"word_count,omitempty"`
	Prompt    string    `json:"prompt_text,omitempty"`
	Mood      string    `json:"mood,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPayload(e models.Entry) entryPayload {
	return entryPayload{
		Date:      e.Date,
		Content:   e.Content,
		WordCount: e.WordCount,
		Prompt:    e.Prompt,
		Mood:      e.Mood,
		UpdatedAt: e.UpdatedAt,
	}
}

func (p entryPayload) toModel(owner string) models.Entry {
	return models.Entry{
		Date:      p.Date,
		Content:   p.Content,
		OwnerID:   owner,
		WordCount: p.WordCount,
		Prompt:    p.Prompt,
		Mood:      p.Mood,
		UpdatedAt: p.UpdatedAt,
	}
}

// do performs one JSON request. On a 401 carrying the token-expired message
// it refreshes the token pair and replays the request once.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	err := c.doOnce(ctx, method, path, in, out)
	if err == nil {
		return nil
	}

	if errors.Is(err, common.ErrTokenExpired) && c.refreshToken != "" {
		if rErr := c.refresh(ctx); rErr != nil {
			return rErr
		}
		return c.doOnce(ctx, method, path, in, out)
	}

	return err
}

func (c *HTTPClient) doOnce(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapStatus(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) mapStatus(resp *http.Response) error {
	var er errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if er.Error == common.ErrTokenExpired.Error() {
			return common.ErrTokenExpired
		}
		return ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	default:
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: %s", common.ErrRemoteUnavailable, resp.Status)
		}
		return fmt.Errorf("request failed: %s: %s", resp.Status, er.Error)
	}
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	var tr tokenResponse
	in := map[string]string{"refresh_token": c.refreshToken}
	if err := c.doOnce(ctx, http.MethodPost, "/api/users/refresh", in, &tr); err != nil {
		return err
	}
	c.accessToken = tr.AccessToken
	c.refreshToken = tr.RefreshToken
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	in := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/users/register", in, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var tr tokenResponse
	in := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", in, &tr); err != nil {
		return "", err
	}
	c.accessToken = tr.AccessToken
	c.refreshToken = tr.RefreshToken
	return tr.UserID, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthcheck", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrUnavailable
	}
	return nil
}

// ListEntries fetches the owner's full entry set. Transient failures are
// retried with a short fibonacci backoff; auth errors are not.
func (c *HTTPClient) ListEntries(ctx context.Context) ([]models.Entry, error) {
	var payloads []entryPayload

	b := retry.WithMaxRetries(3, retry.NewFibonacci(200*time.Millisecond))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		payloads = nil
		if err := c.do(ctx, http.MethodGet, "/api/entries", nil, &payloads); err != nil {
			if errors.Is(err, common.ErrRemoteUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(payloads))
	for _, p := range payloads {
		entries = append(entries, p.toModel(""))
	}
	return entries, nil
}

func (c *HTTPClient) UpsertEntries(ctx context.Context, entries []models.Entry) error {
	payloads := make([]entryPayload, 0, len(entries))
	for _, e := range entries {
		payloads = append(payloads, toPayload(e))
	}
	return c.do(ctx, http.MethodPut, "/api/entries", payloads, nil)
}

func (c *HTTPClient) UpsertEntry(ctx context.Context, entry models.Entry) error {
	return c.do(ctx, http.MethodPut, "/api/entries/"+entry.Date, toPayload(entry), nil)
}

func (c *HTTPClient) TodayPrompt(ctx context.Context) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/prompts/today", nil, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *HTTPClient) PresignBackup(ctx context.Context) (string, string, error) {
	var out struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/backups/presign", nil, &out); err != nil {
		return "", "", err
	}
	return out.Key, out.URL, nil
}
