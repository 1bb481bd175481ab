package cosplay2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/fangen/internal/domain"
	"golang.org/x/net/publicsuffix"
)

// Source is the remote data the sync service mirrors.
type Source interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	ListTopics(ctx context.Context) ([]domain.Topic, error)
	GetTopicFields(ctx context.Context, topic domain.Topic) ([]domain.Section, error)
	ListAllSubmissions(ctx context.Context) ([]domain.Submission, error)
	ListAllValues(ctx context.Context) ([]domain.Value, error)
	GetScheduleTree(ctx context.Context) ([]PlanNode, error)
}

// LoginResult reports how the session was established.
type LoginResult struct {
	// Reused is true when stored cookies were still valid.
	Reused bool
}

// Client talks to the event's cosplay2 API with a cookie session.
type Client struct {
	cfg     Config
	base    *url.URL
	http    *http.Client
	cookies CookieStore
	logger  *slog.Logger
}

// NewClient creates a Client. A nil store keeps cookies in memory only.
func NewClient(cfg Config, store CookieStore, logger *slog.Logger) (*Client, error) {
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	if store == nil {
		store = &MemoryCookieStore{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		cfg:     cfg,
		base:    base,
		http:    &http.Client{Timeout: cfg.Timeout, Jar: jar},
		cookies: store,
		logger:  logger,
	}, nil
}

// Login reuses stored cookies when the API still accepts them, and
// otherwise signs in with email and password and stores the new cookies.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	stored, err := c.cookies.Load()
	if err != nil {
		return LoginResult{}, err
	}
	if len(stored) > 0 {
		c.http.Jar.SetCookies(c.base, stored)
		resp, err := c.do(ctx, http.MethodGet, "events/get_settings", nil, "")
		if err != nil {
			return LoginResult{}, err
		}
		resp.Body.Close()
		if isSuccess(resp.StatusCode) {
			c.logger.Info("cosplay2 session reused")
			return LoginResult{Reused: true}, nil
		}
		c.logger.Info("cosplay2 cookies expired, logging in")
		if err := c.resetJar(); err != nil {
			return LoginResult{}, err
		}
	}

	form := url.Values{"name": {email}, "password": {password}}
	resp, err := c.do(ctx, http.MethodPost, "users/login", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return LoginResult{}, err
	}
	defer resp.Body.Close()

	switch {
	case isSuccess(resp.StatusCode):
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return LoginResult{}, ErrBadCredentials
	default:
		return LoginResult{}, readError("login", resp)
	}

	if err := c.cookies.Save(c.http.Jar.Cookies(c.base)); err != nil {
		return LoginResult{}, err
	}
	c.logger.Info("cosplay2 login succeeded")
	return LoginResult{}, nil
}

func (c *Client) resetJar() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("creating cookie jar: %w", err)
	}
	c.http.Jar = jar
	return nil
}

func (c *Client) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	var dtos []topicDTO
	if err := c.getJSON(ctx, "topics/get_list", &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Topic, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// GetTopicFields returns the sections and fields of topic.
func (c *Client) GetTopicFields(ctx context.Context, topic domain.Topic) ([]domain.Section, error) {
	var dto topicFieldsDTO
	body := map[string]string{"topic_url_code": topic.URLCode}
	if err := c.postJSON(ctx, "topics/get_with_fields", body, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(topic.ID), nil
}

func (c *Client) ListAllSubmissions(ctx context.Context) ([]domain.Submission, error) {
	var dtos []submissionDTO
	if err := c.getJSON(ctx, "topics/get_all_requests", &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Submission, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (c *Client) ListAllValues(ctx context.Context) ([]domain.Value, error) {
	var dtos []valueDTO
	if err := c.getJSON(ctx, "requests/get_all_values", &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Value, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// GetScheduleTree returns the nested timetable. The API wraps it as a JSON
// document encoded in a string field; a plain array is accepted as well.
func (c *Client) GetScheduleTree(ctx context.Context) ([]PlanNode, error) {
	var envelope struct {
		Plan json.RawMessage `json:"plan"`
	}
	if err := c.getJSON(ctx, "events/get_plan", &envelope); err != nil {
		return nil, err
	}

	raw := bytes.TrimSpace(envelope.Plan)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("decoding plan: %w", err)
		}
		if strings.TrimSpace(inner) == "" {
			return nil, nil
		}
		raw = []byte(inner)
	}

	var nodes []PlanNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return nodes, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return decode(path, resp, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json")
	if err != nil {
		return err
	}
	return decode(path, resp, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(&url.URL{Path: path}).String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cosplay2 %s %s: %w", method, path, err)
	}
	c.logger.Debug("cosplay2 request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

func decode(op string, resp *http.Response, out any) error {
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return readError(op, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", op, err)
	}
	return nil
}

func readError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
