package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mindwell/sessionctl/internal/ctxstore"
	"github.com/mindwell/sessionctl/internal/model"
)

// TraceIDKey lets callers thread their own trace ID through the context.
// Requests without one get a fresh uuid.
const TraceIDKey = ctxstore.Key("traceId")

const _defaultTimeout = 10 * time.Second

type Config struct {
	BaseURL   string
	AuthToken string

	// Timeout applies uniformly to every request.
	Timeout time.Duration
}

// Client is a typed client for the therapy backend. All responses pass
// through the envelope decoder exactly once.
type Client struct {
	baseURL *url.URL
	token   string
	httpc   *http.Client
	logger  *slog.Logger
}

func New(logger *slog.Logger, cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("base url must be absolute")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = _defaultTimeout
	}

	return &Client{
		baseURL: base,
		token:   cfg.AuthToken,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger.With("module", "apiclient"),
	}, nil
}

func (c *Client) Session(ctx context.Context, id model.ID) (model.Session, error) {
	var session model.Session
	err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(id), nil, &session)
	return session, err
}

func (c *Client) Sessions(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	err := c.do(ctx, http.MethodGet, "/sessions", nil, &sessions)
	return sessions, err
}

type BookSessionRequest struct {
	PsychologistID  model.ID          `json:"psychologistId"`
	PatientID       *model.ID         `json:"patientId,omitempty"`
	StartTime       time.Time         `json:"startTime"`
	EndTime         time.Time         `json:"endTime"`
	Type            model.SessionType `json:"type"`
	Price           decimal.Decimal   `json:"price"`
	MaxParticipants int               `json:"maxParticipants,omitempty"`
}

func (c *Client) BookSession(ctx context.Context, req BookSessionRequest) (model.Session, error) {
	var session model.Session
	err := c.do(ctx, http.MethodPost, "/sessions", req, &session)
	return session, err
}

func (c *Client) AcceptSession(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodPost, "/sessions/"+url.PathEscape(id)+"/accept", nil, nil)
}

func (c *Client) RejectSession(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodPost, "/sessions/"+url.PathEscape(id)+"/reject", nil, nil)
}

func (c *Client) SetSessionStatus(ctx context.Context, id model.ID, status model.SessionStatus) (model.Session, error) {
	body := struct {
		Status model.SessionStatus `json:"status"`
	}{Status: status}

	var session model.Session
	err := c.do(ctx, http.MethodPatch, "/sessions/"+url.PathEscape(id), body, &session)
	return session, err
}

func (c *Client) SetPresence(ctx context.Context, status model.PresenceStatus) error {
	body := struct {
		Status model.PresenceStatus `json:"status"`
	}{Status: status}

	return c.do(ctx, http.MethodPatch, "/profile/status", body, nil)
}

func (c *Client) DemoMinutes(ctx context.Context, psychologistID model.ID) (model.DemoMinutes, error) {
	var demo model.DemoMinutes
	err := c.do(ctx, http.MethodGet, "/demo-minutes/psychologist/"+url.PathEscape(psychologistID), nil, &demo)
	return demo, err
}

func (c *Client) VideoToken(ctx context.Context, sessionID model.ID) (model.VideoToken, error) {
	body := struct {
		SessionID model.ID `json:"sessionId"`
	}{SessionID: sessionID}

	var token model.VideoToken
	err := c.do(ctx, http.MethodPost, "/video/token", body, &token)
	return token, err
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL.JoinPath(path).String()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}

	tid, ok := ctxstore.From[string](ctx, TraceIDKey)
	if !ok || tid == "" {
		tid = genTraceID()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", tid)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger := c.logger.With(TraceIDKey.String(), tid)
	logger.Debug("request", slog.Group("request", "method", method, "path", path))

	resp, err := c.httpc.Do(req)
	if err != nil {
		logger.Debug("request failed", "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	logger.Debug("response", slog.Group("response", "status", resp.StatusCode, "size", len(respBody)))

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp.StatusCode, respBody)
	}

	if dst == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := decodeEnvelope(respBody, dst); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}

	return nil
}

func genTraceID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}
