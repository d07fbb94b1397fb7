package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/monitor"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
)

// APIClient is the agent's view of the attendance server.
type APIClient interface {
	CheckIn(ctx context.Context, point geo.Point) (attendance.SessionResponse, error)
	CheckOut(ctx context.Context) (attendance.SessionResponse, error)
	UpdateLocation(ctx context.Context, point geo.Point) error
	Monitor(ctx context.Context, point geo.Point) (monitor.Verdict, error)
	Status(ctx context.Context) (attendance.StatusResponse, error)
}

// Client talks to the attendance REST API with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		msg := env.Message
		if env.Error != nil {
			msg = env.Error.Message
		}
		// State conflicts surface as typed errors so callers can react.
		if resp.StatusCode == http.StatusConflict {
			switch method + " " + path {
			case "POST /api/v1/checkin":
				return attendance.ErrAlreadyCheckedIn
			default:
				return attendance.ErrNotCheckedIn
			}
		}
		return fmt.Errorf("server rejected %s %s (status %d): %s", method, path, resp.StatusCode, msg)
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) CheckIn(ctx context.Context, point geo.Point) (attendance.SessionResponse, error) {
	var session attendance.SessionResponse
	req := attendance.CheckInRequest{Latitude: &point.Latitude, Longitude: &point.Longitude}
	if err := c.do(ctx, http.MethodPost, "/api/v1/checkin", req, &session); err != nil {
		return attendance.SessionResponse{}, err
	}
	return session, nil
}

func (c *Client) CheckOut(ctx context.Context) (attendance.SessionResponse, error) {
	var session attendance.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/checkout", nil, &session); err != nil {
		return attendance.SessionResponse{}, err
	}
	return session, nil
}

func (c *Client) UpdateLocation(ctx context.Context, point geo.Point) error {
	req := attendance.UpdateLocationRequest{Latitude: &point.Latitude, Longitude: &point.Longitude}
	return c.do(ctx, http.MethodPut, "/api/v1/location", req, nil)
}

func (c *Client) Monitor(ctx context.Context, point geo.Point) (monitor.Verdict, error) {
	var verdict monitor.Verdict
	req := monitor.CheckRequest{Latitude: &point.Latitude, Longitude: &point.Longitude}
	if err := c.do(ctx, http.MethodPost, "/api/v1/location/monitor", req, &verdict); err != nil {
		return monitor.Verdict{}, err
	}
	return verdict, nil
}

func (c *Client) Status(ctx context.Context) (attendance.StatusResponse, error) {
	var status attendance.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/status", nil, &status); err != nil {
		return attendance.StatusResponse{}, err
	}
	return status, nil
}
