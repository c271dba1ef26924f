// Package client is a small Go client for the destinations API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken sets the bearer token sent on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type Destination struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CountryCode  string    `json:"countryCode"`
	Type         string    `json:"type"`
	LastModified time.Time `json:"lastModif"`
	UserID       int64     `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type DestinationPage struct {
	Destinations []Destination `json:"destinations"`
	Pagination   Pagination    `json:"pagination"`
}

// ListOptions are encoded into the listing query string; zero values are
// omitted and fall back to server defaults.
type ListOptions struct {
	Page        int    `url:"page,omitempty"`
	Limit       int    `url:"limit,omitempty"`
	Type        string `url:"type,omitempty"`
	CountryCode string `url:"countryCode,omitempty"`
}

type CreateDestinationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CountryCode string `json:"countryCode"`
	Type        string `json:"type"`
}

type DestinationPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	CountryCode *string `json:"countryCode,omitempty"`
	Type        *string `json:"type,omitempty"`
}

// APIError is the decoded error body of a non-2xx response.
type APIError struct {
	StatusCode int
	ErrorName  string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s: %s", e.StatusCode, e.ErrorName, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.ErrorName)
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email": email, "password": password, "name": name,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) ListDestinations(ctx context.Context, opts ListOptions) (*DestinationPage, error) {
	values, err := query.Values(opts)
	if err != nil {
		return nil, err
	}

	path := "/api/destinations"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page DestinationPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetDestination(ctx context.Context, id int64) (*Destination, error) {
	var d Destination
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/destinations/%d", id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateDestination(ctx context.Context, req CreateDestinationRequest) (*Destination, error) {
	var d Destination
	if err := c.do(ctx, http.MethodPost, "/api/destinations", req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) UpdateDestination(ctx context.Context, id int64, patch DestinationPatch) (*Destination, error) {
	var d Destination
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/destinations/%d", id), patch, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) DeleteDestination(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/destinations/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
