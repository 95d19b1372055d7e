// Package apiclient provides the HTTPS client used by the command line
// interface to talk to the accounts API over mutual TLS.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/durfee/passwords/internal/accounts/http/dto"
	apperrors "github.com/durfee/passwords/internal/errors"
	"github.com/durfee/passwords/internal/httputil"
)

// Client talks to the accounts API. The client certificate presented during
// the TLS handshake determines the tenant every request is scoped to.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client with the provided base URL and HTTP client.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// NewMTLS creates a Client that authenticates with the given client
// certificate and validates the server against the given certificate
// authority bundle.
func NewMTLS(baseURL, certFile, keyFile, caFile string) (*Client, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client certificate: %w", err)
	}

	caPEM, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate authority: %w", err)
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no certificates found in %s", caFile)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				Certificates: []tls.Certificate{cert},
				RootCAs:      caPool,
				MinVersion:   tls.VersionTLS12,
			},
		},
	}

	return New(baseURL, httpClient), nil
}

// Get fetches a single account by id.
func (c *Client) Get(ctx context.Context, accountID string) (*dto.AccountResponse, error) {
	var account dto.AccountResponse
	err := c.do(ctx, http.MethodGet, "/accounts/"+accountID, nil, http.StatusOK, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// List fetches the accounts matching the given query parameters.
func (c *Client) List(ctx context.Context, query url.Values) ([]dto.AccountResponse, error) {
	path := "/accounts"
	if encoded := query.Encode(); encoded != "" {
		path = path + "?" + encoded
	}

	var list dto.AccountListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Insert creates a new account.
func (c *Client) Insert(
	ctx context.Context,
	request dto.CreateAccountRequest,
) (*dto.AccountResponse, error) {
	var account dto.AccountResponse
	err := c.do(ctx, http.MethodPost, "/accounts", request, http.StatusOK, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// SetPassword replaces an account's password envelope.
func (c *Client) SetPassword(
	ctx context.Context,
	accountID string,
	request dto.SetPasswordRequest,
) (*dto.AccountResponse, error) {
	var account dto.AccountResponse
	err := c.do(
		ctx,
		http.MethodPost,
		"/accounts/"+accountID+"/setPassword",
		request,
		http.StatusOK,
		&account,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// SetUsername replaces an account's username.
func (c *Client) SetUsername(
	ctx context.Context,
	accountID string,
	request dto.SetUsernameRequest,
) (*dto.AccountResponse, error) {
	var account dto.AccountResponse
	err := c.do(
		ctx,
		http.MethodPost,
		"/accounts/"+accountID+"/setUsername",
		request,
		http.StatusOK,
		&account,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Delete removes an account by id.
func (c *Client) Delete(ctx context.Context, accountID string) error {
	return c.do(ctx, http.MethodDelete, "/accounts/"+accountID, nil, http.StatusNoContent, nil)
}

// do performs a request and decodes the response into out when the expected
// status is returned. Any other status is translated into an application error.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	body any,
	expectedStatus int,
	out any,
) error {
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
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != expectedStatus {
		return c.errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}

// errorFromResponse maps an error response to the application error taxonomy.
func (c *Client) errorFromResponse(resp *http.Response) error {
	var errResponse httputil.ErrorResponse
	message := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&errResponse); err == nil {
		if errResponse.Message != "" {
			message = errResponse.Message
		} else if errResponse.Error != "" {
			message = errResponse.Error
		}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.Wrap(apperrors.ErrNotFound, message)
	case http.StatusBadRequest:
		return apperrors.Wrap(apperrors.ErrInvalidInput, message)
	case http.StatusConflict:
		return apperrors.Wrap(apperrors.ErrConflict, message)
	default:
		return apperrors.New(fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, message))
	}
}
