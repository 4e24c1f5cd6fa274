// Package remote talks to the shipdash backend over HTTP/JSON: the sync
// endpoints used by Pull and Push, login and token checks, and user
// management.
package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/shipdash/internal/client/storage"
	"github.com/atinyakov/shipdash/internal/models"
)

const (
	apiLogin      = "/api/auth/login"
	apiMe         = "/api/auth/me"
	apiSyncData   = "/api/sync/data"
	apiSyncUpload = "/api/sync/upload"
	apiUsers      = "/api/users"
)

// DefaultTimeout bounds every request made by a client built with NewHTTPClient.
const DefaultTimeout = 10 * time.Second

// ErrNoToken is returned by calls that need a bearer token when none is stored.
var ErrNoToken = errors.New("no auth token")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Client is the backend client. It reads the bearer token from the local
// store on every call, so a login or logout is picked up immediately.
type Client struct {
	baseURL string
	http    *http.Client
	store   storage.Store
	log     *zap.Logger
}

// New returns a Client for baseURL. A nil httpClient uses http.DefaultClient
// and a nil logger discards output.
func New(baseURL string, httpClient *http.Client, store storage.Store, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		store:   store,
		log:     log,
	}
}

// NewHTTPClient returns an http.Client with DefaultTimeout. When caFile is
// set, the backend certificate is verified against that CA only.
func NewHTTPClient(caFile string) (*http.Client, error) {
	if caFile == "" {
		return &http.Client{Timeout: DefaultTimeout}, nil
	}
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("failed to parse CA cert")
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs:    caPool,
			MinVersion: tls.VersionTLS12,
		},
	}
	return &http.Client{Transport: transport, Timeout: DefaultTimeout}, nil
}

func (c *Client) token() (string, bool) {
	tok, ok := storage.Get[string](c.store, storage.KeyAuthToken)
	return tok, ok && tok != ""
}

// do sends a JSON request and decodes a JSON response into out (when non-nil).
// A non-2xx status becomes *APIError carrying the server's detail message.
func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if auth {
		tok, ok := c.token()
		if !ok {
			return ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var er models.ErrorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Detail != "" {
		apiErr.Detail = er.Detail
	} else {
		apiErr.Detail = strings.TrimSpace(string(data))
	}
	return apiErr
}
