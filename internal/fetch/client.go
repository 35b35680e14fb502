// Package fetch obtains the raw configuration document from its source:
// a remote configuration API or a local file. It hands parsed documents
// to the core and performs no validation beyond structural parsing.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/provnet/ztp/internal/schema"
)

const defaultTimeout = 30 * time.Second

// Client fetches configuration documents from an HTTP source.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient creates a fetch client for the given endpoint. The token is
// sent as a bearer credential when non-empty.
func NewClient(endpoint, token string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// FetchDocument retrieves and parses the configuration document.
func (c *Client) FetchDocument(ctx context.Context) (*schema.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch configuration: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("configuration API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return schema.ParseDocument(body)
}

// LoadFile reads and parses a configuration document from a local file.
func LoadFile(path string) (*schema.Document, error) {
	// #nosec G304 -- path comes from operator-supplied configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	return schema.ParseDocument(data)
}
