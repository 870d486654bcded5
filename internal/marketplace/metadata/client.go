// Package metadata fetches off-chain task documents from the
// content-addressed store. Documents are untrusted input: they are decoded
// into a fixed shape and anything beyond that is ignored.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/linguoexchange/linguo-backend/internal/marketplace/task"
	"github.com/linguoexchange/linguo-backend/pkg/logging"
	"github.com/linguoexchange/linguo-backend/pkg/retry"
)

// Fetcher is the off-chain metadata collaborator consumed by the refresher.
type Fetcher interface {
	FetchTaskMetadata(ctx context.Context, pointer string) (*task.Metadata, error)
}

// Client fetches metadata through an IPFS node API when one is configured,
// falling back to plain gateway HTTP otherwise.
type Client struct {
	gatewayHost string
	node        *shell.Shell
	httpClient  *http.Client
	logger      logging.Logger
	retryCfg    *retry.RetryConfig
}

var _ Fetcher = (*Client)(nil)

func NewClient(gatewayHost, nodeAPIURL string, logger logging.Logger) *Client {
	c := &Client{
		gatewayHost: gatewayHost,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
		retryCfg:    retry.DefaultRetryConfig(),
	}
	if nodeAPIURL != "" {
		c.node = shell.NewShell(nodeAPIURL)
	}
	return c
}

// FetchTaskMetadata retrieves and decodes the task document behind pointer.
// Callers treat a failed fetch as "metadata absent", so errors here degrade
// the snapshot rather than block it.
func (c *Client) FetchTaskMetadata(ctx context.Context, pointer string) (*task.Metadata, error) {
	body, err := retry.Retry(ctx, func() ([]byte, error) {
		return c.fetch(ctx, pointer)
	}, c.retryCfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task metadata %s: %w", pointer, err)
	}

	var meta task.Metadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task metadata %s: %w", pointer, err)
	}
	return &meta, nil
}

func (c *Client) fetch(ctx context.Context, pointer string) ([]byte, error) {
	cid := strings.TrimPrefix(strings.TrimPrefix(pointer, "/ipfs/"), "ipfs://")

	if c.node != nil {
		reader, err := c.node.Cat(cid)
		if err != nil {
			return nil, fmt.Errorf("ipfs cat failed: %w", err)
		}
		defer func() {
			_ = reader.Close()
		}()
		return io.ReadAll(reader)
	}

	url := "https://" + c.gatewayHost + "/ipfs/" + cid
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch IPFS content: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch IPFS content: status code %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
