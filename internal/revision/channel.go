// Package revision looks up the two revisions a check compares: the latest
// one published on a channel and the one the local system runs.
package revision

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/imroc/req/v3"

	"github.com/nixstatus/nixstatus/internal/version"
)

const (
	// ChannelPlaceholder is replaced by the channel name in a URL template.
	ChannelPlaceholder = "{channel}"

	DefaultURLTemplate = "https://nixos.org/channels/" + ChannelPlaceholder + "/git-revision"
	DefaultTimeout     = 30 * time.Second

	maxRedirects = 10
)

// ChannelClient fetches the revision a channel currently points at.
type ChannelClient struct {
	client      *req.Client
	urlTemplate string
}

// NewChannelClient returns a client for channels served under urlTemplate.
// A non-positive timeout falls back to DefaultTimeout.
func NewChannelClient(urlTemplate string, timeout time.Duration) *ChannelClient {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := req.C().
		SetUserAgent(version.UserAgent()).
		SetTimeout(timeout).
		SetRedirectPolicy(req.MaxRedirectPolicy(maxRedirects))

	return &ChannelClient{
		client:      client,
		urlTemplate: urlTemplate,
	}
}

// URL returns the announcement URL of channel. The name is inserted as is.
func (c *ChannelClient) URL(channel string) (string, error) {
	raw := strings.ReplaceAll(c.urlTemplate, ChannelPlaceholder, channel)

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidURL, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	return u.String(), nil
}

// Revision returns the body of the channel's revision announcement. The body
// is returned verbatim.
func (c *ChannelClient) Revision(ctx context.Context, channel string) (string, error) {
	u, err := c.URL(channel)
	if err != nil {
		return "", err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		Get(u)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", u, err)
	}

	if !resp.IsSuccessState() {
		return "", &StatusError{
			URL:    u,
			Code:   resp.GetStatusCode(),
			Status: resp.GetStatus(),
		}
	}

	body, err := resp.ToBytes()
	if err != nil {
		return "", fmt.Errorf("read response from %s: %w", u, err)
	}
	if !utf8.Valid(body) {
		return "", fmt.Errorf("%w: response from %s", ErrInvalidText, u)
	}

	return string(body), nil
}
