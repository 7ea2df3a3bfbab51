// Package pushover is a client for the Pushover notification API. A Client
// is tied to one application token and sends messages and glances,
// verifies user keys, and tracks the receipts of emergency (priority 2)
// messages.
package pushover

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spacemonkeygo/spacelog"
)

const DefaultEndpoint = "https://api.pushover.net/1/"

const (
	messagePath = "messages.json"
	glancePath  = "glances.json"
	verifyPath  = "users/validate.json"
	soundPath   = "sounds.json"
	receiptPath = "receipts/"
)

var (
	nowHook = time.Now // for testing
	logger  = spacelog.GetLogger()
)

type HttpClient interface {
	Do(req *http.Request) (resp *http.Response, err error)
}

// Client represents one Pushover application. It is safe for concurrent
// use.
type Client struct {
	endpoint string
	token    string
	client   HttpClient

	mu     sync.Mutex
	sounds map[string]string
}

// NewClient returns a Client sending requests with token. An empty
// endpoint means DefaultEndpoint and a nil client means http.DefaultClient.
func NewClient(endpoint, token string, client HttpClient) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		client:   client,
	}
}

// Token returns the application token the Client sends with every request.
func (c *Client) Token() string { return c.token }

// Sounds returns the sounds recognized by Pushover, keyed by identifier.
// The catalog is fetched on first use and cached for the life of the
// Client. A failed fetch is not cached. The returned map is a copy.
func (c *Client) Sounds(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sounds != nil {
		return copySounds(c.sounds), nil
	}

	resp, err := c.do(ctx, http.MethodGet, soundPath, nil, nil)
	if err != nil {
		return nil, err
	}
	var answer struct {
		Sounds map[string]string `json:"sounds"`
	}
	if err := resp.Decode(&answer); err != nil {
		return nil, err
	}
	if answer.Sounds == nil {
		answer.Sounds = map[string]string{}
	}
	c.sounds = answer.Sounds
	return copySounds(c.sounds), nil
}

func copySounds(sounds map[string]string) map[string]string {
	dup := make(map[string]string, len(sounds))
	for id, name := range sounds {
		dup[id] = name
	}
	return dup
}

// Verify checks that user, and device if not empty, exist. It returns the
// user's active devices, or nil devices and a nil error when the API
// rejects the user or device.
func (c *Client) Verify(ctx context.Context, user, device string) (
	devices []string, err error) {
	params := url.Values{"user": {user}}
	if device != "" {
		params.Set("device", device)
	}
	resp, err := c.do(ctx, http.MethodPost, verifyPath, params, nil)
	if err != nil {
		if RequestError.Contains(err) {
			logger.Warnf("user %s not verified: %v", user, RequestErrors(err))
			return nil, nil
		}
		return nil, err
	}

	var answer struct {
		Devices []string `json:"devices"`
	}
	if err := resp.Decode(&answer); err != nil {
		return nil, err
	}
	if answer.Devices == nil {
		answer.Devices = []string{}
	}
	return answer.Devices, nil
}

// Message sends text to user. opts may be nil. When opts.Priority is
// Emergency the returned MessageRequest can be polled until the
// notification is acknowledged, expires or reaches its callback.
func (c *Client) Message(ctx context.Context, user, text string,
	opts *MessageOptions) (*MessageRequest, error) {
	if opts == nil {
		opts = &MessageOptions{}
	}
	if opts.Sound != "" {
		sounds, err := c.Sounds(ctx)
		if err != nil {
			return nil, err
		}
		if _, ok := sounds[opts.Sound]; !ok {
			return nil, InvalidSoundError.New("%s: invalid sound", opts.Sound)
		}
	}

	params := opts.values()
	params.Set("user", user)
	params.Set("message", text)

	var file *attachment
	switch {
	case opts.Attachment != nil:
		name := opts.AttachmentName
		if name == "" {
			name = "attachment"
		}
		file = &attachment{name: name, r: opts.Attachment}
	case opts.AttachmentPath != "":
		f, err := os.Open(opts.AttachmentPath)
		if err != nil {
			return nil, Error.Wrap(err)
		}
		defer f.Close()
		name := opts.AttachmentName
		if name == "" {
			name = filepath.Base(opts.AttachmentPath)
		}
		file = &attachment{name: name, r: f}
	}

	resp, err := c.do(ctx, http.MethodPost, messagePath, params, file)
	if err != nil {
		return nil, err
	}
	return newMessageRequest(c, resp, opts.Priority)
}

// Glance updates the glance widget of user. opts may be nil.
func (c *Client) Glance(ctx context.Context, user string, opts *GlanceOptions) (
	*Response, error) {
	if opts == nil {
		opts = &GlanceOptions{}
	}
	params := opts.values()
	params.Set("user", user)
	return c.do(ctx, http.MethodPost, glancePath, params, nil)
}
