// Package groupme is a minimal read-only client for the GroupMe v3 REST API.
package groupme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/groupstats/internal/core"
)

const (
	userAgent       = "groupstats/1.0"
	maxBodyBytes    = 8 << 20
	defaultTimeout  = 5 * time.Second
	defaultPerPage  = 100
	tokenQueryParam = "token"
)

var errMissingField = errors.New("malformed response")

// Options configure a Client.
type Options struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	GroupsPerPage int
	HTTPClient    *http.Client
}

// Client issues authenticated GET requests against GroupMe.
// Every call is a single request with its own timeout; nothing is retried.
type Client struct {
	baseURL       string
	token         string
	timeout       time.Duration
	groupsPerPage int
	http          *http.Client
	log           *zerolog.Logger
}

// New creates a client. A nil logger disables logging.
func New(opts Options, logger *zerolog.Logger) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.GroupsPerPage <= 0 {
		opts.GroupsPerPage = defaultPerPage
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	return &Client{
		baseURL:       strings.TrimSuffix(opts.BaseURL, "/"),
		token:         opts.Token,
		timeout:       opts.Timeout,
		groupsPerPage: opts.GroupsPerPage,
		http:          opts.HTTPClient,
		log:           logger,
	}
}

// Groups lists the groups the token owner belongs to.
func (c *Client) Groups(ctx context.Context) ([]core.Group, error) {
	const op = "list groups"

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(c.groupsPerPage))

	var groups []wireGroup
	if err := c.get(ctx, op, "/groups", query, &groups); err != nil {
		return nil, err
	}
	if groups == nil {
		return nil, &core.FetchError{Op: op, Err: fmt.Errorf("%w: response is not a group list", errMissingField)}
	}

	out := make([]core.Group, 0, len(groups))
	for _, g := range groups {
		id := g.GroupID
		if id == "" {
			id = g.ID
		}
		if id == "" {
			return nil, &core.FetchError{Op: op, Err: fmt.Errorf("%w: group without id", errMissingField)}
		}
		out = append(out, core.Group{ID: id, Name: g.Name})
	}
	return out, nil
}

// Members loads the full roster of a group in one call.
func (c *Client) Members(ctx context.Context, groupID string) ([]core.Member, error) {
	const op = "get members"

	var group wireGroupDetail
	if err := c.get(ctx, op, "/groups/"+url.PathEscape(groupID), nil, &group); err != nil {
		return nil, err
	}
	if group.Members == nil {
		return nil, &core.FetchError{Op: op, Err: fmt.Errorf("%w: members missing", errMissingField)}
	}

	out := make([]core.Member, 0, len(*group.Members))
	for _, m := range *group.Members {
		if m.UserID == "" {
			return nil, &core.FetchError{Op: op, Err: fmt.Errorf("%w: member without user_id", errMissingField)}
		}
		out = append(out, core.Member{UserID: m.UserID, Nickname: m.Nickname})
	}
	return out, nil
}

// Messages fetches one page of at most limit messages older than beforeID, newest first.
// An empty beforeID requests the most recent page.
func (c *Client) Messages(ctx context.Context, groupID string, limit int, beforeID string) ([]core.Message, error) {
	const op = "list messages"

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if beforeID != "" {
		query.Set("before_id", beforeID)
	}

	var page wireMessagePage
	if err := c.get(ctx, op, "/groups/"+url.PathEscape(groupID)+"/messages", query, &page); err != nil {
		return nil, err
	}
	if page.Messages == nil {
		return nil, &core.FetchError{Op: op, Err: fmt.Errorf("%w: messages missing", errMissingField)}
	}

	out := make([]core.Message, 0, len(*page.Messages))
	for _, m := range *page.Messages {
		if m.ID == "" {
			return nil, &core.FetchError{Op: op, Err: fmt.Errorf("%w: message without id", errMissingField)}
		}
		out = append(out, m.toCore())
	}
	return out, nil
}

// get performs one GET and decodes the envelope's response object into dst.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if query == nil {
		query = url.Values{}
	}
	query.Set(tokenQueryParam, c.token)
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &core.FetchError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &core.FetchError{Op: op, Err: redact(err, c.token)}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", op).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("groupme request")

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &core.FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &core.FetchError{Op: op, Status: resp.StatusCode, Err: statusError(resp.StatusCode, body)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &core.FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if len(env.Response) == 0 || string(env.Response) == "null" {
		return &core.FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%w: response missing", errMissingField)}
	}
	if err := json.Unmarshal(env.Response, dst); err != nil {
		return &core.FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statusError(status int, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Meta.Errors) > 0 {
		return errors.New(strings.Join(env.Meta.Errors, "; "))
	}
	if status == http.StatusNotModified {
		return errors.New("no messages before cursor")
	}
	return errors.New(http.StatusText(status))
}

// redact strips the token, raw or query-escaped, from the URL embedded in transport errors.
func redact(err error, token string) error {
	var urlErr *url.Error
	if token == "" || !errors.As(err, &urlErr) {
		return err
	}
	redacted := strings.ReplaceAll(urlErr.URL, url.QueryEscape(token), "REDACTED")
	redacted = strings.ReplaceAll(redacted, token, "REDACTED")
	return &url.Error{
		Op:  urlErr.Op,
		URL: redacted,
		Err: urlErr.Err,
	}
}
