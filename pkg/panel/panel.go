// Package panel talks to the proxy panel backend that owns the hosts.
package panel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"github.com/naiba/hostdeck/model"
	"github.com/naiba/hostdeck/pkg/utils"
)

const tokenCacheKey = "panel::token"

// tokens issued by the panel are valid for a day by default, refresh well
// before that.
const tokenTTL = 12 * time.Hour

var ErrNoCredentials = errors.New("panel: no credentials configured")

// APIError is a non-2xx answer of the panel.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("panel: http %d", e.Status)
	}
	return fmt.Sprintf("panel: http %d: %s", e.Status, e.Detail)
}

type Options struct {
	BaseURL            string
	Username           string
	Password           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

type Client struct {
	base     string
	username string
	password string
	http     *http.Client
	cache    *cache.Cache
}

func New(opt Options, c *cache.Cache) *Client {
	if c == nil {
		c = cache.New(tokenTTL, time.Hour)
	}
	return &Client{
		base:     strings.TrimRight(opt.BaseURL, "/"),
		username: opt.Username,
		password: opt.Password,
		http: utils.NewHttpClient(utils.HttpClientOption{
			Timeout:            opt.Timeout,
			InsecureSkipVerify: opt.InsecureSkipVerify,
		}),
		cache: c,
	}
}

// GetHosts fetches the complete host list. null entries are skipped.
func (c *Client) GetHosts(ctx context.Context) ([]model.Host, error) {
	var raw []*model.Host
	if err := c.do(ctx, http.MethodGet, "/api/hosts", nil, &raw); err != nil {
		return nil, err
	}
	return lo.FilterMap(raw, func(h *model.Host, _ int) (model.Host, bool) {
		if h == nil {
			return model.Host{}, false
		}
		return *h, true
	}), nil
}

// ReplaceHosts overwrites the panel's host list with hosts.
func (c *Client) ReplaceHosts(ctx context.Context, hosts []model.Host) error {
	if hosts == nil {
		hosts = []model.Host{}
	}
	body, err := utils.Json.Marshal(hosts)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/api/hosts", body, nil)
}

func (c *Client) DeleteHost(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/host/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	// the token may have been revoked or the panel restarted with a new secret
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.cache.Delete(tokenCacheKey)
		if resp, err = c.send(ctx, method, path, body); err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	return utils.Json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	if t, ok := c.cache.Get(tokenCacheKey); ok {
		return t.(string), nil
	}
	if c.username == "" {
		return "", ErrNoCredentials
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.username)
	form.Set("password", c.password)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/admin/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", readAPIError(resp)
	}

	var tr tokenResponse
	if err := utils.Json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", errors.New("panel: empty access token")
	}
	c.cache.Set(tokenCacheKey, tr.AccessToken, tokenTTL)
	return tr.AccessToken, nil
}

type errorBody struct {
	Detail any `json:"detail"`
}

func readAPIError(resp *http.Response) error {
	e := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var body errorBody
	if err := utils.Json.Unmarshal(raw, &body); err == nil && body.Detail != nil {
		switch d := body.Detail.(type) {
		case string:
			e.Detail = d
		default:
			b, _ := utils.Json.Marshal(d)
			e.Detail = string(b)
		}
	} else {
		e.Detail = strings.TrimSpace(string(raw))
	}
	return e
}
