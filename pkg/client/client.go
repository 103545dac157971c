package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the admin routes of an mcauth emulator (`mcauth serve`).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type urlBuilder struct {
	base   string
	path   string
	params map[string]string
	query  url.Values
}

func (c *Client) url() *urlBuilder {
	return &urlBuilder{
		base:   c.baseURL,
		params: make(map[string]string),
		query:  make(url.Values),
	}
}

func (u *urlBuilder) setPath(path string) *urlBuilder {
	u.path = path
	return u
}

func (u *urlBuilder) setPathParam(name, value string) *urlBuilder {
	u.params[name] = value
	return u
}

func (u *urlBuilder) addQueryParam(name string, value any) *urlBuilder {
	u.query.Add(name, fmt.Sprint(value))
	return u
}

func (u *urlBuilder) build() string {
	path := u.path
	for name, value := range u.params {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	// the mux pattern suffix marking an exact match is not part of the path
	path = strings.TrimSuffix(path, "{$}")
	result := u.base + path
	if len(u.query) > 0 {
		result += "?" + u.query.Encode()
	}
	return result
}
