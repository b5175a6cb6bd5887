package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// userHeader matches the header the job service reads the caller from.
const userHeader = "X-User-ID"

type apiClient struct {
	base *url.URL
	user string
	http *http.Client
}

func newAPIClient(opts *globalOptions) (*apiClient, error) {
	u, err := url.Parse(strings.TrimRight(opts.server, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", opts.server, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", opts.server)
	}
	return &apiClient{base: u, user: opts.user, http: &http.Client{Timeout: 30 * time.Second}}, nil
}

// do sends body as JSON and decodes a 2xx response into out.
func (c *apiClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base.String()+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.Header.Set(userHeader, c.user)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, apiErr.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// websocketURL returns the ws(s) URL for path on the same host.
func (c *apiClient) websocketURL(path string) string {
	u := *c.base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

func (c *apiClient) header() http.Header {
	h := http.Header{}
	if c.user != "" {
		h.Set(userHeader, c.user)
	}
	return h
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
