// Package httpclient is a small JSON client over fasthttp for the canister gateways the service calls.
package httpclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/url"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/valyala/fasthttp"
)

type Config struct {
	// Debug logs every request.
	Debug bool

	// Headers are sent with every request.
	Headers map[string]string

	// Timeout of a single request, zero means no timeout besides the context deadline.
	Timeout time.Duration
}

// Client sends requests relative to a base URL.
type Client struct {
	baseURL url.URL
	config  Config
}

func New(baseURL string, config ...Config) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse base url")
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.Newf("base url %q must be absolute", baseURL)
	}
	c := &Client{baseURL: *parsed}
	if len(config) > 0 {
		c.config = config[0]
	}
	return c, nil
}

// BaseURL returns a copy of the base URL of the client.
func (c *Client) BaseURL() *url.URL {
	u := c.baseURL
	return &u
}

// Response is a fully read response.
type Response struct {
	URL         string
	statusCode  int
	contentType string
	body        []byte
}

func (r *Response) StatusCode() int { return r.statusCode }

func (r *Response) Body() []byte { return r.body }

// UnmarshalBody decodes a JSON body into out.
func (r *Response) UnmarshalBody(out any) error {
	mediaType, _, err := mime.ParseMediaType(r.contentType)
	if err != nil || mediaType != "application/json" {
		return errors.Errorf("unsupported content type %q from %s: %q", r.contentType, r.URL, string(r.body))
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return errors.Wrapf(err, "can't unmarshal json body from %s, %q", r.URL, string(r.body))
	}
	return nil
}

// Get sends a GET request to path with the optional query.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.do(ctx, fasthttp.MethodGet, path, query, nil)
}

// PostJSON marshals body as JSON and sends it with POST.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "can't marshal request body")
	}
	return c.do(ctx, fasthttp.MethodPost, path, nil, data)
}

func (c *Client) do(ctx context.Context, method, reqPath string, query url.Values, body []byte) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	target := c.BaseURL()
	target.Path = path.Join(target.Path, reqPath)
	if len(query) > 0 {
		merged := target.Query()
		for k, vs := range query {
			for _, v := range vs {
				merged.Add(k, v)
			}
		}
		target.RawQuery = merged.Encode()
	}
	uri := target.String()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	start := time.Now()
	err := c.send(ctx, req, resp)
	if c.config.Debug {
		logger.DebugContext(ctx, "Finished request",
			slog.String("package", "httpclient"),
			slog.String("method", method),
			slog.String("url", uri),
			slog.Int("req_content_length", len(body)),
			slog.Int("status_code", resp.StatusCode()),
			slog.Int("resp_content_length", len(resp.Body())),
			slog.Duration("latency", time.Since(start)),
		)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, uri)
	}

	respBody, err := resp.BodyUncompressed()
	if err != nil {
		return nil, errors.Wrapf(err, "can't uncompress body from %s", uri)
	}
	return &Response{
		URL:         uri,
		statusCode:  resp.StatusCode(),
		contentType: string(resp.Header.ContentType()),
		body:        append([]byte(nil), respBody...),
	}, nil
}

// send applies the tighter of the client timeout and the context deadline.
func (c *Client) send(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	timeout := c.config.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	if timeout > 0 {
		return fasthttp.DoTimeout(req, resp, timeout)
	}
	return fasthttp.Do(req, resp)
}
