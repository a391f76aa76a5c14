package qsharp_bridge_go

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultUrl is the default evaluator service endpoint URL
	DefaultUrl = "http://localhost:8081"
	// DefaultTimeout is the default timeout for each request
	DefaultTimeout = 30 * time.Second
)

type dialOptions struct {
	url     string
	timeout time.Duration
	client  *http.Client
	headers http.Header
}

// DialOption configures how the connection works
type DialOption func(*dialOptions)

// WithEvaluatorUrl configures the connection to use the provided url for the evaluator endpoints
func WithEvaluatorUrl(url string) DialOption {
	return func(options *dialOptions) {
		options.url = url
	}
}

// WithTimeout configures the timeout for each request
func WithTimeout(timeout time.Duration) DialOption {
	return func(options *dialOptions) {
		options.timeout = timeout
	}
}

// WithHTTPClient configures the connection to send requests with c
func WithHTTPClient(c *http.Client) DialOption {
	return func(options *dialOptions) {
		options.client = c
	}
}

// WithHeader configures a header sent with every request
func WithHeader(key, value string) DialOption {
	return func(options *dialOptions) {
		if options.headers == nil {
			options.headers = make(http.Header)
		}
		options.headers.Add(key, value)
	}
}

// Conn is an Evaluator backed by a remote evaluator service over HTTP
type Conn struct {
	dopts dialOptions
	c     *http.Client
}

// Dial takes a list of DialOptions and returns a connection to an evaluator service
func Dial(options ...DialOption) (*Conn, error) {
	var dopts dialOptions
	for _, option := range options {
		option(&dopts)
	}

	// Set defaults
	if dopts.url == "" {
		dopts.url = DefaultUrl
	}
	dopts.url = strings.TrimRight(dopts.url, "/")

	if dopts.timeout == 0 {
		dopts.timeout = DefaultTimeout
	}

	c := dopts.client
	if c == nil {
		c = &http.Client{Timeout: dopts.timeout}
	}

	if !strings.HasPrefix(dopts.url, "http://") && !strings.HasPrefix(dopts.url, "https://") {
		return nil, NewEvalErr("", fmt.Sprintf("invalid evaluator url %q", dopts.url), "url must start with http:// or https://")
	}

	return &Conn{dopts: dopts, c: c}, nil
}

// evalReq is the body of an eval request
type evalReq struct {
	Code string `json:"code"`
}

// evalErr is the error object returned by the evaluator service
type evalErr struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

type evalResp struct {
	Err   *evalErr        `json:"error,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Reset asks the service to discard all loaded definitions
func (c *Conn) Reset(ctx context.Context) error {
	_, err := c.post(ctx, "reset", nil)
	return err
}

// Eval submits source text and returns the value it evaluated to
func (c *Conn) Eval(ctx context.Context, source string) (json.RawMessage, error) {
	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(evalReq{Code: source}); err != nil {
		return nil, err
	}

	r, err := c.post(ctx, "eval", &b)
	if err != nil {
		return nil, err
	}
	if len(r.Value) == 0 {
		return json.RawMessage("null"), nil
	}
	return r.Value, nil
}

// newRequest is simply just a helper for generating requests
func (c *Conn) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s/%s", c.dopts.url, path), body)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.dopts.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if method == http.MethodPost || method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// decode is simply a helper for decoding json
func (c *Conn) decode(r io.Reader, i interface{}) (err error) {
	err = json.NewDecoder(r).Decode(i)
	return
}

// do runs a request and turns evaluator error bodies and bad status codes into errors
func (c *Conn) do(req *http.Request) (*evalResp, error) {
	resp, err := c.c.Do(req)
	if err != nil {
		return nil, NewEvalErr("", "evaluator service unreachable", err.Error())
	}
	defer resp.Body.Close()

	var r evalResp
	decodeErr := c.decode(resp.Body, &r)
	if decodeErr == io.EOF {
		decodeErr = nil
	}

	switch {
	case r.Err != nil:
		return nil, NewEvalErr(r.Err.Kind, r.Err.Message, fmt.Sprintf("%s %s returned %d", req.Method, req.URL.Path, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, NewEvalErr("", "failed to get proper response from evaluator", fmt.Sprintf("%s %s returned %d", req.Method, req.URL.Path, resp.StatusCode))
	case decodeErr != nil:
		return nil, NewEvalErr("", "malformed evaluator response", decodeErr.Error())
	}
	return &r, nil
}

// post is a convenience wrapper around a POST request
func (c *Conn) post(ctx context.Context, path string, body io.Reader) (*evalResp, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}
