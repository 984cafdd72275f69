// Package api is the facade every network call of the client goes through.
// It injects the bearer credential, performs the transport call with a
// per-request deadline, routes failures to the classifier, and drives the
// retry policy until a terminal result is reached.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/riceguard/riceguard/internal/client/apierr"
	"github.com/riceguard/riceguard/internal/client/retryx"
	"github.com/riceguard/riceguard/internal/client/session"
	"github.com/riceguard/riceguard/internal/logging"
)

// DefaultTimeout is the per-attempt deadline when none is configured.
const DefaultTimeout = 10 * time.Second

// Client composes the session store, classifier and retry policy around a
// plain *http.Client. The http.Client should share its cookie jar with the
// session store's cookie storage so server-set credentials are visible to
// both.
type Client struct {
	baseURL    string
	httpc      *http.Client
	tokens     *session.Store
	classifier *apierr.Classifier
	retry      *retryx.Policy
	timeout    time.Duration
	log        logging.Logger
}

// New builds the facade. timeout <= 0 selects DefaultTimeout.
func New(baseURL string, httpc *http.Client, tokens *session.Store,
	classifier *apierr.Classifier, policy *retryx.Policy,
	timeout time.Duration, log logging.Logger) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpc:      httpc,
		tokens:     tokens,
		classifier: classifier,
		retry:      policy,
		timeout:    timeout,
		log:        log,
	}, nil
}

// Do executes the request, retrying per policy, and decodes the success
// body into out (ignored when out is nil). The returned error is the
// terminal *apierr.Record for request failures, or a plain error for
// caller-side problems such as an unencodable body.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	body, contentType, err := req.encodeBody()
	if err != nil {
		return err
	}
	target := c.resolve(req)

	doErr := c.retry.Do(ctx, func(ctx context.Context) error {
		if rec := c.attempt(ctx, req.method(), target, body, contentType, out); rec != nil {
			return c.retry.Wrap(rec)
		}
		return nil
	})
	if doErr == nil {
		return nil
	}
	var rec *apierr.Record
	if errors.As(doErr, &rec) {
		return rec
	}
	return doErr
}

// attempt performs one transport call. A nil return means success and, when
// requested, a decoded body in out.
func (c *Client) attempt(ctx context.Context, method, target string,
	body []byte, contentType string, out any) *apierr.Record {

	requestID := uuid.NewString()

	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(actx, method, target, reader)
	if err != nil {
		return c.classify(ctx, apierr.Outcome{
			URL: target, Method: method, RequestID: requestID, Err: err,
		})
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	// Absence of a credential is not an error: public endpoints accept
	// unauthenticated requests.
	if tok := c.tokens.ValidatedToken(ctx); tok != "" {
		httpReq.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		timedOut := requestTimedOut(err, actx)
		c.debug(ctx, "transport failure", "method", method, "url", target,
			"request_id", requestID, "timed_out", timedOut, "error", err)
		return c.classify(ctx, apierr.Outcome{
			URL: target, Method: method, RequestID: requestID,
			Err: err, TimedOut: timedOut,
		})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.classify(ctx, apierr.Outcome{
			URL: target, Method: method, RequestID: requestID, Err: err,
		})
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return c.classify(ctx, apierr.Outcome{
				URL: target, Method: method, RequestID: requestID,
				Status: resp.StatusCode, Body: raw, ParseFailure: true,
			})
		}
		return nil
	}

	c.debug(ctx, "protocol failure", "method", method, "url", target,
		"request_id", requestID, "status", resp.StatusCode)
	return c.classify(ctx, apierr.Outcome{
		URL: target, Method: method, RequestID: requestID,
		Status: resp.StatusCode, Body: raw,
	})
}

func (c *Client) classify(ctx context.Context, out apierr.Outcome) *apierr.Record {
	return c.classifier.Classify(ctx, out)
}

func (c *Client) resolve(req Request) string {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	return target
}

func requestTimedOut(err error, actx context.Context) bool {
	if errors.Is(err, context.DeadlineExceeded) || actx.Err() == context.DeadlineExceeded {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}

func (c *Client) debug(ctx context.Context, msg string, args ...any) {
	if c.log != nil {
		c.log.Debug(ctx, msg, args...)
	}
}

// ---- convenience wrappers ----

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, JSON: in}, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// Upload issues a POST with a multipart body.
func (c *Client) Upload(ctx context.Context, path string, mp *Multipart, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Multipart: mp}, out)
}
