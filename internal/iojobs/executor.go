// Package iojobs implements jobs.Executor as a JSON client of the remote
// execution service.
//
//	POST {url}/jobs       submit a request, returns a Status
//	GET  {url}/jobs/{id}  returns a Status
package iojobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gnames/gnfmt"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/jobs"
)

// errTimeout is returned by Wait when the configured timeout expires.
var errTimeout = errors.New("timeout")

type executor struct {
	client  *http.Client
	url     string
	poll    time.Duration
	timeout time.Duration
	enc     gnfmt.GNjson
}

// Option configures the executor.
type Option func(*executor)

// OptClient sets the HTTP client.
func OptClient(c *http.Client) Option {
	return func(e *executor) {
		e.client = c
	}
}

// OptPollInterval overrides the initial interval between status checks.
func OptPollInterval(d time.Duration) Option {
	return func(e *executor) {
		e.poll = d
	}
}

// OptTimeout overrides how long Wait polls a job.
func OptTimeout(d time.Duration) Option {
	return func(e *executor) {
		e.timeout = d
	}
}

// New creates an executor for the service configured in cfg.
func New(cfg config.ExecutorConfig, opts ...Option) jobs.Executor {
	res := &executor{
		client:  &http.Client{Timeout: 30 * time.Second},
		url:     strings.TrimRight(cfg.URL, "/"),
		poll:    time.Duration(cfg.PollSeconds) * time.Second,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
	for _, opt := range opts {
		opt(res)
	}
	if res.poll <= 0 {
		res.poll = time.Second
	}
	return res
}

// Submit implements jobs.Executor. Network errors and 5xx responses are
// retried with exponential backoff, other responses are final.
func (e *executor) Submit(
	ctx context.Context,
	req jobs.Request,
) (*jobs.Status, error) {
	if err := req.Validate(); err != nil {
		return nil, RequestError(err)
	}
	body, err := e.enc.Encode(req)
	if err != nil {
		return nil, RequestError(err)
	}

	endpoint := e.url + "/jobs"
	var res jobs.Status
	var final error

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.poll
	b.MaxElapsedTime = e.timeout
	err = backoff.RetryNotify(
		func() error {
			if err := ctx.Err(); err != nil {
				final = err
				return nil
			}
			status, data, err := e.do(ctx, http.MethodPost, endpoint, body)
			if err != nil {
				return err
			}
			if status >= 500 {
				return fmt.Errorf("service responded %d", status)
			}
			if status != http.StatusOK && status != http.StatusCreated &&
				status != http.StatusAccepted {
				final = fmt.Errorf("service responded %d: %s",
					status, strings.TrimSpace(string(data)))
				return nil
			}
			final = e.enc.Decode(data, &res)
			return nil
		},
		b,
		func(err error, d time.Duration) {
			slog.Warn("Job submission failed, retrying",
				"error", err, "retry_in", d)
		},
	)
	if err == nil {
		err = final
	}
	if err != nil {
		return nil, SubmitError(endpoint, err)
	}
	if res.ID == "" {
		return nil, SubmitError(endpoint, fmt.Errorf("service returned no job id"))
	}
	slog.Info("Job submitted", "job_id", res.ID, "state", res.State)
	return &res, nil
}

// Status implements jobs.Executor.
func (e *executor) Status(ctx context.Context, id string) (*jobs.Status, error) {
	endpoint := e.url + "/jobs/" + url.PathEscape(id)
	status, data, err := e.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, StatusError(id, err)
	}
	if status != http.StatusOK {
		return nil, StatusError(id, fmt.Errorf("service responded %d", status))
	}
	var res jobs.Status
	if err = e.enc.Decode(data, &res); err != nil {
		return nil, StatusError(id, err)
	}
	return &res, nil
}

// Wait implements jobs.Executor. Status checks start at the poll interval
// and grow exponentially. A failed job returns its status together with
// FailedError.
func (e *executor) Wait(ctx context.Context, id string) (*jobs.Status, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.poll
	b.MaxInterval = max(e.poll*10, b.InitialInterval)
	b.MaxElapsedTime = e.timeout
	b.Reset()

	for {
		st, err := e.Status(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, TimeoutError(id, ctx.Err())
			}
			return nil, err
		}
		slog.Debug("Job status", "job_id", id, "state", st.State)
		switch st.State {
		case jobs.StateSucceeded:
			return st, nil
		case jobs.StateFailed:
			return st, FailedError(id, st.Message)
		}

		next := b.NextBackOff()
		if next == backoff.Stop {
			return st, TimeoutError(id, errTimeout)
		}
		t := time.NewTimer(next)
		select {
		case <-ctx.Done():
			t.Stop()
			return st, TimeoutError(id, ctx.Err())
		case <-t.C:
		}
	}
}

func (e *executor) do(
	ctx context.Context,
	method, endpoint string,
	body []byte,
) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}
