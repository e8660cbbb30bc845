// Package transport implements the authenticated HTTP transport: it attaches
// the stored access token to outgoing requests and recovers from 401s by
// refreshing the token once and replaying the request.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/core/ports"
	"github.com/colonydesk/backoffice/internal/pkg/metrics"
	"github.com/colonydesk/backoffice/internal/pkg/tokeninfo"
)

const (
	defaultRefreshTimeout = 10 * time.Second

	// There is one session per process, so every refresh shares one flight.
	flightKey = "refresh"
)

// authEndpoints are never decorated with a bearer token and never trigger a
// refresh. Matching is on the path suffix so any API base path works.
var authEndpoints = []string{"/auth/login", "/auth/register", "/auth/refresh"}

// IsAuthEndpoint reports whether path targets an authentication endpoint.
func IsAuthEndpoint(path string) bool {
	path = strings.TrimRight(path, "/")
	for _, suffix := range authEndpoints {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// attempt is the per-request refresh state.
type attempt int

const (
	notRetried attempt = iota
	retrying
	exhausted
)

func (a attempt) String() string {
	switch a {
	case notRetried:
		return "not_retried"
	case retrying:
		return "retrying"
	default:
		return "exhausted"
	}
}

// Transport is an http.RoundTripper that injects the bearer credential and
// drives the refresh protocol. It is safe for concurrent use.
type Transport struct {
	base           http.RoundTripper
	store          ports.CredentialStore
	refresher      ports.TokenRefresher
	terminator     ports.SessionTerminator
	refreshTimeout time.Duration
	flights        singleflight.Group
	log            zerolog.Logger
}

// New returns a Transport sending through base (http.DefaultTransport when
// nil). refresher must not itself go through this transport.
func New(
	base http.RoundTripper,
	store ports.CredentialStore,
	refresher ports.TokenRefresher,
	refreshTimeout time.Duration,
	log zerolog.Logger,
) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if refreshTimeout <= 0 {
		refreshTimeout = defaultRefreshTimeout
	}
	return &Transport{
		base:           base,
		store:          store,
		refresher:      refresher,
		refreshTimeout: refreshTimeout,
		log:            log,
	}
}

// SetTerminator registers the session teardown invoked after an
// unrecoverable refresh failure. Call it before the transport is used.
func (t *Transport) SetTerminator(term ports.SessionTerminator) {
	t.terminator = term
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	body, err := replayableBody(req)
	if err != nil {
		return nil, fmt.Errorf("transport: buffer request body: %w", err)
	}

	authEndpoint := IsAuthEndpoint(req.URL.Path)

	var sent string
	if !authEndpoint {
		cred, _, err := t.store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("transport: load credential: %w", err)
		}
		sent = cred.AccessToken
	}

	out, err := cloneWithToken(req, body, sent)
	if err != nil {
		return nil, err
	}
	resp, err := t.base.RoundTrip(out)
	if err != nil || authEndpoint || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	return t.recoverUnauthorized(req, resp, body, sent)
}

// recoverUnauthorized runs the refresh protocol for one originating request.
// The request moves notRetried → retrying → exhausted; a 401 on the replay is
// returned to the caller as is.
func (t *Transport) recoverUnauthorized(req *http.Request, resp *http.Response, body bodyFunc, sent string) (*http.Response, error) {
	ctx := req.Context()
	state := retrying
	log := t.log.With().Str("method", req.Method).Str("path", req.URL.Path).Logger()

	cred, _, err := t.store.Load(ctx)
	if err != nil {
		drainAndClose(resp)
		return nil, fmt.Errorf("transport: load credential: %w", err)
	}
	if domain.IsDemoToken(cred.RefreshToken) {
		metrics.RefreshTotal.WithLabelValues("demo_skipped").Inc()
		log.Debug().Msg("401 with demo credentials, not refreshing")
		return resp, nil
	}
	drainAndClose(resp)

	token, err := t.refresh(ctx, sent)
	if err != nil {
		log.Warn().Err(err).Str("state", state.String()).Msg("token refresh failed")
		t.fail(ctx, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrRefreshFailed, err)
	}

	state = exhausted
	retry, err := cloneWithToken(req, body, token)
	if err != nil {
		return nil, err
	}
	resp, err = t.base.RoundTrip(retry)
	if err != nil {
		metrics.RetriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.RetriesTotal.WithLabelValues(statusClass(resp.StatusCode)).Inc()
	log.Debug().Int("status", resp.StatusCode).Str("state", state.String()).Msg("request replayed after refresh")
	return resp, nil
}

// refresh joins the single in-flight refresh, starting one if none is
// running. The caller waits for the flight or its own cancellation.
func (t *Transport) refresh(ctx context.Context, sent string) (string, error) {
	ch := t.flights.DoChan(flightKey, func() (any, error) {
		return t.runFlight(ctx, sent)
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.RefreshCoalescedTotal.Inc()
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// runFlight performs one refresh. It is detached from the starting caller's
// cancellation because other requests may be waiting on it.
func (t *Transport) runFlight(parent context.Context, sent string) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), t.refreshTimeout)
	defer cancel()

	cred, _, err := t.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}

	// An earlier flight already rotated the token this request was sent with.
	if cred.AccessToken != "" && cred.AccessToken != sent {
		metrics.RefreshTotal.WithLabelValues("reused").Inc()
		return cred.AccessToken, nil
	}
	if cred.RefreshToken == "" {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrNoRefreshToken
	}

	start := time.Now()
	fresh, err := t.refresher.Refresh(ctx, cred.RefreshToken)
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		return "", err
	}

	if fresh.RefreshToken != "" {
		err = t.store.Save(ctx, fresh)
	} else {
		err = t.store.SaveAccessToken(ctx, fresh.AccessToken)
	}
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}

	metrics.RefreshTotal.WithLabelValues("success").Inc()
	ev := t.log.Info().Bool("rotated_refresh_token", fresh.RefreshToken != "")
	if info, ok := tokeninfo.Inspect(fresh.AccessToken); ok {
		ev = ev.Str("subject", info.Subject).Time("expires_at", info.ExpiresAt)
	}
	ev.Msg("access token refreshed")
	return fresh.AccessToken, nil
}

// fail escalates an unrecoverable refresh failure to a session teardown,
// unless the session runs on demo credentials.
func (t *Transport) fail(ctx context.Context, cause error) {
	cred, _, err := t.store.Load(ctx)
	if err == nil && domain.IsDemoToken(cred.AccessToken) {
		t.log.Debug().Msg("demo session, skipping forced logout")
		return
	}
	if t.terminator != nil {
		t.terminator.Teardown(ctx, cause)
		return
	}
	if err := t.store.Clear(ctx); err != nil {
		t.log.Error().Err(err).Msg("failed to clear credentials")
	}
}

type bodyFunc func() (io.ReadCloser, error)

// replayableBody returns a factory producing fresh copies of the request
// body, buffering it when the request cannot rewind on its own.
func replayableBody(req *http.Request) (bodyFunc, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		first := true
		return func() (io.ReadCloser, error) {
			if first {
				first = false
				return req.Body, nil
			}
			return req.GetBody()
		}, nil
	}

	buf, err := io.ReadAll(req.Body)
	closeErr := req.Body.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}, nil
}

// cloneWithToken copies req with a fresh body and the given bearer token.
// An empty token strips any Authorization header the caller set.
func cloneWithToken(req *http.Request, body bodyFunc, token string) (*http.Request, error) {
	out := req.Clone(req.Context())
	if body != nil {
		rc, err := body()
		if err != nil {
			return nil, fmt.Errorf("transport: rewind request body: %w", err)
		}
		out.Body = rc
	}
	if token == "" {
		out.Header.Del("Authorization")
	} else {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	return out, nil
}

func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// IsRefreshFailure reports whether err came from an unrecoverable refresh.
func IsRefreshFailure(err error) bool {
	return errors.Is(err, domain.ErrRefreshFailed)
}
