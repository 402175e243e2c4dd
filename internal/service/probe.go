package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gantrylabs/gantry/internal/errx"
)

// How often the readiness endpoint is probed.
const probeInterval = 250 * time.Millisecond

// Polls url until it returns HTTP 200 or the timeout elapses.
//
// The first probe fires immediately so an already-warm service is
// detected without waiting a full interval. Connection errors and
// non-200 responses both count as not-ready; uvicorn accepts
// connections before the application has finished importing, so a
// refused connection and a 500 are the same condition from the
// caller's point of view.
func WaitReady(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{Timeout: 2 * time.Second}

	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()

	for {
		if probe(ctx, client, url) {
			return nil
		}

		select {
		case <-ctx.Done():
			return errx.Wrapf(ErrNotReady, "%s did not return 200 within %s", url, timeout)
		case <-ticker.C:
		}
	}
}

// Performs one readiness probe. The body is drained so the connection
// can be reused across probes.
func probe(ctx context.Context, client *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Debug("readiness probe failed", "url", url, "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}
