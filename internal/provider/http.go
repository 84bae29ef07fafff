package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/career-roadmap/ai-gateway/internal/errx"
	"github.com/career-roadmap/ai-gateway/internal/logx"
)

const maxBodyBytes = 4 << 20

func isRetryableStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// classifyTransport turns a client-side failure into a provider error.
func classifyTransport(engine string, err error) *errx.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errx.Transient(engine, "request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return errx.Provider(engine, "request canceled", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errx.Transient(engine, "request timed out", err)
	}
	return errx.Transient(engine, "provider unreachable", err)
}

func statusError(engine string, code int, body []byte) *errx.Error {
	cause := fmt.Errorf("upstream status %d: %s", code, truncate(body, 256))
	e := errx.Provider(engine, fmt.Sprintf("upstream returned status %d", code), cause)
	e.Upstream = code
	e.Retryable = isRetryableStatus(code)
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		e.Message = "credentials rejected"
	}
	return e
}

func malformed(engine, detail string, body []byte) *errx.Error {
	return errx.Provider(engine, "malformed response", fmt.Errorf("%s: %s", detail, truncate(body, 256)))
}

// postJSON sends payload with a bearer token and returns the raw 2xx body.
func postJSON(ctx context.Context, client *http.Client, engine, url, apiKey string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errx.Provider(engine, "could not encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errx.Provider(engine, "could not build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, classifyTransport(engine, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyTransport(engine, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log := logx.Ctx(ctx)
		log.Debug().
			Str(logx.FieldEngine, engine).
			Int(logx.FieldStatus, resp.StatusCode).
			Str("body", truncate(raw, 512)).
			Msg("provider returned non-2xx")
		return nil, statusError(engine, resp.StatusCode, raw)
	}
	return raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
