package notify

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/crickarena/crickarena/internal/platform/logging"
	"github.com/crickarena/crickarena/internal/platform/resilience"
)

const (
	defaultTimeout          = 5 * time.Second
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
	defaultHalfOpenMaxReq   = 2
)

type GatewayConfig struct {
	HTTPClient       *http.Client
	BaseURL          string
	Token            string
	Timeout          time.Duration
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	Logger           *logging.Logger
}

// Gateway delivers push events to connected clients through an external
// websocket gateway. Delivery is best-effort: a user without an open
// connection is a no-op, and a misbehaving gateway trips the circuit
// breaker instead of stalling callers.
type Gateway struct {
	httpClient *http.Client
	baseURL    string
	token      string
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
}

func NewGateway(cfg GatewayConfig) *Gateway {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	failureThreshold := cfg.FailureThreshold
	if failureThreshold <= 0 {
		failureThreshold = defaultFailureThreshold
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = defaultOpenTimeout
	}
	halfOpenMaxReq := cfg.HalfOpenMaxReq
	if halfOpenMaxReq <= 0 {
		halfOpenMaxReq = defaultHalfOpenMaxReq
	}

	return &Gateway{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:      strings.TrimSpace(cfg.Token),
		breaker:    resilience.NewCircuitBreaker(failureThreshold, openTimeout, halfOpenMaxReq),
		logger:     logger,
	}
}

type pushEnvelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (g *Gateway) Notify(ctx context.Context, userID, event string, payload any) error {
	return g.push(ctx, "/v1/push/users/"+url.PathEscape(userID), event, payload)
}

func (g *Gateway) Broadcast(ctx context.Context, room, event string, payload any) error {
	return g.push(ctx, "/v1/push/rooms/"+url.PathEscape(room), event, payload)
}

func (g *Gateway) push(ctx context.Context, path, event string, payload any) error {
	if g.baseURL == "" {
		return crerr.New("push gateway base url is not configured")
	}
	if err := g.breaker.Allow(); err != nil {
		return crerr.Wrap(err, "push gateway circuit open")
	}

	body, err := sonic.Marshal(pushEnvelope{Event: event, Payload: payload})
	if err != nil {
		return crerr.Wrap(err, "marshal push envelope")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(buf.B))
	if err != nil {
		return crerr.Wrap(err, "create push request")
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.breaker.RecordFailure()
		return crerr.Wrapf(err, "push %s event=%s", path, event)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// No open connection for the target; best-effort delivery
		// treats this as success.
		g.breaker.RecordSuccess()
		g.logger.DebugContext(ctx, "push target not connected", "path", path, "event", event)
		return nil
	case resp.StatusCode/100 == 2:
		g.breaker.RecordSuccess()
		return nil
	default:
		g.breaker.RecordFailure()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return crerr.Newf("push %s event=%s status=%d body=%s", path, event, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
}
