package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hireloop",
		Subsystem: "judge",
		Name:      "run_duration_seconds",
		Help:      "Duration of remote judge executions",
		Buckets:   prometheus.DefBuckets,
	}, []string{"language_id"})

	runFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hireloop",
		Subsystem: "judge",
		Name:      "run_failures_total",
		Help:      "Number of judge executions that failed before producing a verdict",
	}, []string{"language_id", "reason"})
)

const maxErrorBodyBytes = 2048

// Config groups judge client configuration values.
type Config struct {
	BaseURL    string
	APIKey     string
	APIHost    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client talks to a Judge0-compatible execution service over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	apiHost string
	http    *http.Client
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// NewClient constructs a judge client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("judge base url is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		apiHost: cfg.APIHost,
		http:    httpClient,
		tracer:  otel.Tracer("github.com/hireloop/hireloop-api/pkg/judge"),
		logger:  logger.With().Str("component", "judge_client").Logger(),
	}, nil
}

// Run submits one execution and waits for its verdict. Network failures,
// non-2xx responses and malformed bodies all surface as errors; callers are
// expected to translate them into per-test-case error verdicts rather than
// aborting a grading run.
func (c *Client) Run(parent context.Context, req RunRequest) (RunResult, error) {
	langLabel := strconv.Itoa(req.LanguageID)

	ctx, span := c.tracer.Start(parent, "judge.run", trace.WithAttributes(
		attribute.Int("judge.language_id", req.LanguageID),
		attribute.Int("judge.source_bytes", len(req.SourceCode)),
	))
	defer span.End()

	payload, err := json.Marshal(req)
	if err != nil {
		span.SetStatus(codes.Error, "marshal request")
		runFailures.WithLabelValues(langLabel, "marshal").Inc()
		return RunResult{}, fmt.Errorf("marshal judge request: %w", err)
	}

	endpoint := c.baseURL + "/submissions/?base64_encoded=false&wait=true"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		span.SetStatus(codes.Error, "build request")
		runFailures.WithLabelValues(langLabel, "request").Inc()
		return RunResult{}, fmt.Errorf("build judge request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-RapidAPI-Key", c.apiKey)
	}
	if c.apiHost != "" {
		httpReq.Header.Set("X-RapidAPI-Host", c.apiHost)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	runDuration.WithLabelValues(langLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unreachable")
		runFailures.WithLabelValues(langLabel, "network").Inc()
		c.logger.Warn().Err(err).Msg("judge unreachable")
		return RunResult{}, fmt.Errorf("failed to reach judge: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, "read body")
		runFailures.WithLabelValues(langLabel, "read").Inc()
		return RunResult{}, fmt.Errorf("read judge response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "bad status")
		runFailures.WithLabelValues(langLabel, "http_status").Inc()
		c.logger.Warn().Int("status", resp.StatusCode).Msg("judge returned error status")
		return RunResult{}, fmt.Errorf("judge returned status %d: %s", resp.StatusCode, truncate(body, maxErrorBodyBytes))
	}

	var result RunResult
	if err := json.Unmarshal(body, &result); err != nil {
		span.SetStatus(codes.Error, "decode body")
		runFailures.WithLabelValues(langLabel, "decode").Inc()
		return RunResult{}, fmt.Errorf("invalid judge response: %w", err)
	}

	span.SetAttributes(
		attribute.Int("judge.status_id", result.Status.ID),
		attribute.Float64("judge.time_seconds", float64(result.Time)),
	)

	c.logger.Debug().
		Int("status_id", result.Status.ID).
		Str("status", result.Status.Description).
		Float64("time_seconds", float64(result.Time)).
		Msg("judge run finished")

	return result, nil
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
