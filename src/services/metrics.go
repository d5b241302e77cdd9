package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/username/carteira/backend/src/parsers/gemini"
	"google.golang.org/genai"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carteira_ai_requests_total",
		Help: "Gemini calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	aiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "carteira_ai_request_duration_seconds",
		Help:    "Latency of Gemini calls.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
	}, []string{"operation"})

	portfolioUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carteira_portfolio_updates_total",
		Help: "Portfolio update attempts by parser source and outcome.",
	}, []string{"source", "outcome"})

	droppedAssetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carteira_dropped_assets_total",
		Help: "Parsed assets dropped during reconstruction.",
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "carteira_active_sessions",
		Help: "Sessions holding an API key in memory.",
	})

	expiredSessionsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carteira_expired_sessions_purged_total",
		Help: "Sessions removed by the cleanup job.",
	})
)

// instrumentedGenerator records count and latency of every call under operation.
type instrumentedGenerator struct {
	next      gemini.Generator
	operation string
}

func withMetrics(next gemini.Generator, operation string) gemini.Generator {
	return &instrumentedGenerator{next: next, operation: operation}
}

func (g *instrumentedGenerator) Generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	start := time.Now()
	out, err := g.next.Generate(ctx, prompt, config)
	aiRequestDuration.WithLabelValues(g.operation).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	aiRequestsTotal.WithLabelValues(g.operation, outcome).Inc()
	return out, err
}
