package health

import (
	"context"
	"encoding/json"
	"log"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wrapforge/wrapcycler/pkg/circuitbreaker"
)

// ChainStatus is what the server reads from the connection manager.
type ChainStatus interface {
	Endpoint() string
	Connected() bool
	Owner() common.Address
	BalanceOf(ctx context.Context) (*big.Int, error)
}

// Stats is what the server reads from the running orchestrator.
type Stats interface {
	PairsCompleted() uint64
}

// Server represents a health check HTTP server
type Server struct {
	port          string
	chain         ChainStatus
	stats         Stats
	breaker       *circuitbreaker.Breaker
	metricsAPIKey string
}

// NewServer creates a new health check server
func NewServer(port string, chain ChainStatus, stats Stats, breaker *circuitbreaker.Breaker) *Server {
	return &Server{
		port:          port,
		chain:         chain,
		stats:         stats,
		breaker:       breaker,
		metricsAPIKey: os.Getenv("METRICS_API_KEY"),
	}
}

// metricsAuthMiddleware is a middleware that checks for a valid API key
func (s *Server) metricsAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if no API key is configured
		if s.metricsAPIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Get API key from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		// Check if the header has the correct format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		// Validate API key
		if parts[1] != s.metricsAPIKey {
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start starts the health check server
func (s *Server) Start() {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness check
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !s.chain.Connected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("RPC endpoint not connected"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Ready"))
	})

	// Service status endpoint
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		circuitStatus := "closed"
		if s.breaker.IsOpen() {
			circuitStatus = "open"
		}

		status := map[string]interface{}{
			"endpoint":        s.chain.Endpoint(),
			"connected":       s.chain.Connected(),
			"signer":          s.chain.Owner().Hex(),
			"pairs_completed": s.stats.PairsCompleted(),
			"circuit":         circuitStatus,
		}

		if s.chain.Connected() {
			ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
			defer cancel()
			if balance, err := s.chain.BalanceOf(ctx); err == nil {
				status["token_balance"] = balance.String()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding status JSON: %v", err)
		}
	})

	// Expose Prometheus metrics with API key authentication
	mux.Handle("/metrics", s.metricsAuthMiddleware(promhttp.Handler()))

	log.Printf("Starting health and metrics server on port %s", s.port)
	if err := http.ListenAndServe(":"+s.port, mux); err != nil {
		log.Printf("Health server error: %v", err)
	}
}
