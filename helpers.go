package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/araddon/dateparse"

	"github.com/shane-shim/statz-kr/models"
	"github.com/shane-shim/statz-kr/store"
)

// APIError is the body of every error response
type APIError struct {
	Error string `json:"error"`
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// Middleware
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)

		log.Printf("%s %s %d %v", r.Method, r.RequestURI, lrw.statusCode, time.Since(start))
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v", err)
				writeError(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONStatus(w, statusCode, APIError{Error: message})
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidParameter),
		errors.Is(err, models.ErrConfiguration),
		errors.Is(err, models.ErrDataIntegrity):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeStoreError reports err with the status its kind calls for. Server
// side failures are logged and hidden from the client.
func writeStoreError(w http.ResponseWriter, action string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("Failed to %s: %v", action, err)
		writeError(w, "Failed to "+action, status)
		return
	}
	writeError(w, err.Error(), status)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrInvalidParameter, err)
	}
	return nil
}

// QueryParams holds the query string values shared by list endpoints
type QueryParams struct {
	GameID    string
	PlayerID  string
	Metric    string
	MinAtBats int
	Limit     int
}

func parseQueryParams(r *http.Request) (QueryParams, error) {
	q := r.URL.Query()
	params := QueryParams{
		GameID:    q.Get("game_id"),
		PlayerID:  q.Get("player_id"),
		Metric:    q.Get("metric"),
		MinAtBats: 5,
		Limit:     5,
	}
	if params.Metric == "" {
		params.Metric = "avg"
	}

	for key, dst := range map[string]*int{"min_ab": &params.MinAtBats, "limit": &params.Limit} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return params, fmt.Errorf("%w: %s must be a non-negative integer, got %q", models.ErrInvalidParameter, key, v)
		}
		*dst = n
	}
	return params, nil
}

func (p QueryParams) filter() store.Filter {
	return store.Filter{GameID: p.GameID, PlayerID: p.PlayerID}
}

// normalizeDate accepts any common date layout and returns YYYY-MM-DD.
// An empty value is today.
func normalizeDate(value string) (string, error) {
	if value == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return "", fmt.Errorf("%w: unrecognized date %q", models.ErrInvalidParameter, value)
	}
	return t.Format("2006-01-02"), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
