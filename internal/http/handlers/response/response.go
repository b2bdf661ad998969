package response

import (
	"encoding/json"
	"errors"
	ratelimiter "exzly/internal/core/domain/rate_limiter"
	"math"
	"net/http"
	"strconv"
)

type errorResponse struct {
	Error string `json:"error"`
}

type rateLimitResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

func RenderUnauthorized(rw http.ResponseWriter) {
	RenderError(rw, "invalid authentication token", http.StatusUnauthorized)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

// RenderRateLimitExceeded sets Retry-After in seconds when err carries
// the remaining window.
func RenderRateLimitExceeded(rw http.ResponseWriter, err error) {
	var limitErr *ratelimiter.LimitExceededError
	if !errors.As(err, &limitErr) {
		RenderError(rw, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	seconds := int(math.Ceil(limitErr.RetryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	rw.Header().Set("Retry-After", strconv.Itoa(seconds))
	Render(rw, rateLimitResponse{Error: limitErr.Message(), RetryAfter: seconds}, http.StatusTooManyRequests)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, errorResponse{Error: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}

func RenderForbidden(rw http.ResponseWriter) {
	RenderError(rw, "Permission denied", http.StatusForbidden)
}

func RenderUserNotFound(rw http.ResponseWriter) {
	RenderError(rw, "User not found", http.StatusNotFound)
}
