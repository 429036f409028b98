package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// listCooldown is advertised in Retry-After when the list budget runs out
const listCooldown = 30 * time.Second

// apiHandler is a handler that already knows who is calling
type apiHandler func(w http.ResponseWriter, r *http.Request, actor domain.Actor) error

var errUnauthenticated = fmt.Errorf("%w: missing identity headers", domain.ErrForbidden)

func actorFrom(r *http.Request) (domain.Actor, error) {
	actor := domain.Actor{
		UserID:   strings.TrimSpace(r.Header.Get(HeaderUserID)),
		Name:     strings.TrimSpace(r.Header.Get(HeaderUserName)),
		Role:     strings.TrimSpace(r.Header.Get(HeaderUserRole)),
		TenantID: strings.TrimSpace(r.Header.Get(HeaderTenantID)),
	}
	if actor.UserID == "" || actor.TenantID == "" {
		return domain.Actor{}, errUnauthenticated
	}
	return actor, nil
}

func (a *API) authenticated(h apiHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthenticated", Message: err.Error()})
			return
		}
		if err := h(w, r, actor); err != nil {
			a.writeError(w, r, err)
		}
	})
}

// limited charges the actor's list budget before running h
func (a *API) limited(h apiHandler) apiHandler {
	if a.limiter == nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
		if !a.limiter.allow(actor.TenantID + "/" + actor.UserID) {
			return &domain.RateLimitError{RetryAfter: listCooldown}
		}
		return h(w, r, actor)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (a *API) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		a.metrics.HTTPRequest(r.Pattern, rec.status)
		a.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// actorLimiter keeps one token bucket per actor
type actorLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newActorLimiter(perMinute int) *actorLimiter {
	return &actorLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *actorLimiter) allow(key string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
