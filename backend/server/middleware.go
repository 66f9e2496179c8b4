package server

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/time/rate"
	"net/http"
	"satchel/backend/server/session"
	"satchel/backend/utils"
	"satchel/shared/constants"
	"sync"
	"time"
)

type Visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var visitors = make(map[[32]byte]*Visitor)
var mu sync.Mutex

// getVisitor checks to see if an identifier (ip address or user id) is
// associated with a rate limiter, and returns it if so. If not, it creates a
// new entry in the visitors map associating the identifier with a new limiter.
func getVisitor(identifier string, path string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	idHash := blake2b.Sum256([]byte(identifier + path))
	visitor, exists := visitors[idHash]
	if !exists {
		limit := rate.Every(time.Second * constants.LimiterSeconds)
		limiter := rate.NewLimiter(limit, constants.LimiterAttempts)
		visitors[idHash] = &Visitor{limiter, time.Now()}
		return limiter
	}

	visitor.lastSeen = time.Now()
	return visitor.limiter
}

// LimiterMiddleware restricts requests to a particular route to prevent abuse
// of a handler function.
func LimiterMiddleware(next http.HandlerFunc) http.HandlerFunc {
	handler := func(w http.ResponseWriter, req *http.Request) {
		ip, err := utils.GetReqSource(req)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		limiter := getVisitor(ip, req.URL.Path)
		if limiter.Allow() {
			next.ServeHTTP(w, req)
			return
		}

		http.Error(
			w,
			"Too many requests from this IP address -- please wait and try again",
			http.StatusTooManyRequests)
	}

	return handler
}

// AuthMiddleware enforces that a particular request has a valid session before
// handling. Requests without one are rejected with 401.
func AuthMiddleware(next session.HandlerFunc) http.HandlerFunc {
	handler := func(w http.ResponseWriter, req *http.Request) {
		if !session.IsValidSession(req) {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}

		id, err := session.GetSessionAndUserID(req)
		if err != nil {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}

		next(w, req, id)
	}

	return handler
}

// AuthLimiterMiddleware is like AuthMiddleware, but also restricts requests to
// the same constants.LimiterAttempts per constants.LimiterSeconds by user
// (unlike LimiterMiddleware which limits by IP address)
func AuthLimiterMiddleware(next session.HandlerFunc) http.HandlerFunc {
	return AuthMiddleware(func(w http.ResponseWriter, req *http.Request, id string) {
		limiter := getVisitor(id, req.URL.Path)
		if !limiter.Allow() {
			http.Error(
				w,
				"Too many requests from this account -- please wait and try again",
				http.StatusTooManyRequests)
			return
		}

		next(w, req, id)
	})
}

// ManageLimiters removes an id->visitor pairing from the visitors map if they
// haven't repeated a limiter-enabled request in the last minute.
func ManageLimiters() {
	mu.Lock()
	for ip, v := range visitors {
		if time.Since(v.lastSeen) > time.Minute {
			delete(visitors, ip)
		}
	}
	mu.Unlock()
}
