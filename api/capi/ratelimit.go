package capi

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const BURST = 5

// Req/m for each endpoint group, per client.
const (
	AID_RPM     = 30
	NATIONS_RPM = 20
	STAGGER_RPM = 12
	SLOTS_RPM   = 10
)

type limiterPool struct {
	clients map[string]*rate.Limiter
	mu      sync.Mutex
}

func newLimiterPool() *limiterPool {
	return &limiterPool{clients: make(map[string]*rate.Limiter)}
}

func (p *limiterPool) get(ip, endpoint string, rpm int) *rate.Limiter {
	key := ip + "|" + endpoint

	p.mu.Lock()
	defer p.mu.Unlock()

	limiter, exists := p.clients[key]
	if !exists {
		r := rate.Every(time.Minute / time.Duration(rpm)) // interval per request
		limiter = rate.NewLimiter(r, BURST)
		p.clients[key] = limiter
	}

	return limiter
}

// The API is served behind a reverse proxy, so the first forwarded address wins over the peer address.
func getClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(ip)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// Wraps h so each client may call the endpoint group at most rpm times per minute.
func (p *limiterPool) limit(endpoint string, rpm int, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !p.get(getClientIP(r), endpoint, rpm).Allow() {
			writeError(w, r, http.StatusTooManyRequests, errTooManyRequests)
			return
		}

		h(w, r)
	}
}
