package middleware

import (
	"net/http"
	"sync"
	"time"

	"partth/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Sliding-window rate limiting per client IP. Two instances run in the
// marketplace: a tight one on login (brute force against marca/socio
// accounts) and a loose general one over the whole v1 API.

const (
	maxIntentosLogin = 20
	ventanaLogin     = time.Minute
	purgeInterval    = 5 * time.Minute
)

type ventanaIP struct {
	mu    sync.Mutex
	count int
	hasta time.Time
}

type slidingLimiter struct {
	mu      sync.Mutex
	porIP   map[string]*ventanaIP
	limite  int
	ventana time.Duration
	mensaje string
}

var (
	limitersMu sync.Mutex
	limiters   []*slidingLimiter
)

func newSlidingLimiter(limite int, ventana time.Duration, mensaje string) *slidingLimiter {
	l := &slidingLimiter{
		porIP:   make(map[string]*ventanaIP),
		limite:  limite,
		ventana: ventana,
		mensaje: mensaje,
	}
	limitersMu.Lock()
	limiters = append(limiters, l)
	limitersMu.Unlock()
	return l
}

func (l *slidingLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		l.mu.Lock()
		v, ok := l.porIP[ip]
		if !ok {
			v = &ventanaIP{}
			l.porIP[ip] = v
		}
		l.mu.Unlock()

		v.mu.Lock()
		defer v.mu.Unlock()

		now := time.Now()
		if now.After(v.hasta) {
			v.count = 0
			v.hasta = now.Add(l.ventana)
		}

		v.count++
		if v.count > l.limite {
			c.Header("Retry-After", v.hasta.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

// purgar drops IPs whose window already closed and returns how many went.
func (l *slidingLimiter) purgar(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	purged := 0
	for ip, v := range l.porIP {
		v.mu.Lock()
		if now.After(v.hasta) {
			delete(l.porIP, ip)
			purged++
		}
		v.mu.Unlock()
	}
	return purged
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newSlidingLimiter(maxIntentosLogin, ventanaLogin,
		"Demasiados intentos de login. Intente en 1 minuto.").handler()
}

// RateLimiter is the general per-IP limiter applied to the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newSlidingLimiter(limit, window,
		"Demasiadas solicitudes. Intente nuevamente en un momento.").handler()
}

// A background sweep keeps the per-IP maps from growing with one-off clients.

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		limitersMu.Lock()
		activos := make([]*slidingLimiter, len(limiters))
		copy(activos, limiters)
		limitersMu.Unlock()

		total := 0
		for _, l := range activos {
			total += l.purgar(now)
		}
		if total > 0 {
			log.Debug().Int("entries_purged", total).Msg("rate limiter maps purged")
		}
	}
}
