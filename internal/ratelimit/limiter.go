// Package ratelimit provides in-memory rate limiting for booking
// attempts and webhook deliveries.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	// Booking creation limits
	BookingMaxPerMinute int // Max booking attempts per user per minute (default: 10)
	BookingMaxIPPerHour int // Max booking attempts per IP per hour (default: 120)

	// Webhook delivery limits
	WebhookMaxIPPerMinute int // Max webhook deliveries per IP per minute (default: 60)

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		BookingMaxPerMinute:   10,
		BookingMaxIPPerHour:   120,
		WebhookMaxIPPerMinute: 60,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

type entry struct {
	count   int
	firstAt time.Time
	lastAt  time.Time
}

// Limiter tracks booking and webhook request rates in memory. A single
// instance serves the whole process; state does not survive restarts,
// which is acceptable because the transactional core stays correct
// without it.
type Limiter struct {
	config *Config
	clock  Clock
	mu     sync.Mutex

	bookingByUser map[string]*entry
	bookingByIP   map[string]*entry
	webhookByIP   map[string]*entry

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new rate limiter with the given config.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		bookingByUser: make(map[string]*entry),
		bookingByIP:   make(map[string]*entry),
		webhookByIP:   make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// AllowBooking checks and records one booking attempt for the user/IP
// pair.
func (l *Limiter) AllowBooking(userID int64, ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	userKey := l.hashKey("booking:user:", fmt.Sprint(userID))
	ipKey := l.hashKey("booking:ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	if res := l.check(l.bookingByUser[userKey], now, time.Minute, l.config.BookingMaxPerMinute, "user_minute_limit"); !res.Allowed {
		return res
	}
	if res := l.check(l.bookingByIP[ipKey], now, time.Hour, l.config.BookingMaxIPPerHour, "ip_hourly_limit"); !res.Allowed {
		return res
	}

	l.record(l.bookingByUser, userKey, now, time.Minute)
	l.record(l.bookingByIP, ipKey, now, time.Hour)
	return LimitResult{Allowed: true}
}

// AllowWebhook checks and records one webhook delivery from the IP.
func (l *Limiter) AllowWebhook(ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	ipKey := l.hashKey("webhook:ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	if res := l.check(l.webhookByIP[ipKey], now, time.Minute, l.config.WebhookMaxIPPerMinute, "ip_minute_limit"); !res.Allowed {
		return res
	}
	l.record(l.webhookByIP, ipKey, now, time.Minute)
	return LimitResult{Allowed: true}
}

func (l *Limiter) check(e *entry, now time.Time, window time.Duration, max int, reason string) LimitResult {
	if e == nil {
		return LimitResult{Allowed: true}
	}
	if now.Sub(e.firstAt) < window && e.count >= max {
		return LimitResult{
			Allowed:    false,
			RetryAfter: window - now.Sub(e.firstAt),
			Reason:     reason,
		}
	}
	return LimitResult{Allowed: true}
}

func (l *Limiter) record(m map[string]*entry, key string, now time.Time, window time.Duration) {
	e := m[key]
	if e == nil || now.Sub(e.firstAt) >= window {
		m[key] = &entry{count: 1, firstAt: now, lastAt: now}
		return
	}
	e.count++
	e.lastAt = now
}

func (l *Limiter) hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, m := range []map[string]*entry{l.bookingByUser, l.bookingByIP, l.webhookByIP} {
		for k, e := range m {
			if now.Sub(e.lastAt) > time.Hour {
				delete(m, k)
			}
		}
	}
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost IP from X-Forwarded-For
// (added by your proxy). When trustProxy is false, ignores
// X-Forwarded-For entirely (prevents spoofing).
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				ip := strings.TrimSpace(parts[i])
				if ip != "" && !isPrivateIP(ip) {
					return ip
				}
			}
			return strings.TrimSpace(parts[len(parts)-1])
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if parsed := net.ParseIP(r.RemoteAddr); parsed != nil {
			return r.RemoteAddr
		}
		if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
			candidate := r.RemoteAddr[:idx]
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
		return r.RemoteAddr
	}
	return ip
}

var privateNetworks []*net.IPNet

func init() {
	privateRanges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	}
	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		privateNetworks = append(privateNetworks, network)
	}
}

func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// LogRateLimitExceeded logs a rate limit event.
func LogRateLimitExceeded(limitType, ip, reason string) {
	log.Warn().
		Str("event", "rate_limit_exceeded").
		Str("type", limitType).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Rate limit exceeded")
}
