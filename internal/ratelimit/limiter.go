// Package ratelimit throttles booking and wishlist submissions.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
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

// realClock implements Clock using the system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	SubmitCooldown     time.Duration // Minimum time between submissions per phone (default: 15s)
	SubmitMaxPerHour   int           // Max submissions per phone per hour (default: 10)
	SubmitMaxIPPerHour int           // Max submissions per IP per hour (default: 40)
	TrustProxy         bool          // Trust X-Forwarded-For/X-Real-IP when resolving client IPs

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		SubmitCooldown:     15 * time.Second,
		SubmitMaxPerHour:   10,
		SubmitMaxIPPerHour: 40,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

// entry tracks request counts and timestamps.
type entry struct {
	count   int
	firstAt time.Time // First request in window
	lastAt  time.Time // Most recent request (for cooldown)
}

// Limiter throttles slot submissions per phone number and per client IP.
type Limiter struct {
	config *Config
	clock  Clock
	mu     sync.RWMutex
	// Keyed by hash of phone or IP
	byPhone map[string]*entry
	byIP    map[string]*entry

	// Cleanup goroutine management
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
		byPhone:       make(map[string]*entry),
		byIP:          make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// ClientIP resolves the request's client IP using the limiter's proxy trust
// setting.
func (l *Limiter) ClientIP(r *http.Request) string {
	return GetClientIP(r, l.config.TrustProxy)
}

// CheckSubmit checks if a submission is allowed.
// Does NOT record the attempt - call RecordSubmit after validation succeeds.
func (l *Limiter) CheckSubmit(phone, ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	phoneKey := l.hashKey("submit:phone:", normalizePhoneKey(phone))
	ipKey := l.hashKey("submit:ip:", ip)

	l.mu.RLock()
	defer l.mu.RUnlock()

	// Check per-phone cooldown
	if e := l.byPhone[phoneKey]; e != nil {
		elapsed := now.Sub(e.lastAt)
		if elapsed < l.config.SubmitCooldown {
			return LimitResult{
				Allowed:    false,
				RetryAfter: l.config.SubmitCooldown - elapsed,
				Reason:     "cooldown",
			}
		}

		// Check hourly limit
		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.SubmitMaxPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "hourly_limit",
			}
		}
	}

	// Check per-IP hourly limit
	if e := l.byIP[ipKey]; e != nil {
		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.SubmitMaxIPPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "ip_hourly_limit",
			}
		}
	}

	return LimitResult{Allowed: true}
}

// RecordSubmit records a successful submission. Call this AFTER validation succeeds.
func (l *Limiter) RecordSubmit(phone, ip string) {
	now := l.clock.Now()
	phoneKey := l.hashKey("submit:phone:", normalizePhoneKey(phone))
	ipKey := l.hashKey("submit:ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.byPhone[phoneKey]
	if e == nil || now.Sub(e.firstAt) >= time.Hour {
		l.byPhone[phoneKey] = &entry{count: 1, firstAt: now, lastAt: now}
	} else {
		e.count++
		e.lastAt = now
	}

	e = l.byIP[ipKey]
	if e == nil || now.Sub(e.firstAt) >= time.Hour {
		l.byIP[ipKey] = &entry{count: 1, firstAt: now, lastAt: now}
	} else {
		e.count++
		e.lastAt = now
	}
}

func (l *Limiter) hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

// normalizePhoneKey strips formatting so "+91 98..." and "+9198..." share a bucket.
func normalizePhoneKey(phone string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
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

	for k, e := range l.byPhone {
		if now.Sub(e.lastAt) > time.Hour {
			delete(l.byPhone, k)
		}
	}
	for k, e := range l.byIP {
		if now.Sub(e.lastAt) > time.Hour {
			delete(l.byIP, k)
		}
	}
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost IP from X-Forwarded-For (added by your proxy).
// When trustProxy is false, ignores X-Forwarded-For entirely (prevents spoofing).
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

		// Check X-Real-IP (set by nginx)
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	// Fall back to RemoteAddr (direct connection or untrusted proxy)
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

// privateNetworks holds parsed CIDR ranges for private/reserved IPs.
// Parsed once at package init for efficiency.
var privateNetworks []*net.IPNet

func init() {
	privateRanges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10", // Link-local
	}
	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		privateNetworks = append(privateNetworks, network)
	}
}

// isPrivateIP checks if an IP is in a private/reserved range.
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

// SanitizePhone masks a phone number for logging, keeping the last 4 digits.
func SanitizePhone(phone string) string {
	digits := normalizePhoneKey(phone)
	if len(digits) >= 4 {
		return "***" + digits[len(digits)-4:]
	}
	return "***"
}

// LogRateLimitExceeded logs a rate limit event with sanitized phone.
func LogRateLimitExceeded(limitType, phone, ip, reason string) {
	log.Warn().
		Str("event", "rate_limit_exceeded").
		Str("type", limitType).
		Str("phone", SanitizePhone(phone)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Submission rate limit exceeded")
}
