// Package gate decides whether a request may reach a handler: it blocks
// automated clients, obviously hostile requests, and callers that exceed
// their role's request budget.
package gate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/artem13815/acquisitions/pkg/auth"
)

// Reason explains a denial.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonBot       Reason = "BOT"
	ReasonShield    Reason = "SHIELD"
	ReasonRateLimit Reason = "RATE_LIMIT"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(r Reason) Decision { return Decision{Reason: r} }

func (d Decision) Denied() bool { return !d.Allowed }

// Request is the transport-independent view of an inbound request.
type Request struct {
	IP        string
	UserAgent string
	Method    string
	Path      string
	Query     string
	// Subject identifies an authenticated caller; empty for guests.
	Subject string
}

// Budget is a request allowance over a sliding window.
type Budget struct {
	Name   string
	Max    int
	Window time.Duration
}

// Decider is the allow/deny oracle consulted before handling a request.
type Decider interface {
	Decide(ctx context.Context, req Request, budget Budget) (Decision, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(ctx context.Context, req Request, budget Budget) (Decision, error)

func (f DeciderFunc) Decide(ctx context.Context, req Request, budget Budget) (Decision, error) {
	return f(ctx, req, budget)
}

const window = time.Minute

// BudgetFor maps a caller role to its per-minute allowance.
func BudgetFor(role auth.Role) Budget {
	var max int
	switch role {
	case auth.RoleAdmin:
		max = 20
	case auth.RoleUser:
		max = 10
	default:
		role = auth.RoleGuest
		max = 5
	}
	return Budget{Name: fmt.Sprintf("%s-rate-limit", role), Max: max, Window: window}
}

// Window counts hits per key over a sliding window.
type Window interface {
	// Allow records a hit for key and reports whether it stays within max
	// hits over the trailing window. Rejected hits are not recorded.
	Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error)
}

// Guard is the built-in Decider: bot detection, then shield rules, then the
// rate limit.
type Guard struct {
	window Window
}

func NewGuard(w Window) *Guard {
	return &Guard{window: w}
}

func (g *Guard) Decide(ctx context.Context, req Request, budget Budget) (Decision, error) {
	if IsBot(req.UserAgent) {
		return Deny(ReasonBot), nil
	}
	if IsSuspicious(req.Path, req.Query) {
		return Deny(ReasonShield), nil
	}
	ok, err := g.window.Allow(ctx, rateKey(req, budget), budget.Max, budget.Window)
	if err != nil {
		return Decision{}, fmt.Errorf("rate window: %w", err)
	}
	if !ok {
		return Deny(ReasonRateLimit), nil
	}
	return Allow(), nil
}

func rateKey(req Request, budget Budget) string {
	who := "ip:" + req.IP
	if req.Subject != "" {
		who = "sub:" + req.Subject
	}
	return budget.Name + ":" + who
}

var botAgents = []string{
	"curl", "wget", "python-requests", "python-urllib", "go-http-client", "httpie",
	"scrapy", "headlesschrome", "phantomjs", "selenium", "puppeteer", "playwright",
	"libwww-perl", "java/", "okhttp", "axios/", "node-fetch", "bot", "crawler", "spider",
}

// allowedBots are search engine and link preview crawlers that pass the bot
// check even though they match a generic marker.
var allowedBots = []string{
	"googlebot", "bingbot", "duckduckbot", "yandexbot", "baiduspider", "applebot", "slurp",
	"facebookexternalhit", "twitterbot", "slackbot", "linkedinbot", "discordbot", "telegrambot",
}

// IsBot flags requests with no user agent or a known automation client.
// Well-known search engine and link preview crawlers are not flagged.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return true
	}
	for _, good := range allowedBots {
		if strings.Contains(ua, good) {
			return false
		}
	}
	for _, marker := range botAgents {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}

var shieldPatterns = []string{
	"../", "..\\", "%2e%2e", "/etc/passwd", "<script", "javascript:", "onerror=",
	"union select", "union%20select", "' or '1'='1", "%27%20or%20", "; drop table", "sleep(",
}

// IsSuspicious flags path traversal, SQL injection and script injection probes.
func IsSuspicious(path, query string) bool {
	s := strings.ToLower(path + "?" + query)
	for _, p := range shieldPatterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
