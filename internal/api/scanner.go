// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package api

import (
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/phishguard/phishguard/internal/models"
)

// Verdict thresholds. Scores accumulate per signal and are capped at 1.0.
const (
	phishingThreshold   = 0.7
	suspiciousThreshold = 0.35
)

// suspiciousKeywords are tokens that phishing URLs impersonating login
// flows commonly carry in the host or path.
var suspiciousKeywords = []string{
	"login", "signin", "verify", "secure", "account",
	"update", "password", "banking", "wallet", "confirm",
}

// ScanURL applies the heuristic signal set to a candidate URL and
// returns a verdict. The scan is deterministic and purely syntactic.
func ScanURL(rawURL string) models.ScanResult {
	result := models.ScanResult{
		URL:       rawURL,
		Verdict:   "clean",
		ScannedAt: time.Now().UTC(),
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		result.Verdict = "suspicious"
		result.Score = suspiciousThreshold
		result.Signals = []string{"unparseable-url"}
		return result
	}

	var score float64
	var signals []string
	host := strings.ToLower(u.Hostname())
	path := strings.ToLower(u.Path)

	if u.Scheme != "https" {
		score += 0.2
		signals = append(signals, "no-https")
	}
	if net.ParseIP(host) != nil {
		score += 0.3
		signals = append(signals, "ip-literal-host")
	}
	if u.User != nil {
		score += 0.3
		signals = append(signals, "credentials-in-url")
	}
	if strings.Contains(host, "xn--") {
		score += 0.2
		signals = append(signals, "punycode-host")
	}
	if strings.Count(host, ".") >= 4 {
		score += 0.15
		signals = append(signals, "deep-subdomains")
	}
	if len(rawURL) > 100 {
		score += 0.1
		signals = append(signals, "long-url")
	}
	for _, kw := range suspiciousKeywords {
		if strings.Contains(host, kw) || strings.Contains(path, kw) {
			score += 0.15
			signals = append(signals, "keyword:"+kw)
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	result.Score = score
	result.Signals = signals

	switch {
	case score >= phishingThreshold:
		result.Verdict = "phishing"
	case score >= suspiciousThreshold:
		result.Verdict = "suspicious"
	}
	return result
}
