package utils

import (
	"net/url"
	"strings"
)

// Hosts that indicate a proof link was never uploaded anywhere reachable
var stagingHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"0.0.0.0":   true,
	"::1":       true,
}

// IsResolvableProofReference reports whether a proof reference is an absolute
// http(s) URL pointing outside the submitter's machine. Local or staging-only
// paths must be rejected before any verification request is accepted.
func IsResolvableProofReference(reference string) bool {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return false
	}

	u, err := url.Parse(reference)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := u.Hostname()
	if host == "" || stagingHosts[host] {
		return false
	}

	return true
}
