// Package validation checks user-supplied URLs and identifiers before they
// reach the API client.
//
// Base URLs are screened against private ranges, loopback and cloud metadata
// endpoints. Private ranges can be allowed with STORE_ALLOW_PRIVATE (any value
// strconv.ParseBool accepts) or SetAllowPrivate; metadata endpoints stay blocked.
package validation

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var allowPrivate atomic.Bool

var privateNetworks []*net.IPNet

func init() {
	v, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("STORE_ALLOW_PRIVATE")))
	allowPrivate.Store(v)

	for _, cidr := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"100.64.0.0/10",
		"169.254.0.0/16",
		"192.0.0.0/24",
		"192.0.2.0/24",
		"198.18.0.0/15",
		"198.51.100.0/24",
		"203.0.113.0/24",
		"240.0.0.0/4",
		"fc00::/7",
		"fe80::/10",
		"ff00::/8",
		"::1/128",
		"::/128",
		"2001:db8::/32",
	} {
		if _, network, err := net.ParseCIDR(cidr); err == nil {
			privateNetworks = append(privateNetworks, network)
		}
	}
}

// SetAllowPrivate permits private and loopback hosts.
func SetAllowPrivate(enabled bool) {
	allowPrivate.Store(enabled)
}

// AllowPrivateEnabled reports whether private hosts are permitted.
func AllowPrivateEnabled() bool {
	return allowPrivate.Load()
}

// Resolver is swapped in tests.
var lookupIP = func(ctx context.Context, host string) ([]net.IP, error) {
	return (&net.Resolver{}).LookupIP(ctx, "ip", host)
}

// ValidateBaseURL checks a store API base URL: http(s) scheme, a host, no
// query or fragment, and no private, loopback or metadata destination.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("URL must contain a hostname")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("base URL must not contain a query or fragment")
	}
	if isCloudMetadata(host) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}
	if !allowPrivate.Load() && isLocalhost(host) {
		return fmt.Errorf("localhost URLs are not allowed (set STORE_ALLOW_PRIVATE=1 or --allow-private)")
	}

	if ip := net.ParseIP(host); ip != nil {
		return validateIP(ip)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ips, err := lookupIP(ctx, host)
	if err != nil {
		// Unresolvable hosts are left for the transport to report.
		return nil
	}
	for _, ip := range ips {
		if err := validateIP(ip); err != nil {
			return fmt.Errorf("domain %q resolves to forbidden IP %s: %w", host, ip, err)
		}
	}
	return nil
}

// NormalizeBaseURL trims whitespace and trailing slashes so path templates
// can be appended directly.
func NormalizeBaseURL(rawURL string) string {
	return strings.TrimRight(strings.TrimSpace(rawURL), "/")
}

func isLocalhost(host string) bool {
	h := strings.ToLower(host)
	switch h {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0", "::":
		return true
	}
	return strings.HasSuffix(h, ".localhost")
}

func isCloudMetadata(host string) bool {
	h := strings.ToLower(host)
	switch h {
	case "169.254.169.254", "metadata.google.internal", "metadata", "instance-data", "fd00:ec2::254":
		return true
	}
	return strings.HasSuffix(h, ".metadata.google.internal")
}

func validateIP(ip net.IP) error {
	if ip.String() == "169.254.169.254" {
		return fmt.Errorf("cloud metadata IP address is not allowed")
	}
	if ip.IsUnspecified() {
		return fmt.Errorf("unspecified IP addresses are not allowed")
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return fmt.Errorf("link-local IP addresses are not allowed")
	}
	if allowPrivate.Load() {
		return nil
	}
	if ip.IsLoopback() {
		return fmt.Errorf("loopback IP addresses are not allowed")
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return fmt.Errorf("private IP addresses are not allowed")
		}
	}
	return nil
}
