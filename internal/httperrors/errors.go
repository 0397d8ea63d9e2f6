// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors explains identity service failures to the user.
package httperrors

import (
	stderrors "errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	apperrors "mealplan/cli/internal/errors"
)

// Category is the user-facing class of a network failure.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryTimeout
	CategoryDNS
	CategoryRefused
	CategoryTLS
	CategoryServer
)

// FormatNetworkError prints a troubleshooting message for err and returns it
// wrapped. context describes what the CLI was doing ("logging in"); host names
// the service.
func FormatNetworkError(err error, context, host string) error {
	if err == nil {
		return nil
	}
	displayErrorMessage(Classify(err), context, host, err.Error())
	return fmt.Errorf("network error: %w", err)
}

// IsNetworkError reports whether err should be explained by FormatNetworkError
// rather than shown as a plain session error.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if apperrors.IsTransport(err) {
		return true
	}
	var e *apperrors.E
	return stderrors.As(err, &e) && e.Kind == apperrors.KindUnknown && e.Status >= 500
}

// Classify picks the Category for err.
func Classify(err error) Category {
	switch {
	case isTimeoutError(err):
		return CategoryTimeout
	case isDNSError(err):
		return CategoryDNS
	case isConnectionRefusedError(err):
		return CategoryRefused
	case isSSLError(err):
		return CategoryTLS
	case isServerError(err):
		return CategoryServer
	default:
		return CategoryGeneric
	}
}

func displayErrorMessage(c Category, context, host, details string) {
	switch c {
	case CategoryTimeout:
		showTimeoutError(context)
	case CategoryDNS:
		showDNSError(context, host)
	case CategoryRefused:
		showConnectionRefusedError(context, host)
	case CategoryTLS:
		showSSLError(context)
	case CategoryServer:
		showServerError(context)
	default:
		showGenericError(context, host, details)
	}
}

func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return stderrors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	if stderrors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError checks for a 5xx answer carried on the typed error.
func isServerError(err error) bool {
	var e *apperrors.E
	return stderrors.As(err, &e) && e.Status >= 500
}

func showTimeoutError(context string) {
	pterm.Printf("⏱️  Connection timeout while %s\n", context)
	pterm.Println()
	pterm.Println("The server took too long to respond. This could mean:")
	pterm.Println("  • Slow internet connection")
	pterm.Println("  • Server is under heavy load")
	pterm.Println()
	pterm.Println("Your session was not changed. Please try again in a few moments.")
	pterm.Println()
}

func showDNSError(context, host string) {
	pterm.Printf("🌐 Cannot resolve server address while %s\n", context)
	pterm.Println()
	pterm.Printf("Unable to look up %s. Please check:\n", host)
	pterm.Println("  • Your internet connection is working")
	pterm.Println("  • The api_base_url setting ('mealplan config show')")
	pterm.Println()
}

func showConnectionRefusedError(context, host string) {
	pterm.Printf("🚫 Connection refused while %s\n", context)
	pterm.Println()
	pterm.Printf("%s is not accepting connections. This could mean:\n", host)
	pterm.Println("  • The meal planner service is not running")
	pterm.Println("  • Wrong server address or port")
	pterm.Println()
}

func showSSLError(context string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", context)
	pterm.Println()
	pterm.Println("Cannot establish a secure HTTPS connection. Try:")
	pterm.Println("  • Check your system date and time")
	pterm.Println("  • Verify network proxy settings")
	pterm.Println()
}

func showServerError(context string) {
	pterm.Printf("⚠️  Server error while %s\n", context)
	pterm.Println()
	pterm.Println("The meal planner service encountered an internal error.")
	pterm.Println("This is not a problem with your setup. Please try again in a few minutes.")
	pterm.Println()
}

func showGenericError(context, host, details string) {
	pterm.Printf("❌ Cannot connect to %s while %s\n", host, context)
	pterm.Println()
	pterm.Println("Please check:")
	pterm.Println("  • Your internet connection")
	pterm.Println("  • Firewall settings that might block HTTP requests")
	pterm.Println()

	if details != "" {
		shortErr := details
		if len(shortErr) > 100 {
			shortErr = shortErr[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", shortErr)
		pterm.Println()
	}
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
