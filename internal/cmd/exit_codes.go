package cmd

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/spf13/pflag"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/config"
)

const (
	exitOK          = 0
	exitGeneric     = 1
	exitUsage       = 2
	exitAuth        = 3
	exitNotFound    = 4
	exitForbidden   = 5
	exitRateLimited = 6
	exitServer      = 7
	exitNetwork     = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if handled, ok := err.(*handledError); ok {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if errors.Is(err, config.ErrNotConfigured) {
		return exitAuth
	}
	if code := exitCodeFromStructured(err); code != 0 {
		return code
	}
	if isUsageError(err) {
		return exitUsage
	}
	if isNetworkError(err) {
		return exitNetwork
	}
	return exitGeneric
}

func exitCodeFromStructured(err error) int {
	structured := api.StructuredErrorFromError(err)
	if structured == nil {
		return 0
	}
	switch structured.Code {
	case api.ErrUnauthorized:
		return exitAuth
	case api.ErrForbidden:
		return exitForbidden
	case api.ErrNotFound:
		return exitNotFound
	case api.ErrRateLimited:
		return exitRateLimited
	case api.ErrServerError, api.ErrCircuitOpen:
		return exitServer
	case api.ErrNetwork, api.ErrTimeout:
		return exitNetwork
	case api.ErrBadRequest, api.ErrValidation, api.ErrConflict, api.ErrMissingParameter:
		return exitUsage
	default:
		return 0
	}
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "i/o timeout")
}

func isUsageError(err error) bool {
	var unknownOp *api.UnknownOperationError
	if errors.As(err, &unknownOp) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"accepts ",
		"invalid argument",
		"must be",
		"is required",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
