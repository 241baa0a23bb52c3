package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/config"
	"github.com/36node/store-cli/internal/resolve"
)

// HandleError returns a user-facing message with suggestions for err.
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var (
		missing   *api.MissingParameterError
		unknownOp *api.UnknownOperationError
		rateErr   *api.RateLimitError
		cbErr     *api.CircuitBreakerError
		httpErr   *api.HTTPError
		netErr    *api.NetworkError
		ambiguous *resolve.AmbiguousError
	)

	switch {
	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("Not authenticated.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: store auth login --base-url URL --token TOKEN\n")
		msg.WriteString("  - Or export STORE_BASE_URL and STORE_TOKEN\n")

	case errors.As(err, &missing):
		fmt.Fprintf(&msg, "Error: %s\n\n", missing.Error())
		msg.WriteString("Suggestions:\n")
		if missing.Field == api.FieldBody {
			msg.WriteString("  - Pass --body JSON, --body @file.json or --body @- for stdin\n")
		} else {
			fmt.Fprintf(&msg, "  - Provide the %s argument\n", missing.Field)
		}

	case errors.As(err, &unknownOp):
		fmt.Fprintf(&msg, "Error: %s\n", unknownOp.Error())
		if suggestion := suggestCommand(unknownOp.Name, api.OperationNames()); suggestion != "" {
			fmt.Fprintf(&msg, "\nDid you mean %q?\n", suggestion)
		}
		msg.WriteString("Run 'store ops' to list operations.\n")

	case errors.As(err, &rateErr):
		msg.WriteString("Rate limit exceeded.\n\n")
		msg.WriteString("Suggestions:\n")
		fmt.Fprintf(&msg, "  - Wait %s and retry\n", rateErr.RetryAfter)
		msg.WriteString("  - Raise --max-rate-limit-retries\n")

	case errors.As(err, &cbErr):
		msg.WriteString("Service temporarily unavailable (circuit breaker open).\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - The API has failed several times in a row\n")
		msg.WriteString("  - Wait and retry\n")

	case errors.As(err, &httpErr):
		fmt.Fprintf(&msg, "%s\n\n", httpErr.Error())
		msg.WriteString(suggestionsForStatusCode(httpErr.StatusCode))
		if httpErr.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", httpErr.RequestID)
		}

	case errors.As(err, &ambiguous):
		fmt.Fprintf(&msg, "Error: %s\n\n", ambiguous.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Pass the ID instead of a name\n")

	case errors.As(err, &netErr):
		fmt.Fprintf(&msg, "Could not reach %s.\n\n", netErr.URL)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the base URL: store auth status\n")
		msg.WriteString("  - Check your network connection\n")
		fmt.Fprintf(&msg, "\nCause: %v\n", netErr.Err)

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForStatusCode(code int) string {
	var s strings.Builder
	s.WriteString("Suggestions:\n")

	switch code {
	case 400, 422:
		s.WriteString("  - Check the request body and parameters\n")
		s.WriteString("  - Use --dry-run to see the request\n")
	case 401:
		s.WriteString("  - Your token may be invalid or expired: store auth status\n")
		s.WriteString("  - Run: store auth login\n")
	case 403:
		s.WriteString("  - The token is not allowed to perform this action\n")
	case 404:
		s.WriteString("  - The resource doesn't exist or was deleted\n")
		s.WriteString("  - Check the ID is correct\n")
	case 409:
		s.WriteString("  - The resource already exists or changed meanwhile\n")
	case 429:
		s.WriteString("  - Wait and retry in a few seconds\n")
	case 500, 502, 503, 504:
		s.WriteString("  - Server error, wait and retry\n")
	default:
		s.WriteString("  - Use --debug for more details\n")
	}

	return s.String()
}
