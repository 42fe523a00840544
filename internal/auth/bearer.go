// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package auth

import (
	"net/http"
	"strings"
)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", newError(http.StatusUnauthorized, CodeHeaderMissing,
			"Authorization header is expected.", nil)
	}

	parts := strings.Fields(header)
	switch {
	case !strings.EqualFold(parts[0], "bearer"):
		return "", newError(http.StatusUnauthorized, CodeInvalidHeader,
			`Authorization header must start with "Bearer".`, nil)
	case len(parts) == 1:
		return "", newError(http.StatusUnauthorized, CodeInvalidHeader,
			"Token not found.", nil)
	case len(parts) > 2:
		return "", newError(http.StatusUnauthorized, CodeInvalidHeader,
			"Authorization header must be bearer token.", nil)
	}
	return parts[1], nil
}
