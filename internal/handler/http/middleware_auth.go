// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-docsync/internal/logger"
)

// auth rejects requests that do not carry the configured bearer token with
// 401 and an InsufficientCredentials body. It is only installed when the
// server has a token configured.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Str("func", "*Handler.auth").Send()
			writeError(w, r, "*Handler.auth", ErrEmptyAuthorizationHeader)
			return
		}

		token, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Str("func", "*Handler.auth").Send()
			writeError(w, r, "*Handler.auth", err)
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
			log.Err(ErrWrongToken).Str("func", "*Handler.auth").Send()
			writeError(w, r, "*Handler.auth", ErrWrongToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getTokenFromAuthHeader extracts the token of a "Bearer <token>" header
// value. The scheme is matched case-insensitively.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}
