// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package auth

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_AcceptsValidToken(t *testing.T) {
	v, _ := newTestVerifier(t)

	claims, err := v.Verify(bg(), mintToken(t, defaultTokenOpts()))
	require.NoError(t, err)
	assert.Equal(t, "auth0|barista", claims.Subject)
	assert.Equal(t, []string{"get:drinks-detail"}, claims.Permissions)
}

func TestVerifier_Rejects(t *testing.T) {
	v, _ := newTestVerifier(t)

	tests := []struct {
		name     string
		mut      func(*tokenOpts)
		wantCode string
	}{
		{"wrong audience", func(o *tokenOpts) { o.audience = "other" }, CodeInvalidClaims},
		{"wrong issuer", func(o *tokenOpts) { o.issuer = "https://evil.test/" }, CodeInvalidClaims},
		{"expired", func(o *tokenOpts) { o.expiresIn = -time.Hour }, CodeTokenExpired},
		{"missing kid", func(o *tokenOpts) { o.kid = "" }, CodeInvalidHeader},
		{"unknown kid", func(o *tokenOpts) { o.kid = "rotated-away" }, CodeInvalidHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultTokenOpts()
			tt.mut(&o)
			_, err := v.Verify(bg(), mintToken(t, o))
			var ae *Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.wantCode, ae.Code)
			assert.Equal(t, http.StatusUnauthorized, ae.Status)
		})
	}
}

func TestVerifier_RejectsSymmetricAlgorithm(t *testing.T) {
	v, _ := newTestVerifier(t)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": testIssuer,
		"aud": testAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tok.Header["kid"] = testKid
	raw, err := tok.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = v.Verify(bg(), raw)
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, CodeInvalidToken, ae.Code)
}

func TestVerifier_RejectsGarbage(t *testing.T) {
	v, _ := newTestVerifier(t)
	_, err := v.Verify(bg(), "not-a-jwt")
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, CodeInvalidToken, ae.Code)
}

func TestCheckPermission(t *testing.T) {
	granted := &Claims{Permissions: []string{"post:drinks"}}

	require.NoError(t, CheckPermission(granted, "post:drinks"))
	require.NoError(t, CheckPermission(&Claims{}, ""), "empty permission needs no claim")

	err := CheckPermission(&Claims{}, "post:drinks")
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, CodeInvalidClaims, ae.Code)
	assert.Equal(t, "Permissions not included in JWT.", ae.Description)

	err = CheckPermission(&Claims{Permissions: []string{}}, "post:drinks")
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusForbidden, ae.Status)
	assert.Equal(t, CodeUnauthorized, ae.Code)
	assert.True(t, errors.Is(err, ErrPermissionDenied))

	err = CheckPermission(granted, "delete:drinks")
	assert.True(t, errors.Is(err, ErrPermissionDenied))
}

func TestVerifier_EmptyPermissionsClaimIsPresent(t *testing.T) {
	v, _ := newTestVerifier(t)
	o := defaultTokenOpts()
	o.permissions = []string{}

	claims, err := v.Verify(bg(), mintToken(t, o))
	require.NoError(t, err)
	assert.NotNil(t, claims.Permissions)
	assert.True(t, errors.Is(CheckPermission(claims, "post:drinks"), ErrPermissionDenied))
}
