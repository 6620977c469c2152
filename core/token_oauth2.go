package core

import (
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// AuthorizationHeader renders the value sent in the Authorization header. The
// token type is canonicalised the way x/oauth2 does it, so "bearer" from a
// provider response is sent as "Bearer" and an empty type defaults to Bearer.
func (t Token) AuthorizationHeader() string {
	tokenType := (&oauth2.Token{TokenType: strings.TrimSpace(t.TokenType)}).Type()
	return tokenType + " " + strings.TrimSpace(t.AccessToken)
}

// OAuth2 converts the token into an x/oauth2 token so callers can hand it to
// oauth2-aware clients. Expiry is derived from LastRefresh and ExpiresIn.
func (t Token) OAuth2() *oauth2.Token {
	out := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
	}
	if t.ExpiresIn > 0 && !t.LastRefresh.IsZero() {
		out.Expiry = t.LastRefresh.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	if strings.TrimSpace(t.IDToken) != "" {
		out = out.WithExtra(map[string]any{"id_token": t.IDToken})
	}
	return out
}

// TokenFromOAuth2 builds a Token from an x/oauth2 token. LastRefresh is set to
// now and ExpiresIn to the remaining lifetime.
func TokenFromOAuth2(in *oauth2.Token, now time.Time) Token {
	if in == nil {
		return Token{}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	out := Token{
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
		TokenType:    in.TokenType,
		LastRefresh:  now,
	}
	if !in.Expiry.IsZero() {
		if remaining := int64(in.Expiry.Sub(now) / time.Second); remaining > 0 {
			out.ExpiresIn = remaining
		}
	}
	if idToken, ok := in.Extra("id_token").(string); ok {
		out.IDToken = idToken
	}
	return out
}
