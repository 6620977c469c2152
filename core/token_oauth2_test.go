package core

import (
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestToken_OAuth2(t *testing.T) {
	refreshed := time.Unix(1_700_000_000, 0).UTC()
	token := Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
		LastRefresh:  refreshed,
		IDToken:      "id-token",
	}
	out := token.OAuth2()
	if out.AccessToken != "access" || out.RefreshToken != "refresh" || out.TokenType != "Bearer" {
		t.Fatalf("unexpected oauth2 token %#v", out)
	}
	if !out.Expiry.Equal(refreshed.Add(time.Hour)) {
		t.Fatalf("expected expiry one hour after refresh, got %v", out.Expiry)
	}
	if out.Extra("id_token") != "id-token" {
		t.Fatalf("expected id_token extra, got %#v", out.Extra("id_token"))
	}
}

func TestTokenFromOAuth2(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	token := TokenFromOAuth2(&oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       now.Add(90 * time.Second),
	}, now)
	if token.ExpiresIn != 90 || !token.LastRefresh.Equal(now) {
		t.Fatalf("unexpected lifetime %#v", token)
	}
	if token.Deadline() != now.Unix()+90 {
		t.Fatalf("unexpected deadline %d", token.Deadline())
	}
	if empty := TokenFromOAuth2(nil, now); empty.AccessToken != "" || !empty.LastRefresh.IsZero() {
		t.Fatalf("expected zero token from nil input")
	}
}
