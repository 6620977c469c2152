package core

import "time"

// ProactiveRefreshWindow is the slack, in seconds, applied to the current time
// when deciding whether a token must be refreshed before a call.
const ProactiveRefreshWindow int64 = 600

// ShouldRefreshProactively reports whether token must be refreshed before it
// is used. The check is deadline < now - ProactiveRefreshWindow: a token whose
// deadline passed less than the window ago is still sent and left to the 401
// retry path.
func ShouldRefreshProactively(now time.Time, token Token) bool {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return token.Deadline() < now.Unix()-ProactiveRefreshWindow
}

// TokenState summarises the freshness of a token at a point in time.
type TokenState struct {
	Deadline         int64
	Now              int64
	HasAccessToken   bool
	HasRefreshToken  bool
	RefreshAhead     bool
	SecondsRemaining int64
}

func ResolveTokenState(now time.Time, token Token) TokenState {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	deadline := token.Deadline()
	return TokenState{
		Deadline:         deadline,
		Now:              now.Unix(),
		HasAccessToken:   token.AccessToken != "",
		HasRefreshToken:  token.RefreshToken != "",
		RefreshAhead:     ShouldRefreshProactively(now, token),
		SecondsRemaining: deadline - now.Unix(),
	}
}
