package domain

import "time"

// TokenPair is what a successful login hands back: a short-lived access token
// and a longer-lived refresh token, each with the lifetime its cookie should
// carry.
type TokenPair struct {
	AccessToken  string
	AccessTTL    time.Duration
	RefreshToken string
	RefreshTTL   time.Duration
}

// AccessToken is a freshly minted access token from a refresh.
type AccessToken struct {
	Token string
	TTL   time.Duration
}
