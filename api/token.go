package api

import (
	"fmt"
	"time"

	"github.com/jmcleod/hashlock/internal/util"
)

// sessionTokenBytes is the entropy of a session token. 32 random bytes
// hex-encode to a 64-character value that is safe to use as a cookie.
const sessionTokenBytes = 32

func newSessionToken() (string, error) {
	b, err := util.RandomBytes(sessionTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return util.HexEncode(b), nil
}

// newSession mints a fresh token and registers it with the store.
func (a *API) newSession() (string, time.Time, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(a.sessionDuration)
	a.sessions.Put(token, expiresAt)
	return token, expiresAt, nil
}
