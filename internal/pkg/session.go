package pkg

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"
)

const sessionIDBytes = 16

// GenerateNewSessionID returns a random 32-character hex ID.
func GenerateNewSessionID() string {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %w", err))
	}

	return hex.EncodeToString(buf)
}

const SessionCookieName = "user_session"

// SessionID returns the session carried by req. When req has none, a new ID
// is generated and the returned cookie has to be sent back to the client.
// The cookie lives as long as the stored game; a zero lifetime makes it a
// browser-session cookie.
func SessionID(req *http.Request, lifetime time.Duration) (string, *http.Cookie) {
	cookie, err := req.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	cookie = &http.Cookie{
		Name:     SessionCookieName,
		Value:    GenerateNewSessionID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if lifetime > 0 {
		cookie.Expires = time.Now().Add(lifetime)
		cookie.MaxAge = int(lifetime / time.Second)
	}

	return cookie.Value, cookie
}
