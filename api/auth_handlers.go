package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// loginFailureFloor is the minimum total latency of a failed login. The
// delay applies only to the failure path and accounts for time already spent
// in the handler, so failures answer in a consistent >=2s regardless of how
// fast validation ran.
const loginFailureFloor = 2 * time.Second

// Login handles POST /auth/login. Expects form fields username, password and
// an optional redirect target. Malformed bodies are treated as failed
// credentials and are subject to the same throttling delay.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// A parse error leaves the fields empty, which fails validation below.
	_ = r.ParseForm()
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	redirect := r.PostFormValue("redirect")

	if a.creds.Check(username, password) {
		token, expiresAt, err := a.newSession()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}
		writeSessionCookie(w, r, token, expiresAt, a.sessionDuration)
		a.audit.logEvent(AuditLoginSuccess, r, token)
		if redirect == "" {
			redirect = "/"
		}
		http.Redirect(w, r, redirect, http.StatusFound)
		return
	}

	a.audit.logFailure(AuditLoginFailure, r, "invalid credentials")
	waitFailureFloor(r.Context(), start, loginFailureFloor)

	target := "/login?error=invalid"
	if redirect != "" {
		target += "&redirect=" + url.QueryEscape(redirect)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// waitFailureFloor suspends the calling goroutine until at least floor has
// elapsed since start. Only this request is delayed; an early client
// disconnect releases the goroutine.
func waitFailureFloor(ctx context.Context, start time.Time, floor time.Duration) {
	remaining := floor - time.Since(start)
	if remaining <= 0 {
		return
	}
	t := time.NewTimer(remaining)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// AuthCheck handles GET /auth/check, the forward-auth subrequest issued by
// the reverse proxy for every inbound request. The status code is the whole
// contract: 200 allows, 401 denies.
func (a *API) AuthCheck(w http.ResponseWriter, r *http.Request) {
	token := sessionTokenFromRequest(r)

	if token != "" && a.sessions.IsValid(token) {
		a.audit.logEvent(AuditCheckAllowed, r, token)
		writeText(w, http.StatusOK, "OK")
		return
	}

	// No live session. The hash token may still authorize the original
	// request: the proxy reflects the client's request URI in a header,
	// since the subrequest URI is always /auth/check itself.
	if a.creds.HashAuthEnabled() {
		hash := hashFromOriginalURI(r.Header.Get("X-Original-Uri"))
		if hash != "" {
			if a.creds.HashMatches(hash) {
				// Mint a session only when the presented cookie does not
				// already map to a live one.
				activeToken := token
				if token == "" || !a.sessions.IsValid(token) {
					newToken, expiresAt, err := a.newSession()
					if err != nil {
						writeText(w, http.StatusUnauthorized, "Unauthorized")
						return
					}
					writeSessionCookie(w, r, newToken, expiresAt, a.sessionDuration)
					a.audit.logEvent(AuditSessionCreated, r, newToken,
						slog.String("via", "hash"))
					activeToken = newToken
				}
				a.audit.logEvent(AuditCheckAllowed, r, activeToken,
					slog.String("via", "hash"))
				writeText(w, http.StatusOK, "OK")
				return
			}
			a.audit.logFailure(AuditHashRejected, r, "hash token mismatch")
		}
	}

	if token == "" {
		a.audit.logFailure(AuditCheckDenied, r, "no session cookie and no valid hash")
	} else {
		// Found-but-expired entries are removed here as hygiene; the deny
		// decision above never depended on it.
		a.sessions.InvalidateIfExpired(token)
		a.audit.logFailure(AuditCheckDenied, r, "session invalid or expired",
			slog.String("session", tokenPrefix(token)))
	}
	writeText(w, http.StatusUnauthorized, "Unauthorized")
}

// EstablishSession handles GET /auth/establish-session. It lets a hash-token
// link set a durable cookie via a dedicated round trip, which the transparent
// auth-check subrequest cannot do for browser navigation.
func (a *API) EstablishSession(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if !a.creds.HashAuthEnabled() || !a.creds.HashMatches(q.Get("hash")) {
		a.audit.logFailure(AuditHashRejected, r, "invalid or missing hash")
		writeJSON(w, http.StatusUnauthorized, StatusResponse{
			Status:  "error",
			Message: "Invalid or missing hash",
		})
		return
	}

	// An empty return_to value behaves the same as an absent parameter:
	// the caller gets the JSON confirmation instead of a redirect.
	returnTo := q.Get("return_to")

	// Any live session suffices, regardless of how it was created.
	token := sessionTokenFromRequest(r)
	if token != "" && a.sessions.IsValid(token) {
		a.audit.logEvent(AuditSessionAlreadyValid, r, token)
		if returnTo != "" {
			http.Redirect(w, r, returnTo, http.StatusFound)
			return
		}
		writeJSON(w, http.StatusOK, StatusResponse{
			Status:  "ok",
			Message: "Session already valid",
		})
		return
	}

	newToken, expiresAt, err := a.newSession()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to establish session")
		return
	}
	writeSessionCookie(w, r, newToken, expiresAt, a.sessionDuration)
	a.audit.logEvent(AuditSessionEstablished, r, newToken)

	if returnTo != "" {
		http.Redirect(w, r, returnTo, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Message: "Session established",
	})
}

// Health handles GET /health.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:               "ok",
		ActiveSessions:       a.sessions.Count(),
		SessionDurationHours: int(a.sessionDuration.Hours()),
		InstanceID:           a.instanceID,
	})
}

// hashFromOriginalURI extracts the hash query parameter from the original
// request URI reflected by the proxy.
func hashFromOriginalURI(uri string) string {
	if uri == "" {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Query().Get("hash")
}
