package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/novaforge/launcher/internal/auth"
)

const (
	elyByAuthorizeURL = "https://account.ely.by/oauth2/v1"
	elyByTokenURL     = "https://account.ely.by/api/oauth2/v1/token"
	elyByUserInfoURL  = "https://account.ely.by/api/account/v1/info"
)

// ElyBy is the classic-OAuth provider for the ely.by identity service:
// a local loopback listener receives the authorization callback.
// Grounded on original_source/launcher/src/auth/elyby.rs, retrying the
// listener on an invalid_request callback without tearing down the
// whole session.
type ElyBy struct {
	ClientID     string
	ClientSecret string
}

func (p ElyBy) DisplayName() string { return "Ely.by" }

func (p ElyBy) ExternalURL() (string, bool) { return elyByAuthorizeURL, true }

// Authenticate runs the loopback listener, publishes the authorization
// URL to sink, and exchanges the returned code for an access token.
// Invalid-code callbacks (stale browser tab, replayed link) are retried
// on the same listener rather than failing the whole attempt.
func (p ElyBy) Authenticate(ctx context.Context, sink *auth.Sink) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("elyby: failed to bind loopback listener: %w", err)
	}
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	redirectURI := fmt.Sprintf("http://127.0.0.1:%d/callback", port)
	state := uuid.NewString()

	authURL := p.buildAuthURL(redirectURI, state)
	sink.Post(authURL)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	srv := &http.Server{}
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- fmt.Errorf("elyby: state mismatch")
			return
		}
		if errStr := q.Get("error"); errStr != "" {
			if errStr == "invalid_request" {
				// retry on the same listener: ask the user to try the link again.
				http.Error(w, "invalid request, please retry", http.StatusBadRequest)
				return
			}
			http.Error(w, errStr, http.StatusBadRequest)
			errCh <- fmt.Errorf("elyby: authorization error: %s", errStr)
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authentication complete, you may close this tab.")
		codeCh <- code
	})
	srv.Handler = mux

	go srv.Serve(listener)
	defer srv.Shutdown(context.Background())

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-errCh:
		return "", err
	case code := <-codeCh:
		return p.exchangeCode(ctx, code, redirectURI)
	}
}

func (p ElyBy) buildAuthURL(redirectURI, state string) string {
	v := url.Values{}
	v.Set("client_id", p.ClientID)
	v.Set("redirect_uri", redirectURI)
	v.Set("response_type", "code")
	v.Set("scope", "account_info minecraft_server_session")
	v.Set("state", state)
	return elyByAuthorizeURL + "?" + v.Encode()
}

func (p ElyBy) exchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	v := url.Values{}
	v.Set("grant_type", "authorization_code")
	v.Set("code", code)
	v.Set("client_id", p.ClientID)
	v.Set("client_secret", p.ClientSecret)
	v.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, elyByTokenURL, nil)
	if err != nil {
		return "", err
	}
	req.URL.RawQuery = v.Encode()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if auth.IsClientError(resp.StatusCode) {
		return "", &auth.ClientError{StatusCode: resp.StatusCode, Err: fmt.Errorf("elyby: token exchange rejected: %s", resp.Status)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("elyby: token exchange failed: %s", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.AccessToken, nil
}

// GetUserInfo resolves token to the ely.by account it belongs to.
func (p ElyBy) GetUserInfo(ctx context.Context, token string) (auth.UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, elyByUserInfoURL, nil)
	if err != nil {
		return auth.UserInfo{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return auth.UserInfo{}, err
	}
	defer resp.Body.Close()
	if auth.IsClientError(resp.StatusCode) {
		return auth.UserInfo{}, &auth.ClientError{StatusCode: resp.StatusCode, Err: fmt.Errorf("elyby: user info rejected: %s", resp.Status)}
	}
	if resp.StatusCode != http.StatusOK {
		return auth.UserInfo{}, fmt.Errorf("elyby: user info failed: %s", resp.Status)
	}

	var body struct {
		UUID     string `json:"uuid"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return auth.UserInfo{}, err
	}
	return auth.UserInfo{UUID: body.UUID, Username: body.Username}, nil
}
