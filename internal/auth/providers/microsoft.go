package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/novaforge/launcher/internal/auth"
)

const (
	msAuthTimeout = 5 * time.Minute

	xblAuthURL        = "https://user.auth.xboxlive.com/user/authenticate"
	xstsAuthURL       = "https://xsts.auth.xboxlive.com/xsts/authorize"
	mcLoginURL        = "https://api.minecraftservices.com/authentication/login_with_xbox"
	mcProfileURL      = "https://api.minecraftservices.com/minecraft/profile"
	microsoftExternal = "https://login.live.com/oauth20_authorize.srf"
)

// Microsoft is the PKCE-based Microsoft/Xbox Live/Minecraft-services
// chained-auth provider. Grounded on the chained-flow description in
// spec §4.7 and auth/base.rs's provider dispatch (the original has no
// literal microsoft.rs in the retrieved sources, so the OAuth2 config
// and endpoint URLs follow Microsoft's publicly documented device/PKCE
// flow and Minecraft's documented Xbox-Live chained exchange).
type Microsoft struct {
	ClientID string
	Endpoint oauth2.Endpoint
	Log      *zap.Logger
}

func (p Microsoft) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

func (p Microsoft) DisplayName() string { return "Microsoft" }

func (p Microsoft) ExternalURL() (string, bool) { return microsoftExternal, true }

// Authenticate runs the PKCE authorization-code flow via a local
// loopback listener, then exchanges the Microsoft token through Xbox
// Live (XBL) and Xbox Secure Token Service (XSTS) for a Minecraft
// access token. Fails with a timeout error after msAuthTimeout with no
// callback.
func (p Microsoft) Authenticate(ctx context.Context, sink *auth.Sink) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, msAuthTimeout)
	defer cancel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("microsoft: failed to bind loopback listener: %w", err)
	}
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	redirectURL := fmt.Sprintf("http://127.0.0.1:%d/callback", port)

	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()

	conf := &oauth2.Config{
		ClientID:    p.ClientID,
		Endpoint:    p.Endpoint,
		RedirectURL: redirectURL,
		Scopes:      []string{"XboxLive.signin", "offline_access"},
	}

	sink.Post(conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)))

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	srv := &http.Server{}
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- fmt.Errorf("microsoft: state mismatch")
			return
		}
		if errStr := q.Get("error"); errStr != "" {
			http.Error(w, errStr, http.StatusBadRequest)
			errCh <- fmt.Errorf("microsoft: authorization error: %s", errStr)
			return
		}
		fmt.Fprintln(w, "Authentication complete, you may close this tab.")
		codeCh <- q.Get("code")
	})
	srv.Handler = mux

	go srv.Serve(listener)
	defer srv.Shutdown(context.Background())

	var code string
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("microsoft: %w", ctx.Err())
	case err := <-errCh:
		return "", err
	case code = <-codeCh:
	}

	tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("microsoft: token exchange failed: %w", err)
	}

	return p.chainToMinecraft(ctx, tok.AccessToken)
}

type xblResponse struct {
	Token          string `json:"Token"`
	DisplayClaims  struct {
		Xui []struct {
			Uhs string `json:"uhs"`
		} `json:"xui"`
	} `json:"DisplayClaims"`
}

func (p Microsoft) chainToMinecraft(ctx context.Context, msAccessToken string) (string, error) {
	xbl, err := p.xblAuthenticate(ctx, msAccessToken)
	if err != nil {
		return "", err
	}
	xsts, err := p.xstsAuthorize(ctx, xbl.Token)
	if err != nil {
		return "", err
	}
	if len(xsts.DisplayClaims.Xui) == 0 {
		return "", fmt.Errorf("microsoft: XSTS response missing user hash")
	}
	return p.loginWithXbox(ctx, xsts.DisplayClaims.Xui[0].Uhs, xsts.Token)
}

func (p Microsoft) xblAuthenticate(ctx context.Context, msAccessToken string) (xblResponse, error) {
	body := map[string]any{
		"Properties": map[string]any{
			"AuthMethod": "RPS",
			"SiteName":   "user.auth.xboxlive.com",
			"RpsTicket":  "d=" + msAccessToken,
		},
		"RelyingParty": "http://auth.xboxlive.com",
		"TokenType":    "JWT",
	}
	var out xblResponse
	err := postJSON(ctx, xblAuthURL, body, &out)
	return out, err
}

func (p Microsoft) xstsAuthorize(ctx context.Context, xblToken string) (xblResponse, error) {
	body := map[string]any{
		"Properties": map[string]any{
			"SandboxId":  "RETAIL",
			"UserTokens": []string{xblToken},
		},
		"RelyingParty": "rp://api.minecraftservices.com/",
		"TokenType":    "JWT",
	}
	var out xblResponse
	err := postJSON(ctx, xstsAuthURL, body, &out)
	return out, err
}

func (p Microsoft) loginWithXbox(ctx context.Context, userHash, xstsToken string) (string, error) {
	body := map[string]any{
		"identityToken": fmt.Sprintf("XBL3.0 x=%s;%s", userHash, xstsToken),
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := postJSON(ctx, mcLoginURL, body, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if auth.IsClientError(resp.StatusCode) {
		return &auth.ClientError{StatusCode: resp.StatusCode, Err: fmt.Errorf("microsoft: %s rejected: %s", url, resp.Status)}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("microsoft: %s failed: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetUserInfo resolves a Minecraft access token to the owning profile,
// also logging (but not trusting) its JWT expiry for cache-metadata
// purposes — the core never re-verifies token authenticity beyond this.
func (p Microsoft) GetUserInfo(ctx context.Context, token string) (auth.UserInfo, error) {
	if exp, err := expiryOf(token); err == nil {
		p.logger().Debug("minecraft access token expiry", zap.Time("expires_at", exp))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mcProfileURL, nil)
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
		return auth.UserInfo{}, &auth.ClientError{StatusCode: resp.StatusCode, Err: fmt.Errorf("microsoft: profile fetch rejected: %s", resp.Status)}
	}
	if resp.StatusCode != http.StatusOK {
		return auth.UserInfo{}, fmt.Errorf("microsoft: profile fetch failed: %s", resp.Status)
	}

	var body struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return auth.UserInfo{}, err
	}
	return auth.UserInfo{UUID: dashifyUUID(body.ID), Username: body.Name}, nil
}

func expiryOf(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("microsoft: token has no exp claim")
	}
	return exp.Time, nil
}

func dashifyUUID(id string) string {
	if len(id) != 32 || strings.Contains(id, "-") {
		return id
	}
	return id[0:8] + "-" + id[8:12] + "-" + id[12:16] + "-" + id[16:20] + "-" + id[20:32]
}
