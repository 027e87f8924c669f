// Package providers holds the concrete Identity Broker providers: the
// offline/anonymous identity, Ely.by OAuth, Microsoft PKCE, and Telegram
// deep-link. Grounded on original_source/launcher/src/auth/{none,elyby}.rs
// and the chained Xbox Live/Minecraft-services flow described in
// auth/base.rs's get_auth_provider dispatch.
package providers

import (
	"context"

	"github.com/novaforge/launcher/internal/auth"
)

// offlineUUID is the fixed all-zero UUID the anonymous provider reports,
// matching auth/none.rs.
const offlineUUID = "00000000-0000-0000-0000-000000000000"

// None is the anonymous/offline identity provider: no network calls, a
// fixed demo identity.
type None struct{}

// Authenticate returns an empty token immediately; GetUserInfo ignores
// whatever token it's given.
func (None) Authenticate(ctx context.Context, sink *auth.Sink) (string, error) { return "", nil }

// GetUserInfo always returns the fixed offline identity.
func (None) GetUserInfo(ctx context.Context, token string) (auth.UserInfo, error) {
	return auth.UserInfo{UUID: offlineUUID, Username: "demo"}, nil
}

// DisplayName identifies this provider in UI/logging.
func (None) DisplayName() string { return "Offline" }

// ExternalURL reports that this provider has no auth-relay endpoint.
func (None) ExternalURL() (string, bool) { return "", false }
