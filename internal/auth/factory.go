package auth

import (
	"fmt"

	"github.com/novaforge/launcher/internal/model"
)

// ProviderFactory builds a Provider for each known model.AuthData.Type.
// Providers live in internal/auth/providers to avoid a dependency cycle
// (they only need auth.Sink/auth.UserInfo, not the broker itself); the
// factory is supplied by the caller (cmd/novaforge) so this package
// never imports providers directly.
type ProviderFactory func(model.AuthData) (Provider, error)

// NewProviderFactory composes the standard factories for none/microsoft/
// ely.by/telegram into one dispatch function keyed by AuthData.Type,
// grounded on auth/base.rs::get_auth_provider.
func NewProviderFactory(none, microsoft, elyby, telegram func(model.AuthData) (Provider, error)) ProviderFactory {
	return func(data model.AuthData) (Provider, error) {
		switch data.Type {
		case model.AuthTypeNone, "":
			return none(data)
		case model.AuthTypeMicrosoft:
			return microsoft(data)
		case model.AuthTypeElyBy:
			return elyby(data)
		case model.AuthTypeTelegram:
			return telegram(data)
		default:
			return nil, fmt.Errorf("auth: unknown provider type %q", data.Type)
		}
	}
}
