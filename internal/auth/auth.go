// Package auth implements the Identity Broker (I): a uniform retry
// contract over pluggable authentication providers, each exposing the
// same {authenticate, get_user_info, display_name, external_url}
// contract. Grounded on original_source/launcher/src/auth/{auth.rs,base.rs}.
package auth

import (
	"context"
	"errors"
	"net/http"
)

// UserInfo identifies the authenticated player.
type UserInfo struct {
	UUID     string
	Username string
}

// Sink is the single-slot mailbox a provider fills with user-facing
// instructions (typically a URL to open). The driver observes it to
// render UI. A new Post replaces an unread message; the Sink has no
// operation that clears it when the flow completes or is cancelled.
type Sink struct {
	ch chan string
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{ch: make(chan string, 1)}
}

// Post publishes message, replacing any unread prior message.
func (s *Sink) Post(message string) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- message
}

// Messages exposes the channel for the driver to observe.
func (s *Sink) Messages() <-chan string {
	return s.ch
}

// Provider is one pluggable identity backend.
type Provider interface {
	// Authenticate runs the provider's interactive flow, publishing
	// instructions to sink as needed, and returns a session token.
	Authenticate(ctx context.Context, sink *Sink) (token string, err error)
	// GetUserInfo resolves token to the player identity it grants.
	GetUserInfo(ctx context.Context, token string) (UserInfo, error)
	// DisplayName names the provider for UI/logging.
	DisplayName() string
	// ExternalURL returns the provider's auth-relay URL (used to decide
	// whether to inject authlib-injector), if any.
	ExternalURL() (string, bool)
}

// ClientError wraps an HTTP 4xx response from a provider's API, the
// signal that triggers exactly one re-auth attempt.
type ClientError struct {
	StatusCode int
	Err        error
}

func (e *ClientError) Error() string { return e.Err.Error() }
func (e *ClientError) Unwrap() error  { return e.Err }

// IsClientError reports whether status is a 4xx response.
func IsClientError(status int) bool {
	return status >= http.StatusBadRequest && status < http.StatusInternalServerError
}

// ErrCancelled is returned when the context is cancelled mid-flow.
var ErrCancelled = errors.New("auth: cancelled")

// Broker runs a Provider's authenticate/get-user-info contract with the
// cached-token-retry-once algorithm from spec §4.7: a cached token is
// tried once; on a client (4xx) rejection the broker clears it and
// re-runs the interactive flow exactly once more; any other error is
// fatal.
type Broker struct {
	provider Provider
}

// NewBroker returns a Broker driving provider.
func NewBroker(provider Provider) *Broker {
	return &Broker{provider: provider}
}

// Authenticate implements the retry-once-on-4xx algorithm. existingToken
// may be empty to force an interactive flow immediately.
func (b *Broker) Authenticate(ctx context.Context, sink *Sink, existingToken string) (token string, info UserInfo, err error) {
	token = existingToken
	maxAttempts := 1
	if existingToken != "" {
		maxAttempts = 2
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if token == "" {
			token, err = b.provider.Authenticate(ctx, sink)
			if err != nil {
				return "", UserInfo{}, err
			}
		}

		info, err = b.provider.GetUserInfo(ctx, token)
		if err == nil {
			return token, info, nil
		}

		var clientErr *ClientError
		if errorsAsClientError(err, &clientErr) && attempt < maxAttempts {
			token = ""
			continue
		}
		return "", UserInfo{}, err
	}
	return "", UserInfo{}, err
}

func errorsAsClientError(err error, target **ClientError) bool {
	for err != nil {
		if ce, ok := err.(*ClientError); ok {
			*target = ce
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Fingerprint produces the per-provider, per-configuration cache key used
// to key VersionAuthData so switching provider or its parameters creates
// a distinct cache slot.
func Fingerprint(authType string, params ...string) string {
	out := authType
	for _, p := range params {
		out += "|" + p
	}
	return out
}
