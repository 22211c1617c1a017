package contentunderstanding

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

type credentialKind int

const (
	credentialNone credentialKind = iota
	credentialSubscriptionKey
	credentialAADToken
)

// Credential is a tagged variant: either a subscription key or an AAD bearer
// token, never both. The zero value carries no credential.
type Credential struct {
	kind   credentialKind
	key    string
	tokens oauth2.TokenSource
}

// SubscriptionKey builds a credential sent as Ocp-Apim-Subscription-Key.
func SubscriptionKey(key string) Credential {
	return Credential{kind: credentialSubscriptionKey, key: key}
}

// AADToken builds a bearer-token credential from a static AAD token.
func AADToken(token string) Credential {
	return TokenCredential(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

// TokenCredential builds a bearer-token credential from a token source, so
// callers with a refreshing source can plug it in directly.
func TokenCredential(src oauth2.TokenSource) Credential {
	return Credential{kind: credentialAADToken, tokens: src}
}

// IsZero reports whether no credential is set.
func (c Credential) IsZero() bool {
	return c.kind == credentialNone
}

func (c Credential) apply(h http.Header) error {
	switch c.kind {
	case credentialSubscriptionKey:
		h.Set("Ocp-Apim-Subscription-Key", c.key)
		return nil
	case credentialAADToken:
		tok, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("resolve bearer token: %w", err)
		}
		h.Set("Authorization", "Bearer "+tok.AccessToken)
		return nil
	default:
		return fmt.Errorf("no credential configured")
	}
}
