package auth

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/common"
)

// Verifier resolves a raw token into an identity.
type Verifier interface {
	Verify(token string) (*Identity, error)
}

// Guard authenticates requests carrying "Authorization: Bearer <token>".
type Guard struct {
	verifier Verifier
}

func NewGuard(v Verifier) *Guard {
	return &Guard{verifier: v}
}

// Authenticate returns the caller's identity, or nil when the header is
// missing, uses another scheme, carries an empty token or fails verification.
func (g *Guard) Authenticate(r *http.Request) *Identity {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return nil
	}

	token := strings.TrimPrefix(header, common.BearerPrefix)
	if token == "" {
		return nil
	}

	id, err := g.verifier.Verify(token)
	if err != nil {
		return nil
	}
	return id
}
