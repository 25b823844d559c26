package testutil

import (
	"net/http"

	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/requestcontext"
)

// WithCaller leaves req as auth.Authenticate would after a valid token.
// Invalid principals are not added.
func WithCaller(req *http.Request, caller string) *http.Request {
	if principal, err := domain.ParsePrincipal(caller); err == nil {
		return req.WithContext(requestcontext.WithCaller(req.Context(), principal))
	}
	return req
}
