package gateway

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
)

type tokenKey struct{}

// WithAuthorization attaches the caller's Authorization header value to ctx so
// remote calls are made on the caller's behalf. "Bearer x" and "Token x" are
// both accepted; a bare value is sent as a bearer token.
func WithAuthorization(ctx context.Context, header string) context.Context {
	tok := parseAuthorization(header)
	if tok == nil {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, tok)
}

func tokenFrom(ctx context.Context) *oauth2.Token {
	tok, _ := ctx.Value(tokenKey{}).(*oauth2.Token)
	return tok
}

func parseAuthorization(header string) *oauth2.Token {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}
	scheme, value, found := strings.Cut(header, " ")
	if !found {
		if strings.EqualFold(header, "bearer") || strings.EqualFold(header, "token") {
			return nil
		}
		return &oauth2.Token{AccessToken: header, TokenType: "Bearer"}
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &oauth2.Token{AccessToken: value, TokenType: scheme}
}
