package transport

import "net/http"

// Authenticator applies a credential to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request, credential string)
}

// NoAuth leaves requests untouched.
type NoAuth struct{}

// Apply does nothing.
func (NoAuth) Apply(*http.Request, string) {}

// BearerAuth sends the credential as an Authorization bearer token.
// TMDB read access tokens use this scheme.
type BearerAuth struct{}

// Apply sets the Authorization header.
func (BearerAuth) Apply(req *http.Request, credential string) {
	req.Header.Set("Authorization", "Bearer "+credential)
}

// QueryAuth sends the credential as a query parameter.
// TMDB v3 API keys use this scheme with Param "api_key".
type QueryAuth struct {
	Param string
}

// Apply adds the query parameter, keeping the existing ones.
func (a QueryAuth) Apply(req *http.Request, credential string) {
	if req.URL == nil {
		return
	}
	q := req.URL.Query()
	q.Set(a.Param, credential)
	req.URL.RawQuery = q.Encode()
}

// ForScheme returns the authenticator for a configured scheme name:
// "bearer" (default), "query", or "none".
func ForScheme(scheme string) Authenticator {
	switch scheme {
	case "none":
		return NoAuth{}
	case "query", "api_key":
		return QueryAuth{Param: "api_key"}
	default:
		return BearerAuth{}
	}
}
