// Package session pairs an HTTP client with a cookie store.
//
// For each outgoing request a Session attaches the cookies the store holds for
// the request URL and, once the response arrives, feeds every Set-Cookie
// header back into the store using the URL that produced it. Redirects are
// followed hop by hop so cookies set along the chain are recorded for the hop
// that set them.
//
//	s := session.New(client)
//	resp, err := s.GetWith(ctx, "https://example.com/login", nil)
//
// A Session is safe for concurrent use. The network round trip runs outside
// the session lock.
package session
