// Package jwt issues and verifies the HS256 bearer tokens that identify
// callers of the notification API, and provides the HTTP middleware that puts
// the verified Claims into the request context.
//
//	svc, err := jwt.New(cfg)
//	if err != nil {
//	    return err
//	}
//	r.Use(jwt.Middleware(svc))
//
//	claims, ok := jwt.GetClaims(r.Context())
//
// Token issuance belongs to the wider application; Generate exists for it and
// for tests.
package jwt
