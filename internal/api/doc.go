// Package api exposes notifications over HTTP: the live event stream, relay
// channel authorization, preference toggles and the inbox queries. Every
// route under /api/notifications requires a bearer token.
package api
