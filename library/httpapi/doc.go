// Package httpapi exposes the borrowing use cases over HTTP with a gorilla/mux router.
//
// Authentication happens upstream. The gateway forwards the user id and role in the
// X-User-ID and X-User-Role headers; requests without them are answered with 401, requests
// with a role that may not use a route with 403. The identity is turned into a core.Actor
// that is passed to every command and query explicitly.
//
// Every response body is the envelope {"success": bool, "message": string, "response": any}.
package httpapi
