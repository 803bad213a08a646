// Package url is a small convenience wrapper for making HTTP requests.
//
// One function is exposed per HTTP verb. All protocol work (connection
// management, TLS, proxying, redirect following, transfer decoding) is
// delegated to the net/http engine; this package only marshals arguments
// into the engine's request and assembles the engine's output into a
// Response value.
//
// Verb functions never return an error. A server error status produces a
// normally populated Response that fails Response.Ok; a transport failure
// (DNS, connection refused, TLS handshake) produces a zero Response with
// StatusCode 0. Callers inspect Ok or StatusCode themselves.
//
// The package-level verb functions share one process-wide Client that is
// initialized on first use. Workers that need their own engine handle or
// non-default options (proxy, timeout, rate ceiling) create a Client per
// execution context with NewClient and call its verb methods.
package url
