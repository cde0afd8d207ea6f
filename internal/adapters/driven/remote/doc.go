// Package remote provides an HTTP client for a Frappe-style method API.
//
// The Client implements driven.QueryService and driven.AddressLookup by
// POSTing to /api/method/<namespace>.<routine> with token authentication.
// Requests are throttled by a token bucket and by Retry-After hints from the
// server. Failed requests are never retried.
package remote
