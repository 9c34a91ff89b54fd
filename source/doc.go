// Package source implements digits.Source for the places π digits come from.
//
// HTTPSource talks to the pi.delivery REST API, which serves at most 1000
// digits per request:
//
//	GET https://api.pi.delivery/v1/pi?start=N&numberOfDigits=1000
//	{"content": "3141592653..."}
//
// Requests are idempotent, so transient failures (transport errors, 429 and
// 5xx responses) are retried a bounded number of times with a linear backoff.
//
// Static serves pages from a digit string held in memory. It backs tests and
// offline runs against a known digit window.
package source
