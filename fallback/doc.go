// Package fallback keeps last-known-good results for guarded dependencies.
//
// When a call is shed before reaching the dependency (open circuit, full
// bulkhead, rate limit) or exhausts its retries, the caller can serve the
// most recent successful result instead of failing outright. The Store holds
// values with a TTL; Fallback wraps a value-returning operation, recording
// successes and serving the stored value on terminal failures.
//
// The core only signals why a call failed. Whether a stale value is
// acceptable is the caller's decision, made per key.
package fallback
