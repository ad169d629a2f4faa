// Package execctx carries per-request execution context through downstream calls.
//
// An execution context is an immutable value holding the correlation id, the
// acting principal, and the absolute deadline of one logical request. It is
// created once at the request boundary and threaded through every downstream
// call on the standard context.Context, so loggers and resilience components
// can read it without the caller passing it explicitly.
//
// Contexts are never mutated. Derivation produces children, and a child
// deadline may only shorten the parent's, never extend it.
//
//	ec := execctx.New(execctx.WithActor("svc-orders"), execctx.WithTimeout(2*time.Second))
//	ctx := execctx.Inject(ctx, ec)
//	...
//	ec, ok := execctx.From(ctx)
package execctx
