// Package monitor tracks dependency error frequency and evaluates alert rules.
//
// The Monitor keeps a sliding window of error timestamps per (code, dependency)
// pair. Each recorded error is checked against the registered alert rules: a
// rule fires when its predicate matches, the matching error count within the
// rule's window reaches its threshold, and the rule's cooldown has elapsed
// since it last fired.
//
// Firing a rule emits an alert event through an observe.Emitter and invokes an
// optional callback, which is how the incident manager subscribes to sustained
// error patterns.
//
// Basic usage:
//
//	mon := monitor.NewMonitor(monitor.MonitorConfig{
//		Emitter: emitter,
//		Rules: []monitor.AlertRule{{
//			Name:      "payments-unavailable",
//			Severity:  "high",
//			Predicate: monitor.MatchCode(faults.CodeServiceUnavailable),
//			Threshold: 5,
//			Window:    time.Minute,
//			Cooldown:  5 * time.Minute,
//		}},
//	})
//
//	// On every failed dependency call:
//	mon.Record(ctx, monitor.EventFromError(ctx, "payments", err))
package monitor
