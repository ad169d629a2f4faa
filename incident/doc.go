// Package incident tracks service incidents and runs automated responses.
//
// An incident represents a sustained error pattern for one (dependency, code)
// key. The Manager holds a pattern→response table: when an error event is
// reported and no incident is active for its key, a new incident is created
// and the matching response's actions run in order (alert, open-circuit,
// scale, failover). Subsequent reports for an active incident only update its
// error count, unless the new event matches a strictly higher severity, in
// which case the incident escalates and the higher response's actions run.
//
// Incident creation is deduplicated: concurrent reports for the same key
// create one incident and run its actions once. Active incidents are never
// dropped implicitly; they leave the active set through Resolve or
// ResolveQuiet.
//
// Typical wiring subscribes the manager to an error monitor:
//
//	mgr := incident.NewManager(incident.ManagerConfig{
//		Emitter:   emitter,
//		Logger:    logger,
//		Responses: responses,
//	})
//	mon := monitor.NewMonitor(monitor.MonitorConfig{
//		Rules:   rules,
//		OnAlert: mgr.Subscribe(),
//	})
package incident
