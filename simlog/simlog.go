// Package simlog holds the shared logrus field-logger conventions used by
// the simulator, handler, and learner packages. Simulation loops are hot
// paths, so every call here is a cheap field-building convenience, not a
// wrapper that changes logrus's own level-gating behavior.
package simlog

import "github.com/sirupsen/logrus"

// For returns a logger scoped to component, e.g. "andreasson", "dynamic-tp",
// "sarsa". Matches the cmd/ package's logrus.WithField("component", ...)
// convention.
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

// Dispatch logs an empty-trip dispatch at debug level — too frequent for
// info level in any run of realistic size.
func Dispatch(component string, origin, destin int, reason string) {
	For(component).WithFields(logrus.Fields{
		"origin": origin,
		"destin": destin,
		"reason": reason,
	}).Debug("empty dispatch")
}

// Infeasible logs a solver-infeasibility condition at error level just
// before the caller panics with a *simerr.Violation — the panic carries the
// stack trace for post-mortem analysis, this line is for live log tailing.
func Infeasible(component, detail string) {
	For(component).WithField("detail", detail).Error("solver reported infeasible")
}
