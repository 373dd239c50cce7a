package telemetry

import (
	"fmt"
)

// API is an abstraction over logging/metrics so components can be asserted on in tests.
//
// note: fault injection point
type API interface {
	// ReportBroken reports a component that failed in a way someone should look at.
	//
	// The `id` names the **component** that broke, not the line that broke. A failed
	// listings request inside the dataset loader is `loader.load`, and whether it was
	// the transport or the decoder is given by wrapping the error with fmt.Errorf.
	//
	// Formatting rules:
	// 1) all lowercase
	// 2) use underscores for large components
	// 3) use dashes for methods part of a larger component
	//
	// Ids are usually declared as `report_...` string constants at the top of the file
	// that reports them. Namespacing between packages is left to ScopedAPI.
	ReportBroken(id string, params ...any)

	// ReportWarning reports a scenario that is expected to self-correct, like a status
	// poll that failed and will be retried on the next tick.
	//
	// For what value to provide as `id` refer to ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug reports some debug information that will be ignored in production
	ReportDebug(msg string, params ...any)

	// ReportCount reports the current value of a gauge-like count, points of data over time
	// rather than something to be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id and message with a namespace, like a sub-logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

// NewScopedAPI creates a ScopedAPI out of a given namespace and another api.
func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}
