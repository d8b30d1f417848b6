package asyncore

import "reflect"

// registry is a type-keyed singleton service lookup, populated once at
// [NewRuntime] construction. Wait, Defer and the cron helpers do not consult
// it: they reach their services through the Runtime's own fields. Grounded
// on the teacher's registry.go shape
// (a central lookup table the loop consults), but the weak-pointer/
// ring-buffer promise-scavenging machinery doesn't apply here: a runtime has
// a small, fixed, long-lived set of services, not a churning population of
// promises to garbage-collect, so only the "registry of singletons keyed by
// type" idea survives.
type registry struct {
	services map[reflect.Type]any
}

func newRegistry() *registry {
	return &registry{services: make(map[reflect.Type]any, 8)}
}

// registerService installs svc under its own concrete type. Re-registering
// the same type is a programmer error — services are meant to be installed
// exactly once, at construction.
func registerService[S any](r *registry, svc S) {
	t := reflect.TypeOf(svc)
	assertf(r.services[t] == nil, "asyncore: service %v already registered", t)
	r.services[t] = svc
}

// lookupService returns the registered service of type S, or the zero value
// and false if none was registered.
func lookupService[S any](r *registry) (S, bool) {
	var zero S
	t := reflect.TypeOf(zero)
	v, ok := r.services[t]
	if !ok {
		return zero, false
	}
	return v.(S), true
}
