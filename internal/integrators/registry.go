package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/diatomic/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"verlet":   func() dynamo.Integrator { return NewVelocityVerlet() },
	"leapfrog": func() dynamo.Integrator { return NewLeapfrog() },
	"rk4":      func() dynamo.Integrator { return NewRK4() },
	"euler":    func() dynamo.Integrator { return NewEuler() },
}

// Lookup returns the integrator registered under name.
func Lookup(name string) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("integrators: unknown integrator %q (available: %v)", name, Names())
	}
	return fn(), nil
}

// Names lists the registered integrators.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
