package ability

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Registry maps ability names to abilities.
type Registry map[string]Ability

// Register adds an ability, replacing any existing one with the same name.
func (r Registry) Register(a Ability) {
	r[a.Name] = a
}

// Lookup resolves an ability by name.
func (r Registry) Lookup(name string) (Ability, bool) {
	a, ok := r[name]
	return a, ok
}

// Names returns the registered ability names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog renders every ability signature for prompt context, in name order.
func (r Registry) Catalog() string {
	var parts []string
	for _, name := range r.Names() {
		parts = append(parts, r[name].Signature())
	}
	return strings.Join(parts, "\n\n")
}

// Run validates the arguments and invokes the ability. Retryable abilities
// get one more attempt on failure; they must be side-effect free. Callers
// convert any returned error into an observation; errors never propagate past
// the control loop.
func (r Registry) Run(ctx context.Context, taskID, name string, args map[string]any) (string, error) {
	a, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("ability not found: %s", name)
	}
	if err := a.ValidateArgs(args); err != nil {
		return "", err
	}
	out, err := a.Fn(ctx, taskID, args)
	if err != nil && a.Retryable && ctx.Err() == nil {
		out, err = a.Fn(ctx, taskID, args)
	}
	return out, err
}
