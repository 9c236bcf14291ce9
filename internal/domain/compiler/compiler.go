package compiler

import "fmt"

// Compiler turns the manifest into a flat, ordered step list by invoking
// each registered provider in registration order. Step order within and
// across providers is exactly the emission order; the plan author (the
// application wiring) is responsible for registering providers so that
// precondition-creating steps come first.
type Compiler struct {
	providers []Provider
}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// RegisterProvider adds a provider. Registration order is execution order.
func (c *Compiler) RegisterProvider(provider Provider) {
	c.providers = append(c.providers, provider)
}

// Providers returns all registered providers.
func (c *Compiler) Providers() []Provider {
	return c.providers
}

// Compile calls every provider and concatenates the emitted steps,
// rejecting duplicate step IDs.
func (c *Compiler) Compile(ctx CompileContext) ([]Step, error) {
	var steps []Step
	seen := make(map[string]bool)

	for _, provider := range c.providers {
		emitted, err := provider.Compile(ctx)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", provider.Name(), err)
		}
		for _, step := range emitted {
			id := step.ID().String()
			if seen[id] {
				return nil, fmt.Errorf("provider %q: duplicate step ID %q", provider.Name(), id)
			}
			seen[id] = true
			steps = append(steps, step)
		}
	}

	return steps, nil
}
