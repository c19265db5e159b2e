package domain

// ProcessorConfig holds the tunable settings of one extraction processor.
// Mutated only through the registry's validated update path; every
// extraction request works from an immutable snapshot taken at start.
type ProcessorConfig struct {
	// ID identifies the processor. Unique within the registry.
	ID string

	// Weight is the processor's relative trust during voting. Must be
	// greater than zero.
	Weight float64

	// Threshold is the minimum self-reported confidence a span needs
	// to be considered at all. In [0,1].
	Threshold float64

	// Enabled controls whether the processor participates in requests.
	Enabled bool
}

// Validate checks the config invariants.
func (c ProcessorConfig) Validate() error {
	if c.ID == "" {
		return ErrInvalidConfig
	}
	if c.Weight <= 0 {
		return ErrInvalidConfig
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return ErrInvalidConfig
	}
	return nil
}

// ConfigUpdate is a partial update to a processor config. Nil fields are
// left unchanged.
type ConfigUpdate struct {
	Weight    *float64
	Threshold *float64
	Enabled   *bool
}

// ProcessorStatus is a read-only view of one processor's state, exposed
// for observability and admin tooling.
type ProcessorStatus struct {
	ID        string
	Loaded    bool
	Available bool
	Enabled   bool
	Weight    float64
	Threshold float64

	// LoadError holds the most recent load failure message, if any.
	LoadError string
}
