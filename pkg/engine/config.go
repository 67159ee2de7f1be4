package engine

// DefaultMaxIterations is the round ceiling used when Config.MaxIterations
// is not positive.
const DefaultMaxIterations = 5

// Config holds configuration for the Generator.
type Config struct {
	// EnableIteration allows more than one tool round per query. When
	// false, the loop stops after the first continuation even if the
	// model asks for more tools.
	EnableIteration bool

	// MaxIterations is the maximum number of tool rounds per query. Zero
	// or negative means DefaultMaxIterations.
	MaxIterations int

	// Debug records a ToolExecution for every tool call in Result.
	Debug bool
}

// DefaultConfig returns iteration enabled with the default ceiling.
func DefaultConfig() Config {
	return Config{
		EnableIteration: true,
		MaxIterations:   DefaultMaxIterations,
	}
}

// maxIterations returns the effective ceiling.
func (c Config) maxIterations() int {
	if c.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return c.MaxIterations
}
