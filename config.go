package ecs

import "go.uber.org/zap"

// Config holds tunables for a World. The zero value is usable; NewWorld
// applies sane defaults and Option overrides them.
type Config struct {
	// InitialColumnCapacity is the starting element capacity of every newly
	// created ColumnVector.
	InitialColumnCapacity int

	// EntityGrowthChunk is how many entity slots EntityRegistry appends when
	// no free index remains.
	EntityGrowthChunk int

	// EventCapacity is the starting element capacity of every newly created
	// event ring.
	EventCapacity int

	// Logger receives structured diagnostics (dropped transform records and
	// a per-tick applied/dropped summary). A nil Logger is replaced by
	// zap.NewNop() so callers never need a nil check.
	Logger *zap.Logger
}

// Option mutates a Config during NewWorld construction.
type Option func(*Config)

// WithInitialColumnCapacity overrides the starting capacity of new columns.
func WithInitialColumnCapacity(n int) Option {
	return func(c *Config) { c.InitialColumnCapacity = n }
}

// WithEntityGrowthChunk overrides how many entity slots are appended at once.
func WithEntityGrowthChunk(n int) Option {
	return func(c *Config) { c.EntityGrowthChunk = n }
}

// WithEventCapacity overrides the starting capacity of new event rings.
func WithEventCapacity(n int) Option {
	return func(c *Config) { c.EventCapacity = n }
}

// WithLogger installs a *zap.Logger for tick-time diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func defaultConfig() Config {
	return Config{
		InitialColumnCapacity: 8,
		EntityGrowthChunk:     64,
		EventCapacity:         16,
		Logger:                zap.NewNop(),
	}
}

func (c *Config) applyDefaults() {
	d := defaultConfig()
	if c.InitialColumnCapacity <= 0 {
		c.InitialColumnCapacity = d.InitialColumnCapacity
	}
	if c.EntityGrowthChunk <= 0 {
		c.EntityGrowthChunk = d.EntityGrowthChunk
	}
	if c.EventCapacity <= 0 {
		c.EventCapacity = d.EventCapacity
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
}
