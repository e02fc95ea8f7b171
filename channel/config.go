package channel

// Config holds the five tunables of spec.md §4.9. All are accepted at
// construction time and cannot change afterward.
type Config struct {
	// BlockSize is the element count per underlying mpsc block.
	BlockSize int

	// PackingLevel is accepted and stored for interface parity with the
	// original, but does not change memory layout: 0 (separate state word
	// per slot), 1 (state packed into the value slot), and 2 (further
	// pointer packing) are observably identical here. Spec.md §9 permits
	// ignoring this knob on a first pass; see DESIGN.md.
	PackingLevel int

	// EmbedFirstBlock is accepted for interface parity; Go's allocator
	// gives no observable difference between an embedded and a
	// heap-allocated first block, so it does not change behavior here.
	EmbedFirstBlock bool

	// ReuseBlocks is accepted for interface parity. Go's GC reclaims
	// drained blocks itself; there is no pool to opt in or out of.
	ReuseBlocks bool

	// HeavyLoadThreshold is the pending-item count at or above which Push
	// suspends the producer until a consumer catches up. Zero disables
	// backpressure entirely (Push behaves like Post).
	HeavyLoadThreshold int
}

// DefaultConfig returns the channel's default configuration.
func DefaultConfig() Config {
	return Config{
		BlockSize:          4096,
		PackingLevel:       0,
		EmbedFirstBlock:    true,
		ReuseBlocks:        true,
		HeavyLoadThreshold: 0,
	}
}

// Option configures a Channel at construction time.
type Option func(*Config)

// WithBlockSize sets Config.BlockSize.
func WithBlockSize(n int) Option { return func(c *Config) { c.BlockSize = n } }

// WithPackingLevel sets Config.PackingLevel.
func WithPackingLevel(level int) Option { return func(c *Config) { c.PackingLevel = level } }

// WithEmbedFirstBlock sets Config.EmbedFirstBlock.
func WithEmbedFirstBlock(embed bool) Option {
	return func(c *Config) { c.EmbedFirstBlock = embed }
}

// WithReuseBlocks sets Config.ReuseBlocks.
func WithReuseBlocks(reuse bool) Option { return func(c *Config) { c.ReuseBlocks = reuse } }

// WithHeavyLoadThreshold sets Config.HeavyLoadThreshold.
func WithHeavyLoadThreshold(n int) Option {
	return func(c *Config) { c.HeavyLoadThreshold = n }
}
