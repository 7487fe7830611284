package zipcrack

import "errors"

// ProgressFunc reports (done, total) progress through Z reduction.
// Implementations must return quickly; Zreduction.Reduce calls it once per
// keystream position it processes, from the goroutine running FindKeys.
// The attack phase does not report progress.
type ProgressFunc func(done, total int)

// ParallelConfig controls how Driver spreads candidate Z values across
// worker goroutines.
type ParallelConfig struct {
	// Enabled enables parallel candidate evaluation.
	Enabled bool

	// MaxWorkers is the maximum number of worker goroutines. If 0,
	// defaults to runtime.NumCPU().
	MaxWorkers int

	// ChunkSize is how many candidates each dispatched unit of work
	// covers. Chunks are handed to workers in ascending order, but several
	// chunks are in flight at once and the first success cancels the rest,
	// so in non-exhaustive mode the key returned is the lowest-indexed of
	// the successes found before cancellation, which is not necessarily the
	// lowest-indexed success overall.
	ChunkSize int
}

// Validate checks the parallel configuration for internal consistency.
func (p *ParallelConfig) Validate() error {
	if !p.Enabled {
		return nil
	}
	if p.MaxWorkers < 0 {
		return errors.New("parallel max workers cannot be negative")
	}
	if p.MaxWorkers > 1024 {
		return errors.New("parallel max workers must not exceed 1024")
	}
	if p.ChunkSize < 0 {
		return errors.New("parallel chunk size cannot be negative")
	}
	return nil
}

// DefaultParallelConfig returns the default parallel processing
// configuration: all cores, thousand-candidate chunks.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		Enabled:    true,
		MaxWorkers: 0,
		ChunkSize:  1000,
	}
}

// Config bundles everything Driver needs beyond the raw plaintext/
// ciphertext/offset triple.
type Config struct {
	// MaxPlainSize caps how many bytes of known plaintext FindKeys uses (0 =
	// unlimited). Mirrors the reference CLI's -t/--plain-size.
	MaxPlainSize int

	// Exhaustive makes Driver try every remaining Z candidate instead of
	// stopping at the first success. FindKeys then returns every key
	// triple found, in candidate order, instead of a single-element slice.
	Exhaustive bool

	// Parallel controls the worker pool driving the attack.
	Parallel ParallelConfig

	// Progress, if non-nil, is called during Z reduction; the attack phase
	// does not call it.
	Progress ProgressFunc
}

// DefaultConfig returns a Config with parallelism enabled and no plaintext
// cap.
func DefaultConfig() Config {
	return Config{
		Parallel: DefaultParallelConfig(),
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.MaxPlainSize < 0 {
		return errors.New("max plain size cannot be negative")
	}
	return c.Parallel.Validate()
}
