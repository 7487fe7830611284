package zipcrack

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
)

// Driver orchestrates Z reduction followed by the 12-position guess tree
// across a worker pool, turning a recovered candidate into a Keys.
type Driver struct {
	cfg Config
}

// NewDriver builds a Driver bound to cfg. cfg is validated eagerly so
// callers learn about a bad configuration before any work starts.
func NewDriver(cfg Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Driver{cfg: cfg}, nil
}

// FindKeys runs Z reduction over data.Keystream, then dispatches the
// surviving candidates across a worker pool running the attack's guess
// tree. In the default (non-exhaustive) mode it returns a single-element
// slice holding the first key triple found. With Config.Exhaustive set,
// every candidate that survives CarryOut is collected and returned,
// ordered the way a sequential scan of candidates would find them.
func (d *Driver) FindKeys(ctx context.Context, data *Data) ([]*Keys, error) {
	if d.cfg.MaxPlainSize > 0 && len(data.Plaintext) > d.cfg.MaxPlainSize {
		capped, err := NewData(data.Plaintext[:d.cfg.MaxPlainSize], data.Ciphertext, data.Offset)
		if err != nil {
			return nil, err
		}
		data = capped
	}

	zr := NewZreduction(data.Keystream)
	zr.SetProgress(d.cfg.Progress)
	zr.Generate()
	zr.Reduce()

	index := zr.Index() + 1 - AttackSize
	if index < 0 {
		return nil, &NoKeysFoundError{Attempted: 0}
	}

	candidates := zr.Vector()
	base := NewAttack(data, index)

	keys, attempted, err := d.searchCandidates(ctx, base, candidates)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, &NoKeysFoundError{Attempted: attempted}
	}
	return keys, nil
}

// searchCandidates spreads candidates across a chunked worker pool running
// the attack's guess tree, generalizing the reference worker-pool pattern
// of a buffered job channel plus a panic-recovering goroutine per worker.
func (d *Driver) searchCandidates(ctx context.Context, base *Attack, candidates []uint32) ([]*Keys, int, error) {
	attempted := int32(0)

	if !d.cfg.Parallel.Enabled || len(candidates) == 0 {
		return d.searchSequential(ctx, base, candidates, &attempted)
	}

	numWorkers := d.cfg.Parallel.MaxWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(candidates) {
		numWorkers = len(candidates)
	}

	chunkSize := d.cfg.Parallel.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 1000
	}

	type chunk struct {
		start, end int
	}
	var chunks []chunk
	for start := 0; start < len(candidates); start += chunkSize {
		end := start + chunkSize
		if end > len(candidates) {
			end = len(candidates)
		}
		chunks = append(chunks, chunk{start, end})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobChan := make(chan chunk, len(chunks))
	errChan := make(chan error, numWorkers)

	type hit struct {
		start, index int
		keys         *Keys
	}
	var mu sync.Mutex
	var hits []hit

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					select {
					case errChan <- fmt.Errorf("panic in attack worker: %v", r):
					default:
					}
				}
			}()

			for c := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				for i := c.start; i < c.end; i++ {
					select {
					case <-ctx.Done():
						return
					default:
					}

					atomic.AddInt32(&attempted, 1)

					attack := base.Clone()
					if attack.CarryOut(candidates[i]) {
						keys := attack.Keys()

						mu.Lock()
						hits = append(hits, hit{start: c.start, index: i, keys: keys})
						mu.Unlock()

						if !d.cfg.Exhaustive {
							cancel()
							return
						}
					}
				}
			}
		}()
	}

	for _, c := range chunks {
		jobChan <- c
	}
	close(jobChan)

	wg.Wait()
	close(errChan)

	select {
	case err := <-errChan:
		return nil, int(attempted), err
	default:
	}

	if len(hits) == 0 {
		return nil, int(attempted), nil
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].start != hits[j].start {
			return hits[i].start < hits[j].start
		}
		return hits[i].index < hits[j].index
	})

	found := make([]*Keys, len(hits))
	for i, h := range hits {
		found[i] = h.keys
	}
	if !d.cfg.Exhaustive {
		// Multiple workers can each land a hit before cancellation
		// propagates; keep only the lowest-indexed of those hits.
		found = found[:1]
	}

	return found, int(attempted), nil
}

// Decrypt strips the ZipCrypto cipher (and, if compressed, inflates) raw
// entry bytes given a recovered Keys, mirroring the reference CLI's
// decipher step that follows a successful FindKeys.
func (d *Driver) Decrypt(keys *Keys, raw []byte, compressed bool) ([]byte, error) {
	dec := NewDecipherer(keys)
	return dec.DecryptAndInflate(raw, compressed)
}

// searchSequential is the non-parallel path, used when parallelism is
// disabled or there are no candidates to dispatch.
func (d *Driver) searchSequential(ctx context.Context, base *Attack, candidates []uint32, attempted *int32) ([]*Keys, int, error) {
	var found []*Keys

	for _, z := range candidates {
		select {
		case <-ctx.Done():
			return found, int(*attempted), nil
		default:
		}

		atomic.AddInt32(attempted, 1)

		attack := base.Clone()
		if attack.CarryOut(z) {
			found = append(found, attack.Keys())
			if !d.cfg.Exhaustive {
				break
			}
		}
	}

	return found, int(*attempted), nil
}
