// Package checksum computes content fingerprints of payloads: any mix of
// cryptographic digests, the CRC32 checksum and the ssdeep fuzzy hash, from
// one pass over either an in-memory buffer or a channel.
//
// A Calculator is configured once and may run any number of digests
// concurrently. Streaming a channel yields exactly the results digesting the
// same bytes as one buffer would.
package checksum

import (
	"context"
	"errors"
	"hash"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	adapters "github.com/iamNilotpal/kff/internal/adapters/checksum"
	"github.com/iamNilotpal/kff/internal/core/domain"
	domaincfg "github.com/iamNilotpal/kff/internal/core/domain/config"
	"github.com/iamNilotpal/kff/internal/core/ports"
	"github.com/iamNilotpal/kff/pkg/channels"
	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
	"github.com/iamNilotpal/kff/pkg/logger"
	"github.com/iamNilotpal/kff/pkg/pool"
	"github.com/iamNilotpal/kff/pkg/ssdeep"
)

// Canonical algorithm names accepted by New.
const (
	CRC32  = string(adapters.CRC32)
	SSDEEP = string(adapters.SSDEEP)
	SHA1   = string(adapters.SHA1)
	SHA256 = string(adapters.SHA256)
)

const (
	sourceBuffer  = "buffer"
	sourceChannel = "channel"
)

// Calculator computes Results for buffers and channel factories.
type Calculator struct {
	// order is the configured algorithm order, CRC32 and SSDEEP included
	// when they were named.
	order     []domain.ChecksumAlgorithm
	digesters map[domain.ChecksumAlgorithm]ports.Digester

	useCRC    atomic.Bool
	useSsdeep atomic.Bool

	blocks   *pool.BlockPool
	observer ports.DigestObserver
}

// New creates a calculator for the named algorithms. Names are resolved
// case-insensitively and de-duplicated, keeping the first occurrence.
// Naming CRC32 or SSDEEP switches the matching toggle on. An unknown name
// fails with an unsupported_algorithm error.
func New(algorithms []string, opts ...Option) (*Calculator, error) {
	options := &domain.ChecksumOptions{BlockSize: domaincfg.DefaultBlockSize}
	for _, opt := range opts {
		opt(options)
	}

	names, err := adapters.Normalize(algorithms)
	if err != nil {
		return nil, err
	}
	options.Algorithms = names

	for _, name := range names {
		switch adapters.Kind(name) {
		case domain.KindChecksum:
			options.UseCRC = true
		case domain.KindFuzzy:
			options.UseSsdeep = true
		}
	}

	return newCalculator(options)
}

// NewDefault creates a calculator for SHA-1 plus the CRC32 checksum.
// Options are applied on top of that default.
func NewDefault(opts ...Option) (*Calculator, error) {
	defaults := adapters.DefaultOptions()
	names := make([]string, 0, len(defaults.Algorithms))
	for _, alg := range defaults.Algorithms {
		names = append(names, string(alg))
	}

	return New(names, append([]Option{WithCRC(defaults.UseCRC), WithSsdeep(defaults.UseSsdeep)}, opts...)...)
}

func newCalculator(options *domain.ChecksumOptions) (*Calculator, error) {
	if err := domaincfg.ValidateBlockSize(options.BlockSize); err != nil {
		return nil, kfferrors.New(kfferrors.ErrorInvalidArgument, "new calculator", err)
	}
	if err := adapters.Validate(options); err != nil {
		return nil, err
	}

	c := &Calculator{
		order:     options.Algorithms,
		digesters: make(map[domain.ChecksumAlgorithm]ports.Digester, len(options.Algorithms)),
		blocks:    pool.NewBlockPool(int(options.BlockSize)),
		observer:  options.Observer,
	}

	for _, alg := range options.Algorithms {
		if adapters.Kind(alg) != domain.KindCryptographic {
			continue
		}
		d, err := adapters.Lookup(alg)
		if err != nil {
			return nil, err
		}
		c.digesters[alg] = d
	}

	c.useCRC.Store(options.UseCRC)
	c.useSsdeep.Store(options.UseSsdeep)
	return c, nil
}

// SetUseCRC turns the CRC32 checksum on or off for digests started later.
func (c *Calculator) SetUseCRC(on bool) { c.useCRC.Store(on) }

// UseCRC reports whether the CRC32 checksum is computed.
func (c *Calculator) UseCRC() bool { return c.useCRC.Load() }

// SetUseSsdeep turns the fuzzy hash on or off for digests started later.
func (c *Calculator) SetUseSsdeep(on bool) { c.useSsdeep.Store(on) }

// UseSsdeep reports whether the fuzzy hash is computed.
func (c *Calculator) UseSsdeep() bool { return c.useSsdeep.Load() }

// BlockSize returns the size of the blocks channels are read in.
func (c *Calculator) BlockSize() int { return c.blocks.Size() }

// Algorithms returns the algorithms a digest started now reports, in
// result order.
func (c *Calculator) Algorithms() []string {
	order := c.resultOrder(c.UseCRC(), c.UseSsdeep())
	names := make([]string, len(order))
	for i, alg := range order {
		names[i] = string(alg)
	}
	return names
}

// resultOrder is the configured order filtered by the toggles, with
// switched-on but unnamed CRC32 and SSDEEP appended in that order.
func (c *Calculator) resultOrder(useCRC, useSsdeep bool) []domain.ChecksumAlgorithm {
	order := make([]domain.ChecksumAlgorithm, 0, len(c.order)+2)
	namedCRC, namedSsdeep := false, false

	for _, alg := range c.order {
		switch adapters.Kind(alg) {
		case domain.KindChecksum:
			namedCRC = true
			if !useCRC {
				continue
			}
		case domain.KindFuzzy:
			namedSsdeep = true
			if !useSsdeep {
				continue
			}
		}
		order = append(order, alg)
	}

	if useCRC && !namedCRC {
		order = append(order, adapters.CRC32)
	}
	if useSsdeep && !namedSsdeep {
		order = append(order, adapters.SSDEEP)
	}
	return order
}

// run holds the engines of one digest. Runs share nothing.
type run struct {
	order   []domain.ChecksumAlgorithm
	engines map[domain.ChecksumAlgorithm]hash.Hash
	writers []io.Writer
	crc     hash.Hash32
	fuzzy   *ssdeep.State
	size    int64
}

func (c *Calculator) newRun() *run {
	useCRC, useSsdeep := c.UseCRC(), c.UseSsdeep()

	r := &run{
		order:   c.resultOrder(useCRC, useSsdeep),
		engines: make(map[domain.ChecksumAlgorithm]hash.Hash, len(c.digesters)),
	}

	for _, alg := range r.order {
		switch adapters.Kind(alg) {
		case domain.KindChecksum:
			r.crc = adapters.NewCRC32IEEE().New32()
			r.writers = append(r.writers, r.crc)
		case domain.KindFuzzy:
			r.fuzzy = ssdeep.New()
			r.writers = append(r.writers, r.fuzzy)
		default:
			d, ok := c.digesters[alg]
			if !ok {
				panic("checksum: no engine registered for " + string(alg))
			}
			h := d.New()
			r.engines[alg] = h
			r.writers = append(r.writers, h)
		}
	}

	return r
}

// write feeds p to every engine. Engines never fail on Write.
func (r *run) write(p []byte) {
	for _, w := range r.writers {
		w.Write(p)
	}
	r.size += int64(len(p))
}

func (r *run) results() (*Results, error) {
	res := &Results{
		order:  make([]string, len(r.order)),
		hashes: make(map[string][]byte, len(r.engines)),
		crc:    -1,
	}

	for i, alg := range r.order {
		res.order[i] = string(alg)
	}
	for alg, h := range r.engines {
		res.hashes[string(alg)] = h.Sum(nil)
	}

	if r.crc != nil {
		res.crc = int64(r.crc.Sum32())
	}

	if r.fuzzy != nil {
		sum, err := r.fuzzy.Digest()
		if err != nil {
			return nil, err
		}
		res.fuzzy = sum
		res.hasFuzzy = true
	}

	return res, nil
}

// Digest computes the results for data.
//
// It panics only when a configured algorithm has no engine, which New rules
// out, or when the fuzzy hash is on and data exceeds the 192 GiB it can
// describe.
func (c *Calculator) Digest(data []byte) *Results {
	start := time.Now()

	r := c.newRun()
	r.write(data)

	res, err := r.results()
	c.observe(sourceBuffer, r.size, time.Since(start), err)
	if err != nil {
		panic("checksum: " + err.Error())
	}
	return res
}

// DigestFactory is DigestContext without cancellation.
func (c *Calculator) DigestFactory(f channels.Factory, log *zap.SugaredLogger) (*Results, error) {
	return c.DigestContext(context.Background(), f, log)
}

// DigestContext opens one channel from f, streams it from offset 0 to the
// end through every engine, and closes it again on every path.
//
// A read failure or cancellation of ctx is logged through log and fails
// the whole run with a channel_read error; partial results are never
// returned. Failing to close the channel fails the run too. log may be nil.
func (c *Calculator) DigestContext(ctx context.Context, f channels.Factory, log *zap.SugaredLogger) (res *Results, err error) {
	log = logger.OrNop(log)
	start := time.Now()
	r := c.newRun()

	defer func() {
		c.observe(sourceChannel, r.size, time.Since(start), err)
	}()

	if f == nil {
		return nil, kfferrors.InvalidArgument("digest channel", "factory", nil, errors.New("must not be nil"))
	}

	ch, err := f.Create()
	if err != nil {
		log.Errorw("Failed to open channel for digest", "error", err)
		return nil, err
	}

	defer func() {
		if cerr := ch.Close(); cerr != nil {
			log.Errorw("Failed to close channel after digest", "bytesRead", r.size, "error", cerr)
			err = multierr.Append(err, kfferrors.New(kfferrors.ErrorChannelRead, "close channel", cerr))
			res = nil
		}
	}()

	block := c.blocks.Get()
	defer c.blocks.Put(block)
	buf := *block

	for {
		if cerr := ctx.Err(); cerr != nil {
			log.Warnw("Digest cancelled", "bytesRead", r.size, "error", cerr)
			return nil, kfferrors.New(kfferrors.ErrorChannelRead, "digest channel", cerr)
		}

		n, rerr := ch.Read(buf)
		if n > 0 {
			r.write(buf[:n])
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			log.Errorw("Failed to read channel during digest", "bytesRead", r.size, "error", rerr)
			return nil, kfferrors.New(kfferrors.ErrorChannelRead, "digest channel", rerr)
		}
	}

	res, err = r.results()
	if err != nil {
		log.Errorw("Failed to finish fuzzy hash", "bytesRead", r.size, "error", err)
		return nil, kfferrors.New(kfferrors.ErrorInvalidArgument, "digest channel", err)
	}
	return res, nil
}

func (c *Calculator) observe(source string, size int64, elapsed time.Duration, err error) {
	if c.observer != nil {
		c.observer.ObserveDigest(source, size, elapsed, err)
	}
}
