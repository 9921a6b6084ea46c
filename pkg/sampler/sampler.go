// Package sampler provides the random-number streams consumed by materials,
// lights and integrators.
//
// A Sampler is owned by a single rendering task. Streams are derived from a
// base seed and a pixel index so that a render is reproducible regardless of
// how pixels are scheduled across goroutines.
package sampler

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Sampler produces uniform random values for one pixel's sample set
type Sampler interface {
	// StartPixel marks the beginning of a pixel's sample set
	StartPixel(x, y int)
	// Advance moves to the next sample and resets the dimension counter
	Advance()
	// Next1D returns a value in [0, 1)
	Next1D() float64
	// Next2D returns a pair of independent values in [0, 1)
	Next2D() core.Vec2
	// SampleCount returns the configured samples per pixel
	SampleCount() int
	// Seed returns the base seed the stream was derived from
	Seed() uint64
}

// Config describes how samplers are built for a render
type Config struct {
	Type    string // "independent"
	Samples int    // Samples per pixel
	Seed    uint64 // Base seed
}

// DefaultConfig returns an independent sampler with one sample per pixel
func DefaultConfig() Config {
	return Config{Type: "independent", Samples: 1}
}

// Validate checks the configuration
func (c Config) Validate() error {
	switch c.Type {
	case "independent", "":
	default:
		return fmt.Errorf("unsupported sampler type %q", c.Type)
	}
	if c.Samples < 1 {
		return fmt.Errorf("sampler needs at least one sample per pixel, got %d", c.Samples)
	}
	return nil
}

// ForPixel creates the sampler for pixel (x, y) of an image width pixels wide
func (c Config) ForPixel(x, y, width int) Sampler {
	s := NewIndependent(c.Samples, c.Seed, uint64(y)*uint64(width)+uint64(x))
	s.StartPixel(x, y)
	return s
}

// Independent draws every value independently from a per-pixel ChaCha8 stream
type Independent struct {
	samples     int
	seed        uint64
	random      *rand.Rand
	sampleIndex int
	dimension   int
}

// NewIndependent creates an independent sampler whose stream is keyed by
// (seed, stream). Distinct keys give statistically independent streams.
func NewIndependent(samples int, seed, stream uint64) *Independent {
	return &Independent{
		samples: samples,
		seed:    seed,
		random:  rand.New(rand.NewChaCha8(streamKey(seed, stream))),
	}
}

// streamKey expands (seed, stream) into a ChaCha8 key using splitmix64
func streamKey(seed, stream uint64) [32]byte {
	var key [32]byte
	state := seed ^ (stream * 0x9E3779B97F4A7C15)
	for i := 0; i < 4; i++ {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z ^= z >> 31
		binary.LittleEndian.PutUint64(key[i*8:], z)
	}
	binary.LittleEndian.PutUint64(key[24:], binary.LittleEndian.Uint64(key[24:])^stream)
	return key
}

// StartPixel is a no-op for independent sampling
func (s *Independent) StartPixel(x, y int) {
	s.sampleIndex = 0
	s.dimension = 0
}

// Advance moves to the next sample
func (s *Independent) Advance() {
	s.sampleIndex++
	s.dimension = 0
}

// Next1D returns a uniform value in [0, 1)
func (s *Independent) Next1D() float64 {
	s.dimension++
	return s.random.Float64()
}

// Next2D returns two uniform values in [0, 1)
func (s *Independent) Next2D() core.Vec2 {
	s.dimension += 2
	return core.NewVec2(s.random.Float64(), s.random.Float64())
}

// SampleCount returns the configured samples per pixel
func (s *Independent) SampleCount() int {
	return s.samples
}

// Seed returns the base seed
func (s *Independent) Seed() uint64 {
	return s.seed
}

// SampleIndex returns the index of the current sample within the pixel
func (s *Independent) SampleIndex() int {
	return s.sampleIndex
}

// Dimension returns how many values have been drawn for the current sample
func (s *Independent) Dimension() int {
	return s.dimension
}
