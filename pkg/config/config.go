// Package config loads the runtime settings of faststr from YAML: the
// logger and the allocator backing heap suffixes.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/faststr/pkg/faststr"
	"github.com/zeusync/faststr/pkg/log"
	"github.com/zeusync/faststr/pkg/memory"
)

const (
	AllocatorHeap    = "heap"
	AllocatorPool    = "pool"
	AllocatorTracked = "tracked"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Log    Log    `json:"log" yaml:"log"`
	Memory Memory `json:"memory" yaml:"memory"`
}

type Log struct {
	Level    string `json:"level" yaml:"level"`
	Encoding string `json:"encoding" yaml:"encoding"`
}

type Memory struct {
	// Allocator is one of heap, pool or tracked.
	Allocator string `json:"allocator" yaml:"allocator"`
	// Budget caps live suffix bytes for the tracked allocator. Zero means
	// unlimited.
	Budget int64 `json:"budget" yaml:"budget"`
	// Pooled makes the tracked allocator recycle buffers.
	Pooled bool `json:"pooled" yaml:"pooled"`
}

func Default() *Config {
	return &Config{
		Log:    Log{Level: "info", Encoding: "json"},
		Memory: Memory{Allocator: AllocatorHeap},
	}
}

// LoadYAML decodes a config from r on top of Default.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}

func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: unknown log encoding %q", ErrInvalidConfig, c.Log.Encoding)
	}
	switch c.Memory.Allocator {
	case "", AllocatorHeap, AllocatorPool, AllocatorTracked:
	default:
		return fmt.Errorf("%w: unknown allocator %q", ErrInvalidConfig, c.Memory.Allocator)
	}
	if c.Memory.Budget < 0 {
		return fmt.Errorf("%w: negative memory budget %d", ErrInvalidConfig, c.Memory.Budget)
	}
	if c.Memory.Budget > 0 && c.Memory.Allocator != AllocatorTracked {
		return fmt.Errorf("%w: memory budget requires the %s allocator", ErrInvalidConfig, AllocatorTracked)
	}
	return nil
}

// Logger builds the configured logger.
func (c *Config) Logger() *log.Logger {
	level, _ := log.ParseLevel(c.Log.Level)
	return log.NewWithOptions(level, log.Options{Encoding: c.Log.Encoding})
}

// Allocator builds the configured allocator. logger is used by the tracked
// allocator and may be nil.
func (c *Config) Allocator(logger log.Log) memory.Allocator {
	switch c.Memory.Allocator {
	case AllocatorPool:
		return memory.NewPool()
	case AllocatorTracked:
		var inner memory.Allocator = memory.Heap{}
		if c.Memory.Pooled {
			inner = memory.NewPool()
		}
		return memory.NewTracked(inner, c.Memory.Budget, logger)
	default:
		return memory.Heap{}
	}
}

// Apply validates c, installs the configured allocator for faststr and
// returns it with a func restoring the previous allocator.
func (c *Config) Apply(logger log.Log) (memory.Allocator, func(), error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = log.Nop()
	}
	a := c.Allocator(logger)
	restore := faststr.SetAllocator(a)
	logger.Info("faststr allocator installed",
		log.String("allocator", c.Memory.Allocator),
		log.Int64("budget", c.Memory.Budget),
		log.Int("prefix_len", faststr.PrefixLen),
	)
	return a, restore, nil
}
