package benchlog

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Stats counts what a Driver has processed.
type Stats struct {
	Files       int
	Blocks      int
	Ignored     int
	Overwritten int
}

// Driver feeds benchmark logs through the block parser into a Registry it
// owns. Files are processed one at a time; the first error aborts.
type Driver struct {
	logger   *zap.Logger
	registry *Registry
	stats    Stats
}

func NewDriver(logger *zap.Logger, registry *Registry) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	return &Driver{
		logger:   logger,
		registry: registry,
	}
}

// ProcessFiles processes paths in order.
func (d *Driver) ProcessFiles(paths []string) error {
	for _, path := range paths {
		if err := d.ProcessFile(path); err != nil {
			return err
		}
	}
	return nil
}

// ProcessFile opens path and records every block it contains.
func (d *Driver) ProcessFile(path string) error {
	r, err := Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := d.Process(r, path); err != nil {
		return err
	}
	d.stats.Files++
	return nil
}

// Process records every block read from r. name is used in errors and logs.
func (d *Driver) Process(r io.Reader, name string) error {
	d.logger.Debug("Processing file", zap.String("file", name))

	parser := NewBlockParser(r, name, d.logger)
	blocks := 0
	defer func() {
		d.stats.Ignored += parser.Ignored()
	}()
	for {
		exp, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to parse block %d of %s: %w", blocks+1, name, err)
		}
		blocks++
		if d.registry.Add(exp) {
			d.stats.Overwritten++
			d.logger.Debug("Experiment overwritten", zap.String("file", name), zap.Stringer("params", exp.Tuple()))
		}
	}
	d.stats.Blocks += blocks

	d.logger.Debug("Processed file", zap.String("file", name), zap.Int("blocks", blocks))
	return nil
}

func (d *Driver) Registry() *Registry {
	return d.registry
}

func (d *Driver) Stats() Stats {
	return d.stats
}
