package libindex

import (
	"errors"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/disk"
	"github.com/sirupsen/logrus"
)

// Config configures the index store.
type Config struct {
	// Path is the directory the badger database lives in. It is created if
	// missing.
	Path string
	// MinimumFreeGB refuses to open the store when the filesystem holding
	// Path has less free space than this. Zero disables the check.
	MinimumFreeGB int
	// Logger is optional; a default logger is used when nil.
	Logger *logrus.Logger
}

func (c *Config) check() error {
	if c.Path == "" {
		return errors.New("no index path provided in configuration")
	}
	if err := os.MkdirAll(c.Path, 0o700); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	if c.MinimumFreeGB <= 0 {
		return nil
	}

	usage, err := disk.Usage(c.Path)
	if err != nil {
		return fmt.Errorf("check free space: %w", err)
	}
	freeGB := usage.Free / (1024 * 1024 * 1024)
	if freeGB < uint64(c.MinimumFreeGB) {
		return fmt.Errorf("not enough space available on disk: %d GB free, %d GB required", freeGB, c.MinimumFreeGB)
	}
	return nil
}
