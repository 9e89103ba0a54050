// Package loader reads a flat binary program image into a Hart's RAM.
package loader

import (
	"os"

	"github.com/pdp-systems/rvhart/logger"
	"github.com/pdp-systems/rvhart/rverr"
)

// Target is the subset of *hart.Hart a loader needs.
type Target interface {
	LoadProgram(offset uint32, data []byte) bool
}

// LoadFile reads path and copies its bytes into h's RAM starting at
// offset. maxSize is the RAM size the caller configured the Hart with;
// an image larger than that is rejected before any copy happens.
func LoadFile(h Target, path string, offset, maxSize uint32) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rverr.New(rverr.ImageCannotOpen, path)
		}
		return rverr.New(rverr.ImageReadError, path)
	}
	return Load(h, data, offset, maxSize)
}

// Load copies data into h's RAM starting at offset.
func Load(h Target, data []byte, offset, maxSize uint32) error {
	if len(data) == 0 {
		return rverr.New(rverr.ImageEmpty)
	}
	if uint32(len(data))+offset > maxSize {
		return rverr.New(rverr.ImageTooLarge, len(data), maxSize)
	}

	if !h.LoadProgram(offset, data) {
		return rverr.New(rverr.ImageReadError, "program write outside of RAM")
	}

	logger.Logf(logger.Allow, "loader", "loaded %d bytes at offset %#08x", len(data), offset)
	return nil
}
