// Package video holds the heavyweight Real video, the lazy Proxy that stands in
// for it, and the Video capability set both implement.
package video

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"
)

const (
	DefaultSizeMB    = 500
	DefaultLoadDelay = 3 * time.Second
)

// Video is the capability set shared by Real and Proxy. Callers should depend on
// this interface, never on the concrete type.
type Video interface {
	// Play starts playback. For a Proxy the first call loads the backing Real.
	Play(ctx context.Context) error
	// Describe returns identifier and size. It never triggers a load.
	Describe() string
}

// Library answers size metadata for an identifier without loading anything.
type Library interface {
	Lookup(id string) (sizeMB int, ok bool)
}

// Observer receives lifecycle events. Implementations must be safe for concurrent use.
type Observer interface {
	OnHandleCreated(id string)
	OnHandleLoaded(id string)
	OnLoad(id string, sizeMB int, d time.Duration, err error)
	OnPlay(id string)
}

// Options controls the simulated load. The zero value loads 500MB in 3s and logs
// to the standard logger.
type Options struct {
	// SizeMB is used when Library is nil. 0 = DefaultSizeMB.
	SizeMB int
	// Library resolves sizes; ids it does not know fail with ErrNotFound.
	Library Library
	// LoadDelay is the fixed simulated load time. 0 = DefaultLoadDelay, <0 = no delay.
	LoadDelay time.Duration
	// BandwidthMBps paces the load at this many MB per second instead of LoadDelay.
	BandwidthMBps float64
	// LoadTimeout bounds a single load. 0 = no bound beyond ctx.
	LoadTimeout time.Duration
	Log         *log.Logger
	Observer    Observer
}

func (o Options) logger() *log.Logger {
	if o.Log == nil {
		return log.Default()
	}
	return o.Log
}

func (o Options) delay() time.Duration {
	switch {
	case o.LoadDelay < 0:
		return 0
	case o.LoadDelay == 0:
		return DefaultLoadDelay
	}
	return o.LoadDelay
}

// SizeOf resolves the size for id without loading. ok is false only when a
// Library is set and does not know id.
func (o Options) SizeOf(id string) (int, bool) {
	if o.Library != nil {
		return o.Library.Lookup(id)
	}
	if o.SizeMB > 0 {
		return o.SizeMB, true
	}
	return DefaultSizeMB, true
}

// Discard returns a logger that drops everything; useful for tests and benchmarks.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// ErrNotFound indicates the library has no video with this identifier.
type ErrNotFound struct{ ID string }

func (e ErrNotFound) Error() string { return "video not found: " + e.ID }

// ErrLoadTimeout indicates the simulated load exceeded Options.LoadTimeout.
type ErrLoadTimeout struct {
	ID    string
	After time.Duration
}

func (e ErrLoadTimeout) Error() string {
	return fmt.Sprintf("video %s: load timed out after %s", e.ID, e.After)
}

func describe(id string, sizeMB int) string {
	return fmt.Sprintf("%s (%dMB)", id, sizeMB)
}
