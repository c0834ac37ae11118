package video

import (
	"context"
	"errors"
	"math"
	"time"

	"golang.org/x/time/rate"
)

// Real is a fully loaded video. The only way to get one is Load, so holding a
// *Real means the load cost has been paid.
type Real struct {
	id     string
	sizeMB int
	opts   Options
}

var _ Video = (*Real)(nil)

// Load performs the simulated download of id and returns the ready video.
// It blocks until the load finishes, ctx is done, or opts.LoadTimeout elapses.
func Load(ctx context.Context, id string, opts Options) (*Real, error) {
	lg := opts.logger()
	start := time.Now()
	sizeMB, ok := opts.SizeOf(id)
	if !ok {
		err := ErrNotFound{ID: id}
		if opts.Observer != nil {
			opts.Observer.OnLoad(id, 0, 0, err)
		}
		return nil, err
	}

	lg.Printf("downloading video '%s' from server...", id)
	lg.Printf("size: %dMB", sizeMB)

	loadCtx := ctx
	if opts.LoadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, opts.LoadTimeout)
		defer cancel()
	}
	err := simulateTransfer(loadCtx, sizeMB, opts)
	if err != nil && opts.LoadTimeout > 0 && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = ErrLoadTimeout{ID: id, After: opts.LoadTimeout}
	}
	d := time.Since(start)
	if opts.Observer != nil {
		opts.Observer.OnLoad(id, sizeMB, d, err)
	}
	if err != nil {
		return nil, err
	}

	lg.Printf("video '%s' loaded into memory", id)
	return &Real{id: id, sizeMB: sizeMB, opts: opts}, nil
}

// simulateTransfer waits out the load. With a bandwidth set, a rate limiter hands
// out one token per MB; otherwise it is a single fixed delay.
func simulateTransfer(ctx context.Context, sizeMB int, opts Options) error {
	if opts.BandwidthMBps > 0 {
		burst := int(math.Max(1, math.Floor(opts.BandwidthMBps)))
		lim := rate.NewLimiter(rate.Limit(opts.BandwidthMBps), burst)
		// The limiter starts full; drain it so the first second is paced too.
		lim.AllowN(time.Now(), burst)
		for left := sizeMB; left > 0; left -= burst {
			n := burst
			if left < n {
				n = left
			}
			if err := lim.WaitN(ctx, n); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// WaitN refuses early when the wait would overrun the deadline.
				if _, ok := ctx.Deadline(); ok {
					return context.DeadlineExceeded
				}
				return err
			}
		}
		return nil
	}
	d := opts.delay()
	if d == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Real) Describe() string { return describe(r.id, r.sizeMB) }

// Play logs playback. It only fails when ctx is already done.
func (r *Real) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.opts.logger().Printf("playing video: %s", r.id)
	if r.opts.Observer != nil {
		r.opts.Observer.OnPlay(r.id)
	}
	return nil
}
