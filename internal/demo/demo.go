// Package demo runs the eager and lazy loading scenarios side by side.
package demo

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/snapetech/vodproxy/internal/video"
)

// Scenario is a list of videos a user might watch and the subset they actually play.
type Scenario struct {
	IDs  []string
	Play []string // nil = only the first id
	Opts video.Options
}

// Report summarises a run. WastedMB counts videos loaded but never played;
// SavedMB counts videos that were never loaded at all.
type Report struct {
	Loaded   []string
	Played   []string
	Startup  time.Duration
	LoadedMB int
	WastedMB int
	SavedMB  int
}

func (s Scenario) plays() ([]string, error) {
	seen := make(map[string]bool, len(s.IDs))
	for _, id := range s.IDs {
		if seen[id] {
			return nil, fmt.Errorf("duplicate id %q in scenario", id)
		}
		seen[id] = true
	}
	if s.Play == nil {
		if len(s.IDs) == 0 {
			return nil, nil
		}
		return s.IDs[:1], nil
	}
	for _, id := range s.Play {
		if !seen[id] {
			return nil, fmt.Errorf("play %q: not in scenario", id)
		}
	}
	return s.Play, nil
}

func (s Scenario) logger() *log.Logger {
	if s.Opts.Log == nil {
		return log.Default()
	}
	return s.Opts.Log
}

// RunEager loads every video up front, then plays the selected ones.
func RunEager(ctx context.Context, s Scenario) (Report, error) {
	toPlay, err := s.plays()
	if err != nil {
		return Report{}, err
	}
	lg := s.logger()
	t := &tally{next: s.Opts.Observer}
	opts := s.Opts
	opts.Observer = t

	lg.Printf("=== WITHOUT PROXY ===")
	lg.Printf("")
	start := time.Now()
	vids := make(map[string]video.Video, len(s.IDs))
	for i, id := range s.IDs {
		if i > 0 {
			lg.Printf("")
		}
		r, err := video.Load(ctx, id, opts)
		if err != nil {
			return t.report(s, time.Since(start)), fmt.Errorf("load %s: %w", id, err)
		}
		vids[id] = r
	}
	startup := time.Since(start)
	lg.Printf("")
	printFootprint(lg, startup, t.loadedMB())

	if err := playAll(ctx, lg, vids, toPlay); err != nil {
		return t.report(s, startup), err
	}

	rep := t.report(s, startup)
	lg.Printf("")
	if unplayed := t.unplayed(); len(unplayed) > 0 {
		lg.Printf("problem: %s downloaded for nothing", strings.Join(unplayed, ", "))
		lg.Printf("wasted: %s of bandwidth + %s of memory", mb(rep.WastedMB), mb(rep.WastedMB))
	} else {
		lg.Printf("every loaded video was played")
	}
	return rep, nil
}

// RunLazy creates proxies for every video, lists them, then plays the selected ones.
func RunLazy(ctx context.Context, s Scenario) (Report, error) {
	toPlay, err := s.plays()
	if err != nil {
		return Report{}, err
	}
	lg := s.logger()
	t := &tally{next: s.Opts.Observer}
	opts := s.Opts
	opts.Observer = t

	lg.Printf("=== WITH PROXY ===")
	lg.Printf("")
	start := time.Now()
	vids := make(map[string]video.Video, len(s.IDs))
	ordered := make([]video.Video, 0, len(s.IDs))
	for _, id := range s.IDs {
		p := video.NewProxy(id, opts)
		vids[id] = p
		ordered = append(ordered, p)
	}
	startup := time.Since(start)
	printFootprint(lg, startup, t.loadedMB())

	lg.Printf("")
	lg.Printf("--- available videos ---")
	for _, v := range ordered {
		lg.Printf("%s", v.Describe())
	}

	if err := playAll(ctx, lg, vids, toPlay); err != nil {
		return t.report(s, startup), err
	}

	rep := t.report(s, startup)
	lg.Printf("")
	if skipped := t.notLoaded(s.IDs); len(skipped) > 0 {
		lg.Printf("advantage: %s never downloaded", strings.Join(skipped, ", "))
		lg.Printf("saved: %s of bandwidth + %s of memory", mb(rep.SavedMB), mb(rep.SavedMB))
	} else {
		lg.Printf("every video was played, so every video was loaded")
	}
	return rep, nil
}

func printFootprint(lg *log.Logger, startup time.Duration, loadedMB int) {
	lg.Printf("startup time: %s", startup.Round(100*time.Millisecond))
	lg.Printf("memory used: ~%s", mb(loadedMB))
	lg.Printf("bandwidth used: %s", mb(loadedMB))
}

func playAll(ctx context.Context, lg *log.Logger, vids map[string]video.Video, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	lg.Printf("")
	lg.Printf("--- user plays only %s ---", strings.Join(ids, ", "))
	for _, id := range ids {
		if err := vids[id].Play(ctx); err != nil {
			return fmt.Errorf("play %s: %w", id, err)
		}
	}
	return nil
}

func mb(n int) string {
	return humanize.Bytes(uint64(n) * 1000 * 1000)
}

// tally records what a run loaded and played, then forwards to next.
type tally struct {
	next video.Observer

	mu     sync.Mutex
	loads  []load
	played map[string]bool
	order  []string
}

type load struct {
	id     string
	sizeMB int
}

func (t *tally) OnHandleCreated(id string) {
	if t.next != nil {
		t.next.OnHandleCreated(id)
	}
}

func (t *tally) OnHandleLoaded(id string) {
	if t.next != nil {
		t.next.OnHandleLoaded(id)
	}
}

func (t *tally) OnLoad(id string, sizeMB int, d time.Duration, err error) {
	if err == nil {
		t.mu.Lock()
		t.loads = append(t.loads, load{id: id, sizeMB: sizeMB})
		t.mu.Unlock()
	}
	if t.next != nil {
		t.next.OnLoad(id, sizeMB, d, err)
	}
}

func (t *tally) OnPlay(id string) {
	t.mu.Lock()
	if t.played == nil {
		t.played = make(map[string]bool)
	}
	if !t.played[id] {
		t.played[id] = true
		t.order = append(t.order, id)
	}
	t.mu.Unlock()
	if t.next != nil {
		t.next.OnPlay(id)
	}
}

func (t *tally) loadedMB() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, l := range t.loads {
		n += l.sizeMB
	}
	return n
}

func (t *tally) unplayed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for _, l := range t.loads {
		if !t.played[l.id] {
			out = append(out, l.id)
		}
	}
	return out
}

func (t *tally) notLoaded(ids []string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	loaded := make(map[string]bool, len(t.loads))
	for _, l := range t.loads {
		loaded[l.id] = true
	}
	var out []string
	for _, id := range ids {
		if !loaded[id] {
			out = append(out, id)
		}
	}
	return out
}

func (t *tally) report(s Scenario, startup time.Duration) Report {
	rep := Report{Startup: startup}
	for _, id := range t.notLoaded(s.IDs) {
		if n, ok := s.Opts.SizeOf(id); ok {
			rep.SavedMB += n
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	rep.Played = append(rep.Played, t.order...)
	for _, l := range t.loads {
		rep.Loaded = append(rep.Loaded, l.id)
		rep.LoadedMB += l.sizeMB
		if !t.played[l.id] {
			rep.WastedMB += l.sizeMB
		}
	}
	return rep
}
