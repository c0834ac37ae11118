// Command vodproxy contrasts eager and lazy (proxied) loading of heavyweight videos.
//
//	eager  Load every video up front, then play the selected ones
//	lazy   Create lightweight proxies, list them, load only what is played
//	list   Describe every catalog video through a proxy (never loads)
//	mount  Mount the catalog as files via FUSE; a file is loaded when opened
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/snapetech/vodproxy/internal/catalog"
	"github.com/snapetech/vodproxy/internal/config"
	"github.com/snapetech/vodproxy/internal/demo"
	"github.com/snapetech/vodproxy/internal/metrics"
	"github.com/snapetech/vodproxy/internal/video"
	"github.com/snapetech/vodproxy/internal/vodfs"
)

// openCatalog loads path, or the built-in course sized sizeMB when path is empty.
func openCatalog(path string, sizeMB int) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Course(sizeMB), nil
	}
	return catalog.Open(path)
}

// loadOptions maps config onto video options. Status lines go to out with no
// timestamp so scenario output is stable.
func loadOptions(cfg *config.Config, lib *catalog.Catalog, out io.Writer, obs video.Observer) video.Options {
	delay := cfg.LoadDelay
	if delay == 0 {
		delay = -1
	}
	return video.Options{
		SizeMB:        cfg.SizeMB,
		Library:       lib,
		LoadDelay:     delay,
		BandwidthMBps: cfg.BandwidthMBps,
		LoadTimeout:   cfg.LoadTimeout,
		Log:           log.New(out, "", 0),
		Observer:      obs,
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// serveMetrics starts the metrics listener when addr is set and returns the
// observer to hand to video options (nil when metrics are off). Only mount runs
// long enough to be scraped.
func serveMetrics(addr string) video.Observer {
	if addr == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	go func() {
		log.Printf("Metrics on %s/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Metrics server: %v", err)
		}
	}()
	return c
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg := config.Load()

	scenarioCmd := func(name string) (*flag.FlagSet, *string, *string) {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		cat := fs.String("catalog", "", "Catalog JSON or SQLite path (default: VODPROXY_CATALOG, else the built-in course)")
		play := fs.String("play", "", "Comma-separated ids to play (default: the first catalog id)")
		return fs, cat, play
	}
	eagerCmd, eagerCatalog, eagerPlay := scenarioCmd("eager")
	lazyCmd, lazyCatalog, lazyPlay := scenarioCmd("lazy")

	listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
	listCatalog := listCmd.String("catalog", "", "Catalog JSON or SQLite path (default: VODPROXY_CATALOG)")

	mountCmd := flag.NewFlagSet("mount", flag.ContinueOnError)
	mountCatalog := mountCmd.String("catalog", "", "Catalog JSON or SQLite path (default: VODPROXY_CATALOG)")
	mountPoint := mountCmd.String("mount", "", "Mount point (default: VODPROXY_MOUNT)")

	if len(args) < 1 {
		return errUsage
	}
	pick := func(flagVal string) string {
		if flagVal != "" {
			return flagVal
		}
		return cfg.CatalogPath
	}

	switch args[0] {
	case "eager", "lazy":
		fs, catPath, play := eagerCmd, eagerCatalog, eagerPlay
		runner := demo.RunEager
		if args[0] == "lazy" {
			fs, catPath, play = lazyCmd, lazyCatalog, lazyPlay
			runner = demo.RunLazy
		}
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		lib, err := openCatalog(pick(*catPath), cfg.SizeMB)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		s := demo.Scenario{
			IDs:  lib.IDs(),
			Play: splitList(*play),
			Opts: loadOptions(cfg, lib, stdout, nil),
		}
		_, err = runner(ctx, s)
		return err

	case "list":
		if err := listCmd.Parse(args[1:]); err != nil {
			return err
		}
		lib, err := openCatalog(pick(*listCatalog), cfg.SizeMB)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		opts := loadOptions(cfg, lib, stdout, nil)
		for _, id := range lib.IDs() {
			var v video.Video = video.NewProxy(id, opts)
			fmt.Fprintln(stdout, v.Describe())
		}
		return nil

	case "mount":
		if err := mountCmd.Parse(args[1:]); err != nil {
			return err
		}
		lib, err := openCatalog(pick(*mountCatalog), cfg.SizeMB)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		mp := *mountPoint
		if mp == "" {
			mp = cfg.MountPoint
		}
		entries := lib.Snapshot()
		server, err := vodfs.Mount(mp, entries, loadOptions(cfg, lib, os.Stderr, serveMetrics(cfg.MetricsAddr)))
		if err != nil {
			return fmt.Errorf("mount %s: %w", mp, err)
		}
		log.Printf("Mounted %d videos at %s", len(entries), mp)
		go func() {
			<-ctx.Done()
			if err := server.Unmount(); err != nil {
				log.Printf("Unmount: %v", err)
			}
		}()
		server.Wait()
		return nil
	}
	return errUsage
}

var errUsage = errors.New("usage: vodproxy <eager|lazy|list|mount> [flags]")

func main() {
	_ = config.LoadEnvFile(".env")
	log.SetFlags(log.LstdFlags)
	log.SetPrefix("[vodproxy] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintf(os.Stderr, "  eager  Load every video up front, then play\n")
			fmt.Fprintf(os.Stderr, "  lazy   Proxy every video, load only what is played\n")
			fmt.Fprintf(os.Stderr, "  list   Describe catalog videos without loading them\n")
			fmt.Fprintf(os.Stderr, "  mount  Mount the catalog via FUSE (load on open)\n")
		} else {
			log.Printf("%v", err)
		}
		stop()
		os.Exit(1)
	}
}
