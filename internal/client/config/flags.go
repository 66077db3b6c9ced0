package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/herocards/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   address:port of the remote card store
//	-d string   path of the local cache database
//	-i int      online check interval (seconds)
//	-l string   log level
//
// Only these flags are looked at; everything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, "-a", "-d", "-i", "-l")

	fs := flag.NewFlagSet("herocards", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.RemoteAddr, "a", cfg.RemoteAddr, "address and port of the remote card store")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local cache database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		}
	})
	return nil
}
