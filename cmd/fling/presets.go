package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bibekchandsah/fling/internal/bytesize"
	"github.com/bibekchandsah/fling/internal/config"
)

func runPresets(args []string) int {
	fs := flag.NewFlagSet("presets", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: fling presets

List the available speed presets and their tuning values.`)
	}
	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCHUNK\tSOCKET BUFFER\tMAX CONCURRENT\tTHROTTLE\tCACHE TTL\tDESCRIPTION")
	for _, p := range config.Presets {
		concurrent := "unlimited"
		if p.MaxConcurrent > 0 {
			concurrent = fmt.Sprintf("%d", p.MaxConcurrent)
		}
		throttle := "off"
		if p.ThrottleDelay > 0 {
			throttle = p.ThrottleDelay.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Name,
			bytesize.Format(p.ChunkSize),
			bytesize.Format(p.SocketBuffer),
			concurrent,
			throttle,
			p.CacheTTL,
			p.Description,
		)
	}
	w.Flush()
	return ExitSuccess
}
