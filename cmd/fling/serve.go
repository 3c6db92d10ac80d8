package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/bibekchandsah/fling/internal/bytesize"
	"github.com/bibekchandsah/fling/internal/config"
	"github.com/bibekchandsah/fling/internal/server"
	"github.com/bibekchandsah/fling/pkg/share"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	dir := fs.String("dir", "", "Directory to share (default: current directory)")
	host := fs.String("host", "", "Bind address")
	port := fs.Int("port", 0, "Listen port")
	preset := fs.String("preset", "", "Speed preset (see 'fling presets')")
	chunkSize := fs.String("chunk-size", "", "Chunk size, e.g. 4MB (implies -preset custom)")
	socketBuffer := fs.String("socket-buffer", "", "Socket buffer size, e.g. 2MB (implies -preset custom)")
	maxConcurrent := fs.Int("max-concurrent", -1, "Max simultaneous transfers, 0 for unlimited (implies -preset custom)")
	throttle := fs.Duration("throttle", -1, "Delay between chunks, e.g. 1ms, 0 for full speed (implies -preset custom)")
	noRanges := fs.Bool("no-ranges", false, "Disable range requests (no resume support)")
	noCache := fs.Bool("no-cache", false, "Disable client cache headers")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: fling serve [options]

Share a directory over HTTP. Downloads are resumable and memory use is
bounded per transfer. Tuning values come from the selected preset; setting
any of them directly switches to the custom preset.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, code := loadConfig(*configPath)
	if code != ExitSuccess {
		return code
	}

	if *dir != "" {
		cfg.ShareDir = *dir
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *preset != "" {
		cfg.Preset = *preset
	}

	if err := cfg.ApplyPreset(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitBadConfig
	}

	// Manual tuning flags override the preset and mark the config custom.
	if *chunkSize != "" {
		size, err := bytesize.Parse(*chunkSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -chunk-size: %v\n", err)
			return ExitInvalidArgs
		}
		cfg.ChunkSize = size
		cfg.Preset = config.PresetCustom
	}
	if *socketBuffer != "" {
		size, err := bytesize.Parse(*socketBuffer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -socket-buffer: %v\n", err)
			return ExitInvalidArgs
		}
		cfg.SocketBuffer = size
		cfg.Preset = config.PresetCustom
	}
	if *maxConcurrent >= 0 {
		cfg.MaxConcurrent = *maxConcurrent
		cfg.Preset = config.PresetCustom
	}
	if *throttle >= 0 {
		cfg.ThrottleDelay = *throttle
		cfg.Preset = config.PresetCustom
	}
	if *noRanges {
		cfg.EnableRanges = false
	}
	if *noCache {
		cfg.EnableCache = false
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if cfg.ShareDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitGeneralError
		}
		cfg.ShareDir = cwd
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitBadConfig
	}

	logger := log.New()
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", cfg.LogLevel)
		return ExitBadConfig
	}
	logger.SetLevel(level)

	store, err := share.Open(cfg.ShareDir,
		share.WithChunkSize(cfg.ChunkSize),
		share.WithMaxConcurrent(cfg.MaxConcurrent),
		share.WithThrottleDelay(cfg.ThrottleDelay),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitShareError
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[fling] Received interrupt, shutting down...")
		cancel()
	}()

	printBanner(ctx, cfg, store)

	srv := server.New(cfg, store, logger)
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	return ExitSuccess
}

// loadConfig layers the config file (when given) and environment variables
// on top of defaults.
func loadConfig(path string) (config.Config, int) {
	cfg := config.Default()

	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return config.Config{}, ExitBadConfig
		}
		cfg = loaded
	}

	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return config.Config{}, ExitBadConfig
	}

	return cfg, ExitSuccess
}

func printBanner(ctx context.Context, cfg config.Config, store *share.Store) {
	count := "?"
	if entries, err := store.List(ctx); err == nil {
		count = fmt.Sprintf("%d", len(entries))
	}

	fmt.Fprintf(os.Stderr, "[fling] Sharing %s (%s files)\n", store.Root(), count)
	fmt.Fprintf(os.Stderr, "[fling] Preset %s: chunk %s, socket buffer %s\n",
		cfg.Preset, bytesize.Format(cfg.ChunkSize), bytesize.Format(cfg.SocketBuffer))
	if cfg.MaxConcurrent > 0 {
		fmt.Fprintf(os.Stderr, "[fling] Max concurrent transfers: %d\n", cfg.MaxConcurrent)
	}
	fmt.Fprintf(os.Stderr, "[fling] Resume: %s, cache: %s\n",
		onOff(cfg.EnableRanges), onOff(cfg.EnableCache))

	fmt.Fprintf(os.Stderr, "[fling] Local:   http://localhost:%d/\n", cfg.Port)
	for _, ip := range lanAddrs() {
		fmt.Fprintf(os.Stderr, "[fling] Network: http://%s:%d/\n", ip, cfg.Port)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// lanAddrs returns the machine's non-loopback IPv4 addresses.
func lanAddrs() []string {
	var out []string
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			out = append(out, ip4.String())
		}
	}
	return out
}
