// FILE: ultralog/cmd/ultralog-stress/main.go
// ultralog-stress floods a logger from many goroutines in bursts of random
// records, forcing frequent rotation, and prints the resulting counters.
//
// Usage:
//
//	ultralog-stress [--path ./logs/stress.log] [--workers 100] [--bursts 100]
//	                [--per-burst 500] [--max-size 1048576] [--backups 5]
//	                [--server-url URL --auth-token TOKEN]
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/ultralog"
)

const maxMessageSize = 2000

var levels = []int64{
	ultralog.LevelDebug,
	ultralog.LevelInfo,
	ultralog.LevelWarning,
	ultralog.LevelError,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "ultralog-stress",
		Usage: "concurrent load generator for the rotating file logger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Value: "./logs/stress.log", Usage: "destination file"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "TOML file with an [ultralog] table"},
			&cli.IntFlag{Name: "workers", Value: 100, Usage: "producer goroutines"},
			&cli.IntFlag{Name: "bursts", Value: 100, Usage: "total bursts"},
			&cli.IntFlag{Name: "per-burst", Value: 500, Usage: "records per burst"},
			&cli.IntFlag{Name: "max-size", Value: 1 << 20, Usage: "rotation threshold in bytes"},
			&cli.IntFlag{Name: "backups", Value: 5, Usage: "backups retained"},
			&cli.StringFlag{Name: "server-url", Usage: "also forward to this endpoint"},
			&cli.StringFlag{Name: "auth-token", Sources: cli.EnvVars("ULOG_AUTH_TOKEN")},
		},
		Action: run,
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ultralog-stress: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := ultralog.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = ultralog.NewConfigFromFile(path); err != nil {
			return err
		}
	}

	logger, err := ultralog.NewBuilder().
		Override(overridesFrom(cfg)...).
		Name("stress").
		Path(cmd.String("path")).
		Rotation(true, int64(cmd.Int("max-size")), int64(cmd.Int("backups"))).
		ConsoleOutput(false).
		Remote(cmd.String("server-url"), cmd.String("auth-token")).
		Build()
	if err != nil {
		return err
	}

	workers, bursts, perBurst := cmd.Int("workers"), cmd.Int("bursts"), cmd.Int("per-burst")
	fmt.Printf("stress: %d workers, %d bursts, %d records/burst into %s\n",
		workers, bursts, perBurst, cmd.String("path"))

	burstCh := make(chan int)
	var completed atomic.Int64
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(burstCh)
		for i := 1; i <= bursts; i++ {
			select {
			case burstCh <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for id := range burstCh {
				logBurst(logger, id, perBurst)
				if n := completed.Add(1); n%10 == 0 {
					fmt.Printf("\rprogress: %d/%d bursts", n, bursts)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	closeErr := logger.Close()
	stats := logger.Stats()

	fmt.Printf("\ncompleted %d/%d bursts in %v\n", completed.Load(), bursts, elapsed.Round(time.Millisecond))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Printf("approximate records/sec: %.0f\n", float64(completed.Load()*int64(perBurst))/secs)
	}
	fmt.Printf("processed=%d dropped=%d rotations=%d rotations_incomplete=%d remote_dropped=%d\n",
		stats.Processed, stats.Dropped, stats.Rotations, stats.RotationsIncomplete, stats.RemoteDropped)

	return closeErr
}

func logBurst(logger *ultralog.Logger, burstID, count int) {
	for seq := 0; seq < count; seq++ {
		logger.Logf(levels[rand.IntN(len(levels))], "bst=%d seq=%d %s",
			burstID, seq, randomMessage(rand.IntN(maxMessageSize)+10))
	}
}

func randomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.IntN(len(chars))])
	}
	return sb.String()
}

// overridesFrom carries file settings into the builder; flags applied after win
func overridesFrom(cfg *ultralog.Config) []string {
	return []string{
		fmt.Sprintf("level=%d", cfg.Level),
		fmt.Sprintf("show_timestamp=%t", cfg.ShowTimestamp),
		"timestamp_format=" + cfg.TimestampFormat,
		fmt.Sprintf("file_buffer_size=%d", cfg.FileBufferSize),
		fmt.Sprintf("force_sync=%t", cfg.ForceSync),
		fmt.Sprintf("batch_size=%d", cfg.BatchSize),
		fmt.Sprintf("flush_interval_ms=%d", cfg.FlushIntervalMs),
		fmt.Sprintf("heartbeat_interval_s=%d", cfg.HeartbeatIntervalS),
	}
}
