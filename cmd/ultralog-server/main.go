// FILE: ultralog/cmd/ultralog-server/main.go
// ultralog-server receives log records over HTTP (POST /log) and, optionally,
// a TCP line protocol, and writes them to a rotating file.
//
// Usage:
//
//	ultralog-server [--host 0.0.0.0] [--port 8000] [--tcp-port 0]
//	                [--auth-token TOKEN] [--config ultralog.toml] [--log-file server.log]
//
// The token is read from ULOG_AUTH_TOKEN when the flag is absent and is
// generated and printed when neither is set. Logger settings come from the
// [ultralog] table of the config file, then ULOG_* environment variables.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v3"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/ultralog"
	"github.com/lixenwraith/ultralog/compat"
	"github.com/lixenwraith/ultralog/server"
)

const envPrefix = "ULOG_"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := createApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ultralog-server: %v\n", err)
		os.Exit(1)
	}
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:  "ultralog-server",
		Usage: "remote log endpoint backed by a rotating file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "listen address",
				Value: "0.0.0.0",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "HTTP port",
				Value:   8000,
			},
			&cli.IntFlag{
				Name:  "tcp-port",
				Usage: "TCP line protocol port, 0 disables it",
			},
			&cli.StringFlag{
				Name:    "auth-token",
				Usage:   "bearer token required by /log",
				Sources: cli.EnvVars(envPrefix + "AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML file with an [ultralog] table",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "destination file, overrides the config path",
				Value: "server.log",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return serve(ctx, serveOptions{
				host:       cmd.String("host"),
				port:       cmd.Int("port"),
				tcpPort:    cmd.Int("tcp-port"),
				token:      cmd.String("auth-token"),
				configPath: cmd.String("config"),
				logFile:    cmd.String("log-file"),
			})
		},
	}
}

type serveOptions struct {
	host       string
	port       int
	tcpPort    int
	token      string
	configPath string
	logFile    string
}

func serve(ctx context.Context, opts serveOptions) error {
	logger, err := newLogger(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "ultralog-server: %v\n", err)
		}
	}()

	token := opts.token
	if token == "" {
		if token, err = generateToken(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "generated auth token: %s\n", token)
	}

	handler := server.NewHandler(token, logger)
	httpServer := &fasthttp.Server{
		Name:    "ultralog-server",
		Handler: handler.HandleRequest,
		Logger:  compat.NewFastHTTPAdapter(logger),
	}
	httpAddr := net.JoinHostPort(opts.host, strconv.Itoa(opts.port))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http listening on " + httpAddr)
		return httpServer.ListenAndServe(httpAddr)
	})
	g.Go(func() error {
		<-gctx.Done()
		return httpServer.ShutdownWithContext(context.Background())
	})

	if opts.tcpPort > 0 {
		tcpAddr := net.JoinHostPort(opts.host, strconv.Itoa(opts.tcpPort))
		ingest := server.NewIngest(tcpAddr, token, logger,
			server.WithMulticore(true),
			server.WithEngineLogger(compat.NewGnetAdapter(logger, compat.WithFatalHandler(func(msg string) {
				fmt.Fprintf(os.Stderr, "ultralog-server: gnet fatal: %s\n", msg)
			}))),
		)
		g.Go(func() error {
			logger.Info("tcp listening on " + tcpAddr)
			return ingest.Run(gctx)
		})
	}

	err = g.Wait()
	if ctx.Err() != nil {
		// Stopped by signal
		return nil
	}
	return err
}

// newLogger builds the receiving logger from file, environment and flags.
// Forwarding is always disabled so the server never posts to itself.
func newLogger(opts serveOptions) (*ultralog.Logger, error) {
	cfg := ultralog.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = ultralog.NewConfigFromFile(opts.configPath); err != nil {
			return nil, err
		}
	}

	for _, warning := range cfg.ApplyEnv(envPrefix) {
		fmt.Fprintf(os.Stderr, "ultralog-server: ignoring environment value: %v\n", warning)
	}

	if opts.logFile != "" {
		cfg.Path = opts.logFile
	}
	cfg.ServerURL = ""
	cfg.AuthToken = ""

	return ultralog.New(cfg)
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate auth token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
