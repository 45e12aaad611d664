package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/octra-labs/wallet-simulator-go/cmd/wallet-simulator-server/server"
	"github.com/octra-labs/wallet-simulator-go/internal/fhe"
	"github.com/octra-labs/wallet-simulator-go/internal/logging"
	"github.com/octra-labs/wallet-simulator-go/internal/metrics"
	"github.com/octra-labs/wallet-simulator-go/internal/simulator"
	"github.com/octra-labs/wallet-simulator-go/pkg/hub"
	"github.com/octra-labs/wallet-simulator-go/pkg/session"
	"github.com/octra-labs/wallet-simulator-go/pkg/signer"
)

func main() {
	app := &cli.App{
		Name:  "wallet-simulator-server",
		Usage: "Simulated hardware wallet exposed over JSON-RPC and WebSocket",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Usage:   "host:port to listen on",
				Value:   "127.0.0.1:8000",
				EnvVars: []string{"SIMULATOR_ADDRESS"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "minimum log level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"SIMULATOR_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "log to this file in JSON format instead of the console",
				EnvVars: []string{"SIMULATOR_LOG_FILE"},
			},
			&cli.StringFlag{
				Name:    "signer",
				Usage:   "signature backend (mock, ecdsa)",
				Value:   "mock",
				EnvVars: []string{"SIMULATOR_SIGNER"},
			},
			&cli.Float64Flag{
				Name:    "delay-scale",
				Usage:   "multiplier for simulated hardware delays, 0 disables them",
				Value:   1.0,
				EnvVars: []string{"SIMULATOR_DELAY_SCALE"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	rootLogger, err := logging.BuildLogger(c.String("log-level"), c.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to initialize log: %w", err)
	}
	zap.ReplaceGlobals(rootLogger)
	logger := rootLogger.Named("main")

	txSigner, err := buildSigner(c.String("signer"))
	if err != nil {
		return err
	}

	broadcastHub := hub.New(rootLogger)
	m := metrics.New(nil, broadcastHub.Count)

	sim := simulator.New(
		simulator.WithLogger(rootLogger),
		simulator.WithSigner(txSigner),
		simulator.WithTimings(simulator.DefaultTimings().Scaled(c.Float64("delay-scale"))),
	)
	fheService := fhe.NewService(
		fhe.WithServiceLogger(rootLogger),
		fhe.WithLatencyScale(c.Float64("delay-scale")),
	)

	rpcServer, err := session.CreateRPCServer(
		session.NewWalletService(sim, broadcastHub, m, rootLogger),
		session.NewFHEService(fheService, broadcastHub, m, rootLogger),
	)
	if err != nil {
		return fmt.Errorf("failed to create RPC server: %w", err)
	}

	srv := server.NewServer(rootLogger, broadcastHub, rpcServer)
	if err := srv.Listen(c.String("address")); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	logger.Info("wallet-simulator-server started",
		zap.String("address", srv.Address()),
		zap.String("signer", txSigner.Name()))

	go handleInterrupts(srv, logger)
	srv.Serve()
	return nil
}

func buildSigner(name string) (signer.Signer, error) {
	switch name {
	case "mock":
		return signer.NewMock(), nil
	case "ecdsa":
		return signer.NewECDSA()
	default:
		return nil, fmt.Errorf("unknown signer: %q", name)
	}
}

// handleInterrupts catches SIGINT/SIGTERM and gracefully stops the server.
func handleInterrupts(srv *server.Server, logger *zap.Logger) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	<-ch
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Stop(ctx)
}
