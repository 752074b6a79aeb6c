package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/txrelay/internal/metrics"
	rpcclient2 "github.com/goodnatureofminers/txrelay/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/internal/relay/chain"
	"github.com/goodnatureofminers/txrelay/internal/relay/chain/bitcoin"
	"github.com/goodnatureofminers/txrelay/internal/relay/chain/kafka"
	"github.com/goodnatureofminers/txrelay/internal/relay/journal"
	"github.com/goodnatureofminers/txrelay/internal/relay/journal/clickhouse"
	"github.com/goodnatureofminers/txrelay/internal/relay/peer"
	"github.com/goodnatureofminers/txrelay/internal/relay/reconciler"
	"github.com/goodnatureofminers/txrelay/internal/relay/retry"
	"github.com/goodnatureofminers/txrelay/internal/relay/store/pebbledb"
	"github.com/goodnatureofminers/txrelay/internal/transport"
	"github.com/goodnatureofminers/txrelay/pkg/safe"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	chainSourceRPC   = "rpc"
	chainSourceKafka = "kafka"
)

type config struct {
	Coin     model.Coin    `long:"coin" env:"TXRELAY_COIN" description:"coin name" default:"BTC"`
	Network  model.Network `long:"network" env:"TXRELAY_NETWORK" description:"network name" default:"mainnet"`
	StoreDir string        `long:"store-dir" env:"TXRELAY_STORE_DIR" description:"directory of the transaction store" default:"./data"`

	Peers         []string      `long:"peer" env:"TXRELAY_PEERS" env-delim:"," description:"peer node RPC URL, repeatable" required:"true"`
	RPCUser       string        `long:"rpc-user" env:"TXRELAY_RPC_USER" description:"node RPC username"`
	RPCPassword   string        `long:"rpc-password" env:"TXRELAY_RPC_PASSWORD" description:"node RPC password"`
	AllowHighFees bool          `long:"allow-high-fees" env:"TXRELAY_ALLOW_HIGH_FEES" description:"let peers accept transactions with absurd fees"`

	ChainSource       string        `long:"chain-source" env:"TXRELAY_CHAIN_SOURCE" description:"chain-sync source" choice:"rpc" choice:"kafka" default:"rpc"`
	ChainRPCURL       string        `long:"chain-rpc-url" env:"TXRELAY_CHAIN_RPC_URL" description:"node RPC URL polled for blocks" default:"http://127.0.0.1:8332"`
	ChainPollInterval time.Duration `long:"chain-poll-interval" env:"TXRELAY_CHAIN_POLL_INTERVAL" description:"block polling interval" default:"10s"`
	ChainWindow       int           `long:"chain-window" env:"TXRELAY_CHAIN_WINDOW" description:"recent block hashes kept for reorganization detection" default:"100"`
	KafkaBrokers      []string      `long:"kafka-broker" env:"TXRELAY_KAFKA_BROKERS" env-delim:"," description:"kafka seed broker, repeatable"`
	KafkaTopic        string        `long:"kafka-topic" env:"TXRELAY_KAFKA_TOPIC" description:"block event topic" default:"txrelay.blocks"`
	KafkaGroup        string        `long:"kafka-group" env:"TXRELAY_KAFKA_GROUP" description:"kafka consumer group" default:"txrelay"`

	RetrySlotDiff uint64        `long:"retry-slot-diff" env:"TXRELAY_RETRY_SLOT_DIFF" description:"slots without confirmation before a transaction is requeued" default:"3"`
	MaxAttempts   int           `long:"max-attempts" env:"TXRELAY_MAX_ATTEMPTS" description:"requeues before a transaction fails" default:"5"`
	RetryInterval time.Duration `long:"retry-interval" env:"TXRELAY_RETRY_INTERVAL" description:"retry scan interval" default:"30s"`
	Retention     uint64        `long:"retention" env:"TXRELAY_RETENTION" description:"slots finalized records are kept" default:"1008"`
	PruneEvery    int           `long:"prune-every" env:"TXRELAY_PRUNE_EVERY" description:"prune on every n-th retry scan, zero disables" default:"20"`
	MaxPending    int           `long:"max-pending" env:"TXRELAY_MAX_PENDING" description:"pending backlog limit, zero disables" default:"10000"`

	AttemptTimeout   time.Duration `long:"attempt-timeout" env:"TXRELAY_ATTEMPT_TIMEOUT" description:"timeout of one send to one peer" default:"10s"`
	FailureThreshold int           `long:"failure-threshold" env:"TXRELAY_FAILURE_THRESHOLD" description:"consecutive failures before a peer is unreachable" default:"3"`
	ProbeInterval    time.Duration `long:"probe-interval" env:"TXRELAY_PROBE_INTERVAL" description:"reconnect probe interval" default:"30s"`
	ProbeTimeout     time.Duration `long:"probe-timeout" env:"TXRELAY_PROBE_TIMEOUT" description:"reconnect probe timeout" default:"5s"`

	ReconcileInterval time.Duration `long:"reconcile-interval" env:"TXRELAY_RECONCILE_INTERVAL" description:"pending scan interval" default:"5s"`
	ReconcileWorkers  int           `long:"reconcile-workers" env:"TXRELAY_RECONCILE_WORKERS" description:"concurrent propagations" default:"16"`
	ReconcileBatch    int           `long:"reconcile-batch" env:"TXRELAY_RECONCILE_BATCH" description:"pending records per scan" default:"256"`
	ShutdownGrace     time.Duration `long:"shutdown-grace" env:"TXRELAY_SHUTDOWN_GRACE" description:"time in-flight propagations get on shutdown" default:"10s"`

	HTTPAddr      string `long:"http-addr" env:"TXRELAY_HTTP_ADDR" description:"intake HTTP address" default:":8080"`
	GRPCAddr      string `long:"grpc-addr" env:"TXRELAY_GRPC_ADDR" description:"gRPC health address" default:":9090"`
	MetricsAddr   string `long:"metrics-addr" env:"TXRELAY_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"TXRELAY_CLICKHOUSE_DSN" description:"ClickHouse DSN of the transition journal, empty disables it"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("txrelay failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	maxAttempts, err := safe.Uint32(cfg.MaxAttempts)
	if err != nil {
		return fmt.Errorf("max attempts: %w", err)
	}

	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	var listener pebbledb.Listener
	if cfg.ClickhouseDSN != "" {
		repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init journal repository: %w", err)
		}
		defer func() {
			_ = repo.Close()
		}()
		j, err := journal.New(repo, journal.Config{Coin: cfg.Coin, Network: cfg.Network}, logger)
		if err != nil {
			return fmt.Errorf("init journal: %w", err)
		}
		j.Start(context.WithoutCancel(ctx))
		defer j.Stop()
		listener = j
	}

	st, err := pebbledb.NewStore(cfg.StoreDir, listener, metrics.NewStore(cfg.Coin, cfg.Network))
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
	}()

	propagatorMetrics := metrics.NewPropagator(cfg.Coin, cfg.Network)
	endpoints := make([]peer.Endpoint, 0, len(cfg.Peers))
	for _, rawURL := range cfg.Peers {
		client, host, err := newRPCClient(rawURL, cfg.RPCUser, cfg.RPCPassword)
		if err != nil {
			return fmt.Errorf("init peer %s: %w", rawURL, err)
		}
		observed := rpcclient2.NewObservedClient(client, metrics.NewRPCClient(cfg.Coin, cfg.Network, host))
		defer observed.Shutdown()
		endpoints = append(endpoints, peer.Endpoint{
			Address: host,
			Client:  peer.NewRPCClient(observed, cfg.AllowHighFees),
		})
	}
	registry, err := peer.NewRegistry(endpoints, peer.RegistryConfig{
		FailureThreshold: cfg.FailureThreshold,
		ProbeInterval:    cfg.ProbeInterval,
		ProbeTimeout:     cfg.ProbeTimeout,
	}, propagatorMetrics, logger.Named("peers"))
	if err != nil {
		return fmt.Errorf("init peer registry: %w", err)
	}
	propagator, err := peer.NewPropagator(registry, cfg.AttemptTimeout, propagatorMetrics, logger.Named("propagator"))
	if err != nil {
		return fmt.Errorf("init propagator: %w", err)
	}
	defer propagator.Wait()

	tips := chain.NewTipTracker()
	source, err := newChainSource(cfg, tips, logger)
	if err != nil {
		return fmt.Errorf("init chain source: %w", err)
	}

	rec, err := reconciler.New(st, propagator, tips, reconciler.Config{
		PollInterval:  cfg.ReconcileInterval,
		Workers:       cfg.ReconcileWorkers,
		BatchSize:     cfg.ReconcileBatch,
		MaxPending:    cfg.MaxPending,
		MaxAttempts:   maxAttempts,
		ShutdownGrace: cfg.ShutdownGrace,
	}, metrics.NewReconciler(cfg.Coin, cfg.Network), logger.Named("reconciler"))
	if err != nil {
		return fmt.Errorf("init reconciler: %w", err)
	}

	monitor, err := chain.NewMonitor(st, source, tips, rec, metrics.NewMonitor(cfg.Coin, cfg.Network), logger.Named("monitor"))
	if err != nil {
		_ = source.Close()
		return fmt.Errorf("init monitor: %w", err)
	}

	scheduler, err := retry.NewScheduler(st, tips, rec, retry.Config{
		Interval:      cfg.RetryInterval,
		RetrySlotDiff: cfg.RetrySlotDiff,
		MaxAttempts:   maxAttempts,
		PruneEvery:    cfg.PruneEvery,
		Retention:     cfg.Retention,
	}, metrics.NewScheduler(cfg.Coin, cfg.Network), logger.Named("retry"))
	if err != nil {
		return fmt.Errorf("init retry scheduler: %w", err)
	}

	// the watermark and the recovery scan must be in place before intake opens
	if err := monitor.Restore(ctx); err != nil {
		return err
	}
	if err := rec.Recover(ctx); err != nil {
		return err
	}

	health := transport.NewHealth(logger)
	grpcServer := transport.NewGRPCServer(health, logger)

	// intake storage failures stop the process like any component fault
	intakeFaults := make(chan error, 1)
	reportIntake := transport.FaultFunc(func(component string, err error) {
		select {
		case intakeFaults <- fmt.Errorf("%s: %w", component, err):
		default:
		}
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           transport.NewHTTPHandler(rec, st, registry, reportIntake, logger),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	component := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			err := fn(gctx)
			if err == nil || (gctx.Err() != nil && errors.Is(err, context.Canceled)) {
				return nil
			}
			health.Fault(name, err)
			return fmt.Errorf("%s: %w", name, err)
		})
	}

	component("monitor", monitor.Run)
	component("retry", scheduler.Run)
	component("reconciler", rec.Run)
	component("probe", registry.RunProbe)
	component("intake", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-intakeFaults:
			return err
		}
	})

	socket, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	g.Go(func() error {
		logger.Info("starting gRPC server", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(socket); err != nil {
			return fmt.Errorf("serve grpc: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown http server", zap.Error(err))
		}
		health.Shutdown()
		grpcServer.GracefulStop()
		return nil
	})

	health.Serving()
	return g.Wait()
}

func newChainSource(cfg config, tips *chain.TipTracker, logger *zap.Logger) (chain.Subscription, error) {
	switch cfg.ChainSource {
	case chainSourceKafka:
		kcl, err := kafka.NewClient(kafka.Config{
			Brokers:          cfg.KafkaBrokers,
			Topic:            cfg.KafkaTopic,
			ConsumerGroup:    cfg.KafkaGroup,
			MetricsNamespace: "txrelay",
		})
		if err != nil {
			return nil, err
		}
		return kafka.NewSource(kcl, logger.Named("kafka_source")), nil
	case chainSourceRPC:
		client, host, err := newRPCClient(cfg.ChainRPCURL, cfg.RPCUser, cfg.RPCPassword)
		if err != nil {
			return nil, err
		}
		observed := rpcclient2.NewObservedClient(client, metrics.NewRPCClient(cfg.Coin, cfg.Network, host))
		src, err := bitcoin.NewPollSource(observed, tips, cfg.ChainPollInterval, cfg.ChainWindow, logger.Named("poll_source"))
		if err != nil {
			observed.Shutdown()
			return nil, err
		}
		return &shutdownSource{PollSource: src, shutdown: observed.Shutdown}, nil
	default:
		return nil, fmt.Errorf("unknown chain source %q", cfg.ChainSource)
	}
}

// shutdownSource stops the node client once the monitor closes the source.
type shutdownSource struct {
	*bitcoin.PollSource
	shutdown func()
}

func (s *shutdownSource) Close() error {
	err := s.PollSource.Close()
	s.shutdown()
	return err
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}

// newRPCClient returns an HTTP POST mode client and the host it talks to.
func newRPCClient(rawURL, user, password string) (*rpcclient.Client, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, "", fmt.Errorf("rpc url scheme %q not supported, use http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, "", errors.New("rpc url missing host")
	}

	cfg := &rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   parsed.Scheme == "http",
	}
	if parsed.User != nil {
		cfg.User = parsed.User.Username()
		cfg.Pass, _ = parsed.User.Password()
	}

	client, err := rpcclient.New(cfg, nil)
	if err != nil {
		return nil, "", err
	}
	return client, parsed.Host, nil
}
