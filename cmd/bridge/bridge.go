package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	bridgeDeliveryPkg "github.com/KeynihAV/mtbridge/pkg/bridge/delivery"
	sessionUsecasePkg "github.com/KeynihAV/mtbridge/pkg/bridge/usecase"
	configPkg "github.com/KeynihAV/mtbridge/pkg/config"
	"github.com/KeynihAV/mtbridge/pkg/logging"
	"github.com/KeynihAV/mtbridge/pkg/metrics"
	authUsecasePkg "github.com/KeynihAV/mtbridge/pkg/session/usecase"
	memoryPkg "github.com/KeynihAV/mtbridge/pkg/terminal/memory"
	quotesFlowDeliveryPkg "github.com/KeynihAV/mtbridge/pkg/terminal/quotesFlow/delivery"
	terminalRepoPkg "github.com/KeynihAV/mtbridge/pkg/terminal/repo"
	terminalUsecasePkg "github.com/KeynihAV/mtbridge/pkg/terminal/usecase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

var appName = "bridge"

func main() {
	issueToken := flag.String("token", "", "print an access token for the named client and exit")
	flag.Parse()

	config := &configPkg.Config{}
	err := configPkg.Read(appName, config)
	if err != nil {
		log.Fatalln(err)
	}

	logger, err := logging.NewWithConfig(logging.Config(config.Log))
	if err != nil {
		log.Fatalln(err)
	}
	defer logger.Zap.Sync()

	if *issueToken != "" {
		sm, err := authUsecasePkg.NewSessionsManager(config.Auth.Secret, config.Auth.TokenTTL)
		if err != nil {
			log.Fatalln(err)
		}
		token, err := sm.CreateToken(*issueToken)
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = StartBridge(ctx, config, logger)
	if err != nil {
		logger.Zap.Fatal("start bridge",
			zap.String("logger", "ZAP"),
			zap.String("err: ", err.Error()))
	}
}

func StartBridge(ctx context.Context, config *configPkg.Config, logger *logging.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	terminal, err := initTerminal(ctx, g, config, logger)
	if err != nil {
		return err
	}
	session := sessionUsecasePkg.NewSession(terminal, sessionUsecasePkg.WithCallTimeout(config.Terminal.CallTimeout))
	bridgeServer := bridgeDeliveryPkg.NewBridgeServer(session, logger)

	var checker bridgeDeliveryPkg.TokenChecker
	interceptors := []grpc.UnaryServerInterceptor{
		bridgeDeliveryPkg.LoggingInterceptor(logger),
		metrics.UnaryServerInterceptor,
	}
	if config.Auth.Enabled {
		sm, err := authUsecasePkg.NewSessionsManager(config.Auth.Secret, config.Auth.TokenTTL)
		if err != nil {
			return err
		}
		checker = sm
		interceptors = append(interceptors, bridgeDeliveryPkg.AuthInterceptor(sm))
	}

	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", ":"+strconv.Itoa(config.GRPC.Port))
	if err != nil {
		return err
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	bridgeDeliveryPkg.RegisterBridgeServer(grpcServer, bridgeServer)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	for _, name := range bridgeDeliveryPkg.ServiceNames {
		healthServer.SetServingStatus(name, grpc_health_v1.HealthCheckResponse_SERVING)
	}

	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(config.HTTP.Port),
		Handler:           bridgeDeliveryPkg.NewRouter(&bridgeDeliveryPkg.BridgeHandler{Server: bridgeServer, Auth: checker}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Zap.Info("starting bridge",
		zap.String("logger", "ZAP"),
		zap.String("backend", config.Terminal.Backend),
		zap.Int("grpcPort", config.GRPC.Port),
		zap.Int("httpPort", config.HTTP.Port),
		zap.Bool("auth", config.Auth.Enabled),
	)

	g.Go(func() error {
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Zap.Info("stopping bridge", zap.String("logger", "ZAP"))
		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpErr := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		if err := session.Disconnect(shutdownCtx); err != nil {
			logger.Zap.Warn("disconnect terminal", zap.String("logger", "ZAP"), zap.String("err", err.Error()))
		}
		return httpErr
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// initTerminal builds the configured terminal backend and starts its quotes
// feed in g when a quotes file is set.
func initTerminal(ctx context.Context, g *errgroup.Group, config *configPkg.Config, logger *logging.Logger) (bridgePkg.Terminal, error) {
	var terminal bridgePkg.Terminal
	var onQuote func(ctx context.Context, q *bridgePkg.Quote) error

	switch config.Terminal.Backend {
	case "memory":
		fixtures, err := memoryPkg.LoadFixtures(config.Terminal.FixturesFile)
		if err != nil {
			return nil, err
		}
		memTerminal := memoryPkg.NewFromFixtures(fixtures)
		terminal = memTerminal
		onQuote = func(_ context.Context, q *bridgePkg.Quote) error {
			if !memTerminal.UpdateQuote(q) {
				logger.Zap.Debug("quote for unknown symbol", zap.String("logger", "quotesFlow"), zap.String("symbol", q.Symbol))
			}
			return nil
		}
	case "store":
		db, err := initDB(config)
		if err != nil {
			return nil, err
		}
		terminalRepo, err := terminalRepoPkg.NewTerminalRepo(db)
		if err != nil {
			return nil, err
		}
		quotesDB := terminalRepoPkg.NewQuotesDB(config.Redis.Addr)
		terminal = terminalUsecasePkg.NewStoreTerminal(terminalRepo, quotesDB)
		onQuote = quotesDB.SetQuote
	default:
		return nil, fmt.Errorf("unknown terminal backend %q", config.Terminal.Backend)
	}

	if config.Terminal.QuotesFile == "" {
		return terminal, nil
	}
	file, err := os.Open(config.Terminal.QuotesFile)
	if err != nil {
		return nil, err
	}

	quotesCh := make(chan *bridgePkg.Quote, 64)
	flow := &quotesFlowDeliveryPkg.Flow{
		Paced: config.Terminal.QuotesPaced,
		OnSkip: func(row int, err error) {
			logger.Zap.Warn("skip quote row",
				zap.String("logger", "quotesFlow"),
				zap.Int("row", row),
				zap.String("err", err.Error()))
		},
	}
	g.Go(func() error {
		defer file.Close()
		defer close(quotesCh)
		return flow.Start(ctx, file, quotesCh)
	})
	g.Go(func() error {
		for q := range quotesCh {
			if err := onQuote(ctx, q); err != nil {
				logger.Zap.Error("store quote",
					zap.String("logger", "quotesFlow"),
					zap.String("symbol", q.Symbol),
					zap.String("err", err.Error()))
			}
		}
		return nil
	})
	return terminal, nil
}

func initDB(config *configPkg.Config) (*sql.DB, error) {
	dbName := config.DB.Database

	connString := fmt.Sprintf("user=%v password=%v host=%v port=%v sslmode=disable",
		config.DB.Username, config.DB.Password, config.DB.Host, config.DB.Port)

	DBMS, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	err = DBMS.Ping()
	if err != nil {
		return nil, err
	}

	rows, err := DBMS.Query(`SELECT 1 FROM pg_database WHERE datname = $1`, dbName)
	if err != nil {
		return nil, err
	}
	exists := rows.Next()
	rows.Close()
	if !exists {
		_, err = DBMS.Exec(fmt.Sprintf(`CREATE DATABASE %v`, dbName))
		if err != nil {
			return nil, err
		}
	}
	err = DBMS.Close()
	if err != nil {
		return nil, err
	}

	bridgeDB, err := sql.Open("pgx", fmt.Sprintf("%v dbname=%v", connString, dbName))
	if err != nil {
		return nil, err
	}
	err = bridgeDB.Ping()
	if err != nil {
		return nil, err
	}
	return bridgeDB, nil
}
