package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/hexbots-backend/internal/config"
	"github.com/rocketscienceinc/hexbots-backend/internal/movesource"
	"github.com/rocketscienceinc/hexbots-backend/internal/repository"
	"github.com/rocketscienceinc/hexbots-backend/internal/repository/storage"
	"github.com/rocketscienceinc/hexbots-backend/internal/usecase"
	"github.com/rocketscienceinc/hexbots-backend/transport/rest"
	"github.com/rocketscienceinc/hexbots-backend/transport/websocket"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage backend")
)

// RunApp - runs the application until a signal arrives or a server fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	playerRepo, gameRepo, closeStorage, err := openStorage(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeStorage()

	seed := conf.Groq.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sources := movesource.NewRegistry(logger, movesource.RemoteConfig{
		APIKey:  conf.Groq.APIKey,
		BaseURL: conf.Groq.BaseURL,
		Timeout: conf.Groq.Timeout,
	}, movesource.NewRandom(seed))

	gameManager := usecase.NewGameManager(logger, playerRepo, gameRepo, sources, conf.AutoPlayDelay)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		httpErrCh <- rest.New(logger, gameManager).Start(ctx, conf.HTTPPort)
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsErrCh <- websocket.New(logger, gameManager).Start(ctx, conf.SocketPort)
	}()

	select {
	case err = <-httpErrCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	case err = <-wsErrCh:
		if err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	return nil
}

// openStorage builds the session repositories for the configured backend.
func openStorage(
	ctx context.Context,
	log *slog.Logger,
	conf *config.Config,
) (repository.PlayerRepository, repository.GameRepository, func(), error) {
	switch conf.Storage {
	case config.StorageMemory:
		log.Info("using in-memory session storage")

		store := repository.NewMemoryStore()
		return store.Players(), store.Games(), func() {}, nil
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		closeStorage := func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		return repository.NewPlayerRepository(redisStorage, conf.SessionTTL),
			repository.NewGameRepository(redisStorage, conf.SessionTTL),
			closeStorage, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage)
	}
}
