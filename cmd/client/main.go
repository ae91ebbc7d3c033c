package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cbodonnell/geoquiz/client/app"
	"github.com/cbodonnell/geoquiz/client/events"
	"github.com/cbodonnell/geoquiz/client/identity"
	"github.com/cbodonnell/geoquiz/client/maps"
	"github.com/cbodonnell/geoquiz/client/network"
	"github.com/cbodonnell/geoquiz/client/render"
	"github.com/cbodonnell/geoquiz/client/ui"
	"github.com/cbodonnell/geoquiz/pkg/config"
	"github.com/cbodonnell/geoquiz/pkg/log"
	"github.com/cbodonnell/geoquiz/pkg/queue"
	"github.com/cbodonnell/geoquiz/pkg/repositories"
	"github.com/cbodonnell/geoquiz/pkg/version"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		panic(fmt.Sprintf("Failed to load .env: %v", err))
	}
	cfg := config.Load()

	serverURL := flag.String("server-url", cfg.ServerURL, "Game server websocket URL")
	identityStore := flag.String("identity-store", cfg.IdentityStore, "Identity store (sqlite, postgres, memory)")
	sqlitePath := flag.String("sqlite-path", cfg.SQLitePath, "SQLite database path")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "Postgres connection string")
	order := flag.String("leaderboard-order", cfg.LeaderboardOrder, "Leaderboard order (points, distance)")
	revealZoom := flag.Int("reveal-zoom", cfg.RevealZoom, "Zoom used when a reveal has a single point")
	compress := flag.Bool("compress", cfg.Compress, "Send zstd-compressed frames")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	// The console owns stdout, so logs go to stderr.
	logger := log.New(os.Stderr, parsedLogLevel).Named("client")
	log.SetDefaultLogger(logger)
	defer log.Sync()
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting client version %s", version.Get())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repository, err := newRepository(ctx, *identityStore, *sqlitePath, *postgresDSN)
	if err != nil {
		panic(fmt.Sprintf("Failed to open identity store: %v", err))
	}
	defer repository.Close(ctx)

	eventQueue := queue.NewInMemoryQueue[events.Event](queue.DefaultBufferSize)
	networkManager := network.NewNetworkManager(network.NetworkManagerOptions{
		ServerURL:            *serverURL,
		EventQueue:           eventQueue,
		Compress:             *compress,
		ReconnectMaxInterval: cfg.ReconnectMaxInterval,
	})
	memoryMap := maps.NewMemoryMap()

	client, err := app.NewApp(ctx, app.Options{
		Channel:      networkManager,
		Map:          memoryMap,
		View:         ui.NewConsole(os.Stdout),
		Identities:   identity.NewStore(repository),
		EventQueue:   eventQueue,
		Order:        render.Order(*order),
		RevealZoom:   *revealZoom,
		TickInterval: cfg.TickInterval,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create client: %v", err))
	}

	go readCommands(os.Stdin, eventQueue, memoryMap, stop)

	fmt.Fprintln(os.Stdout, ui.Usage)
	if err := client.Run(ctx); err != nil {
		panic(fmt.Sprintf("Client stopped: %v", err))
	}
	log.Info("Client stopped")
}

func newRepository(ctx context.Context, kind, sqlitePath, postgresDSN string) (repositories.Repository, error) {
	switch kind {
	case config.IdentityStoreMemory:
		return repositories.NewMemoryRepository(), nil
	case config.IdentityStorePostgres:
		if postgresDSN == "" {
			return nil, fmt.Errorf("postgres identity store requires GEOQUIZ_POSTGRES_DSN")
		}
		return repositories.NewPostgresRepository(ctx, postgresDSN)
	case config.IdentityStoreSQLite:
		return repositories.NewSQLiteRepository(ctx, sqlitePath)
	}
	return nil, fmt.Errorf("unknown identity store %q", kind)
}

// readCommands feeds console commands to the update loop until stdin closes
// or the player quits, then calls quit. Run processes whatever is still
// queued before it returns.
func readCommands(in io.Reader, eventQueue queue.Queue[events.Event], m *maps.MemoryMap, quit func()) {
	defer quit()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		ev, err := ui.ParseCommand(scanner.Text())
		if err != nil {
			if errors.Is(err, ui.ErrQuit) {
				return
			}
			if ui.IsActionableError(err) {
				fmt.Fprintln(os.Stdout, err.Error())
			} else {
				log.Error("Failed to parse command: %v", err)
			}
			continue
		}
		if click, ok := ev.(events.MapClicked); ok {
			m.Click(maps.Point{Lat: click.Lat, Lon: click.Lon})
			continue
		}
		if err := eventQueue.Enqueue(ev); err != nil {
			log.Error("Failed to enqueue %s: %v", ev.Kind(), err)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("Failed to read commands: %v", err)
	}
}
