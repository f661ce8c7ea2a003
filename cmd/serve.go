package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lingloop/player-api/api"
	"github.com/lingloop/player-api/api/types"
	"github.com/lingloop/player-api/internal/database"
	"github.com/lingloop/player-api/internal/models"
	"github.com/lingloop/player-api/internal/services/mediastore"
	"github.com/lingloop/player-api/internal/services/metadata"
	"github.com/lingloop/player-api/internal/services/player"
	"github.com/lingloop/player-api/internal/services/session"
	"github.com/lingloop/player-api/internal/store"
	"github.com/lingloop/player-api/pkg/config"
	"github.com/lingloop/player-api/pkg/fetch"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Lingloop Player API server with the configured settings.

The server exposes project, group, media and segment management plus the
loop playback engine endpoints the client player drives.

Example:
  player-api serve
  player-api serve --port 9090
  player-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Use config values if flags not provided
	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.MetaRecord{}, &models.MediaObject{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	deps, err := buildDependencies(cfg, db)
	if err != nil {
		return err
	}

	address := fmt.Sprintf("%s:%d", serverHost, serverPort)
	maxBodyBytes := cfg.Storage.MaxUploadMB << 20
	server := api.NewServer(address, maxBodyBytes)
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	log.Printf("Starting Lingloop Player API server on %s", address)

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case <-stop:
		log.Println("Shutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "%v\n", err)
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	log.Println("Server gracefully stopped")
	return nil
}

// buildDependencies wires the persistence tiers, playback engine and session
// manager into the handler dependency set.
func buildDependencies(cfg *config.Config, db *database.DB) (*types.Dependencies, error) {
	kv := store.NewKV(db.DB)

	storage, err := mediastore.NewFilesystemStorage(cfg.Storage.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}
	media := mediastore.NewService(mediastore.NewRepository(db.DB), storage)

	meta := metadata.NewService(kv, media)

	ctx := context.Background()
	if err := seedSettings(ctx, kv, meta, cfg); err != nil {
		return nil, err
	}

	directives := player.NewDirectiveBuffer()
	engine := player.NewEngine(directives, player.NewScheduler(), meta.LoadSettings(ctx), player.Events{})
	sessions := session.NewManager(engine, meta, cfg.Session.SnapshotInterval)

	return &types.Dependencies{
		DB:         db,
		Meta:       meta,
		Media:      media,
		Sessions:   sessions,
		Directives: directives,
		Fetcher:    fetch.NewClient(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
	}, nil
}

// seedSettings persists the configured playback defaults on first run. An
// existing record always wins over config.
func seedSettings(ctx context.Context, kv *store.KV, meta metadata.Service, cfg *config.Config) error {
	existing, err := kv.Get(ctx, models.MetaKeySettings)
	if err != nil {
		return fmt.Errorf("failed to probe playback settings: %w", err)
	}
	if existing != nil {
		return nil
	}

	budget := models.FiniteLoops(cfg.Playback.LoopCount)
	if cfg.Playback.LoopCount < 0 {
		budget = models.UnboundedLoops()
	}
	seeded := models.PlaybackSettings{
		LoopBudget:   budget,
		LoopDelay:    cfg.Playback.LoopDelay,
		PlaybackRate: cfg.Playback.PlaybackRate,
		AutoPlayNext: cfg.Playback.AutoPlayNext,
	}
	seeded.Clamp()
	if err := meta.SaveSettings(ctx, seeded); err != nil {
		return fmt.Errorf("failed to seed playback settings: %w", err)
	}
	log.Printf("Seeded playback settings from config: %s", seeded.LoopBudget)
	return nil
}
