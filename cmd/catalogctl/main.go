// catalogctl is a command line client for the movie catalog server. It keeps
// a local favorites overlay in a sqlite file so favorites survive server
// resets.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vaaraprasad44/movies2/config"
	"github.com/Vaaraprasad44/movies2/database"
	"github.com/Vaaraprasad44/movies2/favorites"
	"github.com/Vaaraprasad44/movies2/services"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to configuration file")
	apiURL     = flag.String("api", "http://localhost:8080", "Base URL of the catalog server")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	svc := services.NewCatalogService(*apiURL)

	var cmdErr error
	switch cmd := flag.Arg(0); cmd {
	case "list":
		cmdErr = runList(svc, flag.Args()[1:])
	case "get":
		cmdErr = runGet(svc, flag.Args()[1:])
	case "favorite":
		cmdErr = runFavorite(svc, cfg, flag.Args()[1:])
	case "favorites":
		cmdErr = runFavorites(cfg)
	case "rate":
		cmdErr = runRate(svc, flag.Args()[1:])
	case "stats":
		cmdErr = runStats(svc)
	case "watch":
		cmdErr = runWatch(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(2)
	}

	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cmdErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: catalogctl [flags] <command> [args]

Commands:
  list       List movies (use -search, -genre, -year-from, ... to filter)
  get        Show one movie by id
  favorite   Toggle a movie's favorite flag and mirror it locally
  favorites  Show the locally saved favorites
  rate       Set a personal rating: rate <id> <1-10> [notes]
  stats      Show library statistics
  watch      Follow external changes to the local favorites store`)
	flag.PrintDefaults()
}

func openOverlay(cfg *config.Config) (*favorites.Overlay, *database.DB, error) {
	db, err := database.NewDB(cfg.Favorites.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open favorites store: %w", err)
	}
	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to prepare favorites store: %w", err)
	}
	overlay, err := favorites.NewOverlay(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return overlay, db, nil
}

func runFavorites(cfg *config.Config) error {
	overlay, db, err := openOverlay(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ids := overlay.IDs()
	if len(ids) == 0 {
		fmt.Println("No local favorites")
		return nil
	}
	for _, id := range ids {
		if m, ok := overlay.Movie(id); ok {
			fmt.Printf("%6d  %s\n", id, m.Title)
		} else {
			fmt.Printf("%6d  (no cached record)\n", id)
		}
	}
	return nil
}

// runWatch keeps the overlay hydrated while another process edits the
// favorites file.
func runWatch(cfg *config.Config) error {
	overlay, db, err := openOverlay(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	watcher, err := favorites.NewWatcher(overlay, cfg.Favorites.DBPath, 500*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Stop()

	fmt.Printf("Watching %s, %d favorites loaded. Ctrl-C to stop.\n",
		cfg.Favorites.DBPath, overlay.Count())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}
