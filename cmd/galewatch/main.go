package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lmarsden/galewatch/internal/api"
	"github.com/lmarsden/galewatch/internal/ingest"
	"github.com/lmarsden/galewatch/internal/models"
	"github.com/lmarsden/galewatch/internal/store"
)

var cli struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,help='Path to .env file to load.'"`

	DB    string `kong:"default='data/galewatch.db',env=GALEWATCH_DB,help='Path to SQLite database.'"`
	Port  string `kong:"default='8080',env=GALEWATCH_PORT,help='HTTP server port.'"`
	Farms string `kong:"default='data/farms.geojson',env=GALEWATCH_FARMS,help='GeoJSON file of wind farm sites.'"`

	GridNorth float64 `kong:"default='61.0',env=GALEWATCH_GRID_NORTH,help='Synoptic grid northern bound (deg latitude).'"`
	GridSouth float64 `kong:"default='51.0',env=GALEWATCH_GRID_SOUTH,help='Synoptic grid southern bound (deg latitude).'"`
	GridWest  float64 `kong:"default='-11.0',env=GALEWATCH_GRID_WEST,help='Synoptic grid western bound (deg longitude).'"`
	GridEast  float64 `kong:"default='9.0',env=GALEWATCH_GRID_EAST,help='Synoptic grid eastern bound (deg longitude).'"`
	GridSize  int     `kong:"default='5',env=GALEWATCH_GRID_SIZE,help='Synoptic grid resolution (NxN points).'"`

	SiteInterval time.Duration `kong:"default='10m',env=GALEWATCH_SITE_INTERVAL,help='Polling interval for farm conditions.'"`
	GridInterval time.Duration `kong:"default='1h',env=GALEWATCH_GRID_INTERVAL,help='Polling interval for synoptic scans.'"`
	Marine       bool          `kong:"env=GALEWATCH_MARINE,help='Also fetch marine (wave) conditions per farm.'"`

	Once   bool `kong:"help='Ingest and analyse once, then exit.'"`
	NoPoll bool `kong:"help='Disable polling (server only, for local dev).'"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("galewatch"),
		kong.Description("Offshore wind farm weather impact monitor."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	farms, err := ingest.LoadFarms(cli.Farms)
	if err != nil {
		log.Fatalf("load farms: %v", err)
	}
	for _, farm := range farms {
		if err := st.UpsertFarm(farm); err != nil {
			log.Fatalf("upsert farm %s: %v", farm.Name, err)
		}
	}
	log.Printf("seeded %d farms", len(farms))

	bounds := models.GridBounds{
		North: cli.GridNorth,
		South: cli.GridSouth,
		West:  cli.GridWest,
		East:  cli.GridEast,
	}

	client := ingest.NewClient()
	scheduler := ingest.NewScheduler(st, client, bounds, cli.GridSize)
	scheduler.SetIntervals(cli.SiteInterval, cli.GridInterval)
	scheduler.SetMarineEnabled(cli.Marine)
	server := api.NewServer(st, cli.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cli.Once {
		log.Println("running single ingestion")
		if err := scheduler.IngestOnce(ctx); err != nil {
			log.Fatalf("ingest: %v", err)
		}
		log.Println("done")
		return
	}

	if !cli.NoPoll {
		go scheduler.Run(ctx)
	} else {
		log.Println("polling disabled (--no-poll)")
	}

	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
