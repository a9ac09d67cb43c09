// Command ems runs the engine telemetry service: it monitors an engine
// monitor's serial stream, parses records into the standardized format,
// stores them in SQLite, and serves the HTTP API.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aerotrace-data/aerotrace/internal/api"
	"github.com/aerotrace-data/aerotrace/internal/cgr30p"
	"github.com/aerotrace-data/aerotrace/internal/db"
	"github.com/aerotrace-data/aerotrace/internal/ems"
	"github.com/aerotrace-data/aerotrace/internal/recorder"
	"github.com/aerotrace-data/aerotrace/internal/serialmux"
	"github.com/aerotrace-data/aerotrace/internal/timeutil"
	"github.com/aerotrace-data/aerotrace/internal/units"
)

var (
	devMode      = flag.Bool("dev", false, "Run in dev mode (replay fixtures through a mock serial port)")
	disableEMS   = flag.Bool("disable-ems", false, "Run without engine monitor hardware")
	listen       = flag.String("listen", ":8080", "Listen address")
	portPath     = flag.String("port", "", "Serial port to use (defaults to the enabled serial config in the database)")
	dbPath       = flag.String("db", "ems.db", "Path to the SQLite database")
	displayUnits = flag.String("units", units.Fahrenheit, "Display units for temperatures (f or c)")
	modelSlug    = flag.String("model", "cgr-30p", "Engine monitor model slug")
	fixtures     = flag.String("fixtures", "fixtures.txt", "Fixture file replayed in dev mode")
)

func main() {
	// the migrate subcommand has its own argument handling and exits when done
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		migrateFlags := flag.NewFlagSet("migrate", flag.ExitOnError)
		migrateDB := migrateFlags.String("db", "ems.db", "Path to the SQLite database")
		migrateFlags.Parse(os.Args[2:])
		db.RunMigrateCommand(migrateFlags.Args(), *migrateDB)
		return
	}

	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	if !units.IsValid(*displayUnits) {
		log.Fatalf("Invalid units %q: valid values are %s", *displayUnits, units.GetValidUnitsString())
	}

	model, ok := ems.GetModel(*modelSlug)
	if !ok {
		log.Fatalf("Unsupported engine monitor model %q", *modelSlug)
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	emsSerial, err := openSerialMux(database, model)
	if err != nil {
		log.Fatalf("failed to open engine monitor port: %v", err)
	}
	defer emsSerial.Close()

	if err := emsSerial.Initialize(model.InitCommands); err != nil {
		log.Fatalf("failed to initialize device: %v", err)
	}
	log.Printf("initialized %s", model.DisplayName)

	rec := recorder.New(database, cgr30p.NewParser(), timeutil.RealClock{})

	// Create a wait group for the HTTP server, serial monitor, and recorder routines
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the monitor routine to manage IO on the serial port
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := emsSerial.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("failed to monitor serial port: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	// subscribe to the serial port lines and record parsed samples
	wg.Add(1)
	go func() {
		defer wg.Done()
		rec.Run(ctx, emsSerial)
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		// create a new API server instance using the serial mux and database
		// and mount the API handlers
		mux := api.NewServer(emsSerial, database, *displayUnits).ServeMux()

		emsSerial.AttachAdminRoutes(mux)
		database.AttachAdminRoutes(mux)

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		// Create a shutdown context with a short timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			// Force close the server if graceful shutdown fails
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}

		log.Printf("HTTP server routine stopped")
	}()

	// Wait for all goroutines to finish
	wg.Wait()
	log.Printf("Graceful shutdown complete")
}

// openSerialMux picks the serial transport: disabled, dev fixtures, or a real
// port. The real port path and framing come from the -port flag when set,
// otherwise from the enabled serial config in the database.
func openSerialMux(database *db.DB, model ems.Model) (serialmux.SerialMuxInterface, error) {
	if *disableEMS {
		log.Print("running without engine monitor hardware")
		return serialmux.NewDisabledSerialMux(), nil
	}

	if *devMode {
		data, err := os.ReadFile(*fixtures)
		if err != nil {
			return nil, err
		}
		return serialmux.NewMockSerialMux(data), nil
	}

	opts := serialmux.PortOptions{BaudRate: model.DefaultBaudRate}
	path := *portPath
	if path == "" {
		config, err := database.GetEnabledSerialConfig()
		if err != nil {
			return nil, err
		}
		if config == nil {
			log.Fatal("no -port flag and no enabled serial config in the database")
		}
		path = config.PortPath
		opts = serialmux.PortOptions{
			BaudRate: config.BaudRate,
			DataBits: config.DataBits,
			StopBits: config.StopBits,
			Parity:   config.Parity,
		}
	}

	return serialmux.NewRealSerialMux(path, opts)
}
