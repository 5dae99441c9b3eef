/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the stock bot: loads configuration, restores the
  ledger from its SQLite snapshot, seeds the static administrators, and runs
  the webhook server with a single queue consumer behind it.

STARTUP SEQUENCE:
  1. Load environment configuration, apply flag overrides
  2. Open SQLite snapshot store and restore the ledger
  3. Seed static administrators into the ledger
  4. Build sender, router, queue and webhook server
  5. Start the queue consumer and the HTTP server
  6. On SIGINT/SIGTERM: stop the listener, close queue intake, let the
     consumer drain, close the database

COMMAND-LINE FLAGS:
  -db      SQLite database path (overrides STOCKBOT_DB_PATH)
  -addr    Webhook listen address (overrides STOCKBOT_HTTP_ADDR)

SEE ALSO:
  - config/config.go: Environment settings
  - gateway/server.go: Webhook routes
  - bot/router.go: Event dispatch
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vinoteca/stockbot/bot"
	"github.com/vinoteca/stockbot/config"
	"github.com/vinoteca/stockbot/conversation"
	"github.com/vinoteca/stockbot/gateway"
	"github.com/vinoteca/stockbot/ledger"
	"github.com/vinoteca/stockbot/store/sqlite"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration failed")
	}

	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	addr := flag.String("addr", cfg.HTTPAddr, "webhook listen address")
	seed := flag.Bool("seed", false, "reset the product catalog to the demo wine list")
	flag.Parse()

	if cfg.GatewayToken == "" {
		log.Fatal("STOCKBOT_GATEWAY_TOKEN is required")
	}

	// Durable snapshot store.
	snaps, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("opening database failed")
	}
	defer snaps.Close()

	// Seeding replaces the catalog and sales history, writes the snapshot
	// and exits.
	if *seed {
		if err := seedCatalog(snaps); err != nil {
			log.WithError(err).Fatal("seeding failed")
		}
		log.Info("seed complete")
		return
	}

	// Restore the ledger.
	store := ledger.NewStore()
	snap, err := snaps.Load(context.Background())
	if err != nil {
		log.WithError(err).Fatal("loading snapshot failed")
	}
	store.Restore(snap)

	// Static administrators always exist in the ledger so they show up in
	// user listings and reports.
	for _, id := range cfg.Admins {
		if id == "" {
			continue
		}
		store.UpsertUser(id, ledger.RoleAdministrator, "")
	}

	sender := gateway.NewSender(cfg.GatewayURL, cfg.GatewayToken)
	router := bot.NewRouter(bot.Params{
		Ledger:       store,
		States:       conversation.NewStore(),
		Snapshots:    snaps,
		Replier:      sender,
		Log:          log,
		StaticAdmins: cfg.Admins,
		PerPage:      cfg.PerPage,
	})

	queue := gateway.NewQueue(log)
	server := gateway.NewServer(queue, sender, cfg.WebhookSecret, log)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		queue.Run(consumerCtx, router)
	}()

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", *addr).Info("webhook server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shut down")
	}

	// Let buffered events finish before the consumer stops.
	queue.CloseIntake()
	drain := time.NewTicker(50 * time.Millisecond)
	defer drain.Stop()
drainLoop:
	for queue.Depth() > 0 {
		select {
		case <-shutdownCtx.Done():
			log.Warn("queue not drained before timeout")
			break drainLoop
		case <-drain.C:
		}
	}
	stopConsumer()
	<-consumerDone

	log.Info("stopped")
}

// seedCatalog writes a demo wine catalog over whatever the database holds.
func seedCatalog(snaps ledger.SnapshotStore) error {
	store := ledger.NewStore()
	for _, p := range []struct {
		name string
		typ  string
		qty  int
	}{
		{"Prosecco Montelliana DOCG Extra Dry", "Spumant", 50},
		{"Prosecco Montelliana DOCG Extra Brut", "Spumant", 40},
		{"Prosecco Montelliana DOC Extra Dry", "Spumant", 45},
		{"Prosecco Montelliana DOCG 57", "Spumant", 30},
	} {
		if _, err := store.AddProduct(p.name, p.typ, p.qty); err != nil {
			return err
		}
	}
	return snaps.Save(context.Background(), store.Snapshot())
}
