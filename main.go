package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Administrative subcommand: wipe and recreate the schema.
	if len(os.Args) > 1 && os.Args[1] == "init-db" {
		if err := initDB(db); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Initialized the database.")
		return
	}

	if err := ensureSchema(db); err != nil {
		log.Fatal(err)
	}

	app := newApp(cfg, db)
	server := &http.Server{Addr: cfg.Addr, Handler: app.router()}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	log.Printf("listening on %s", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
