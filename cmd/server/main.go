package main

import (
	"flag"
	"log"

	"tendertrail/internal/app"
	"tendertrail/server"
)

func main() {
	dbPath := flag.String("db", "tendertrail.db", "Path to the service database")
	addr := flag.String("addr", "", "Listen address (defaults to :<configured port>)")
	flag.Parse()

	application, err := app.Build(*dbPath)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer application.Close()

	listen := *addr
	if listen == "" {
		listen = ":" + application.Config.Port
	}

	srv := server.NewServer(application.Runner, application.DB)
	if err := srv.Run(listen); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
