package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"

	"wallet-journeys/api"
	"wallet-journeys/shared"
)

func main() {
	c, err := client.Dial(shared.ClientOptions())
	if err != nil {
		log.Fatalf("Unable to create Temporal client: %v", err)
	}
	defer c.Close()

	addr := os.Getenv("GATEWAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	h := &api.Handlers{
		Sessions: api.TemporalSessions{Client: c},
		Logger:   tlog.NewStructuredLogger(slog.Default()),
	}
	log.Printf("Session gateway running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, api.NewRouter(h)))
}
