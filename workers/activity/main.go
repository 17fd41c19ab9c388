package main

import (
	"log"
	"os"

	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"wallet-journeys/activities"
	"wallet-journeys/shared"
)

func main() {
	// TEMPORAL_ADDRESS and TEMPORAL_NAMESPACE select the cluster; see
	// shared.ClientOptions.
	c, err := client.Dial(shared.ClientOptions())
	if err != nil {
		log.Fatalf("Unable to create Temporal client: %v", err)
	}
	defer c.Close()

	// MaxConcurrentActivityExecutionSize can be tuned down to protect the
	// payment backend and the KYC supplier from bursts.
	w := worker.New(c, shared.ActivityTaskQueue, worker.Options{})

	a := &activities.Activities{}
	if v := os.Getenv("WALLET_TRANSACTION_LIMIT"); v != "" {
		limit, err := decimal.NewFromString(v)
		if err != nil {
			log.Fatalf("Invalid WALLET_TRANSACTION_LIMIT %q: %v", v, err)
		}
		a.TransactionLimit = limit
	}
	w.RegisterActivity(a)

	log.Printf("Starting activity worker (transaction limit %s)...", a.TransactionLimit)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Unable to start worker: %v", err)
	}
}
