package main

import (
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"wallet-journeys/shared"
	"wallet-journeys/workflows"
)

func main() {
	c, err := client.Dial(shared.ClientOptions())
	if err != nil {
		log.Fatalf("Unable to create Temporal client: %v", err)
	}
	defer c.Close()

	// Sessions are long-lived and mostly idle between events, so the sticky
	// cache keeps them off the replay path. StickyScheduleToStartTimeout
	// decides how soon a task moves to another worker.
	w := worker.New(c, shared.SessionWorkflowTaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.WalletSessionWorkflow)
	w.RegisterWorkflow(workflows.IdentityVerificationWorkflow)

	log.Println("Starting session workflow worker...")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Unable to start worker: %v", err)
	}
}
