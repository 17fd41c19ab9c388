package shared

import (
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
)

// ClientOptions builds the Temporal client options from the environment.
//
//	TEMPORAL_ADDRESS   host:port of the frontend (default localhost:7233)
//	TEMPORAL_NAMESPACE namespace (default "default")
func ClientOptions() client.Options {
	return client.Options{
		HostPort:  os.Getenv("TEMPORAL_ADDRESS"),
		Namespace: os.Getenv("TEMPORAL_NAMESPACE"),
		Logger:    log.NewStructuredLogger(slog.Default()),
	}
}
