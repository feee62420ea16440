package health

import "context"

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// LLMChecker verifies the model runtime is reachable.
type LLMChecker interface {
	HealthCheck(ctx context.Context) error
}

// DocumentCounter reports how many documents are stored.
type DocumentCounter interface {
	Count(ctx context.Context) (int, error)
}
