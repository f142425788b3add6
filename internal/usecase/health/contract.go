package health

import "context"

// DataChecker verifies the raw tables are readable.
type DataChecker interface {
	CheckData(ctx context.Context) error
}

// IndexPinger checks similarity index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks external model provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
