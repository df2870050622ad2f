package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	driver string
}

// New creates a Service. driver names the store in the report ("store:<driver>").
func New(db DBPinger, driver string) *Service {
	return &Service{db: db, driver: driver}
}

// Check pings the store. A failing store degrades the service: searches still run,
// only persistence is lost.
func (s *Service) Check(ctx context.Context) Report {
	name := "store"
	if s.driver != "" {
		name += ":" + s.driver
	}

	checks := map[string]CheckResult{name: CheckOK}
	status := Healthy
	if err := s.db.Ping(ctx); err != nil {
		checks[name] = CheckError
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}
