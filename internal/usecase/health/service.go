// Package health aggregates component health checks.
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
	Status        Status
	Checks        map[string]CheckResult
	DocumentCount int
}

// Service coordinates health checks.
type Service struct {
	db   DBPinger
	llm  LLMChecker
	docs DocumentCounter
}

// New creates a Service. llm and docs can be nil.
func New(db DBPinger, llm LLMChecker, docs DocumentCounter) *Service {
	return &Service{db: db, llm: llm, docs: docs}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.llm != nil {
		if err := s.llm.HealthCheck(ctx); err != nil {
			checks["llm"] = CheckError
		} else {
			checks["llm"] = CheckOK
		}
	}

	report := Report{Checks: checks, Status: Healthy}
	for _, v := range checks {
		if v == CheckError {
			report.Status = Degraded
			break
		}
	}

	if s.docs != nil {
		if n, err := s.docs.Count(ctx); err == nil {
			report.DocumentCount = n
		}
	}

	return report
}
