package health

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Report is the body served by the health endpoints
type Report struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Run checks every dependency in name order. One failing checker marks the
// whole report unhealthy.
func Run(service, version string, checks map[string]Checker) Report {
	report := Report{Status: StatusHealthy, Service: service, Version: version}
	if len(checks) == 0 {
		return report
	}

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	report.Checks = make(map[string]string, len(names))
	for _, name := range names {
		if err := checks[name](); err != nil {
			report.Checks[name] = StatusUnhealthy + ": " + err.Error()
			report.Status = StatusUnhealthy
			continue
		}
		report.Checks[name] = StatusHealthy
	}
	return report
}

// ReadyHandler serves the dependency report, with 503 while anything is down
func ReadyHandler(service, version string, checks map[string]Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := Run(service, version, checks)
		code := http.StatusOK
		if report.Status != StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, report)
	}
}

// LiveHandler answers 200 as long as the process can serve requests
func LiveHandler(service, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Report{Status: StatusHealthy, Service: service, Version: version})
	}
}
