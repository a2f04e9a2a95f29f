package engine

import (
	"sort"

	"statuswatch/internal/models"
)

// ServiceUptime summarises pass rates for one monitored service port.
type ServiceUptime struct {
	Name          string  `json:"name"`
	Port          int     `json:"port"`
	UptimePercent float64 `json:"uptime_percent"`
	TotalChecks   int     `json:"total_checks"`
	Passing       int     `json:"passing"`
	Failing       int     `json:"failing"`
	LastError     string  `json:"last_error,omitempty"`
}

// ComputeServiceUptime aggregates per-service availability across history
// samples.
func ComputeServiceUptime(samples []models.StatusSample) []ServiceUptime {
	type acc struct {
		port      int
		passing   int
		failing   int
		lastError string
	}
	state := make(map[string]*acc)
	for _, sample := range samples {
		for _, svc := range sample.Services {
			target := state[svc.Name]
			if target == nil {
				target = &acc{port: svc.Port}
				state[svc.Name] = target
			}
			if svc.Accessible {
				target.passing++
			} else {
				target.failing++
				if svc.Error != "" {
					target.lastError = svc.Error
				}
			}
		}
	}
	if len(state) == 0 {
		return nil
	}

	names := make([]string, 0, len(state))
	for name := range state {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]ServiceUptime, 0, len(names))
	for _, name := range names {
		data := state[name]
		total := data.passing + data.failing
		uptime := 0.0
		if total > 0 {
			uptime = float64(data.passing) / float64(total) * 100
		}
		results = append(results, ServiceUptime{
			Name:          name,
			Port:          data.port,
			UptimePercent: round2(uptime),
			TotalChecks:   total,
			Passing:       data.passing,
			Failing:       data.failing,
			LastError:     data.lastError,
		})
	}
	return results
}
