package models

import "time"

// Status is the overall connectivity classification for the monitored host.
type Status string

const (
	StatusOnline   Status = "online"
	StatusDegraded Status = "degraded"
	StatusOffline  Status = "offline"
	StatusUnknown  Status = "unknown"
)

// Online reports whether the host is considered reachable. Degraded still
// counts as reachable for uptime accounting.
func (s Status) Online() bool {
	return s == StatusOnline || s == StatusDegraded
}

// ProbeMethod identifies the kind of connectivity check that produced an outcome.
type ProbeMethod string

const (
	MethodReachability ProbeMethod = "reachability"
	MethodPort         ProbeMethod = "port"
	MethodEndpoint     ProbeMethod = "endpoint"
	MethodInterface    ProbeMethod = "interface"
)

// ProbeOutcome captures the result of a single connectivity probe.
// LatencyMs is only meaningful when Success is true.
type ProbeOutcome struct {
	Method    ProbeMethod `json:"method"`
	Target    string      `json:"target"`
	Success   bool        `json:"success"`
	LatencyMs float64     `json:"latency_ms,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// ServiceStatus captures reachability of one named service port on the
// adopted server address.
type ServiceStatus struct {
	Name       string  `json:"name"`
	Port       int     `json:"port"`
	Accessible bool    `json:"accessible"`
	LatencyMs  float64 `json:"latency_ms,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// StatusSample is one point-in-time classification of the monitored host.
// Outcomes is empty only when Status is unknown (probing could not run).
type StatusSample struct {
	ID             string          `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	Status         Status          `json:"status"`
	Online         bool            `json:"online"`
	ServerAddress  string          `json:"server_address"`
	Outcomes       []ProbeOutcome  `json:"outcomes"`
	Services       []ServiceStatus `json:"services"`
	UptimePercent  float64         `json:"uptime_percent"`
	LastSeenOnline time.Time       `json:"last_seen_online,omitempty"`
	Error          string          `json:"error,omitempty"`
	CacheHit       bool            `json:"cache_hit"`
}

// HostOutcomes filters outcomes to those aimed at the monitored host itself,
// excluding local interface/gateway diagnostics.
func HostOutcomes(outcomes []ProbeOutcome) []ProbeOutcome {
	host := make([]ProbeOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Method != MethodInterface {
			host = append(host, o)
		}
	}
	return host
}

// HostOutcomes returns the sample's host-directed outcomes.
func (s StatusSample) HostOutcomes() []ProbeOutcome {
	return HostOutcomes(s.Outcomes)
}

// PassedOutcomes counts probes that succeeded.
func (s StatusSample) PassedOutcomes() int {
	passed := 0
	for _, o := range s.Outcomes {
		if o.Success {
			passed++
		}
	}
	return passed
}

// AccessibleServices counts services that answered.
func (s StatusSample) AccessibleServices() int {
	up := 0
	for _, svc := range s.Services {
		if svc.Accessible {
			up++
		}
	}
	return up
}
