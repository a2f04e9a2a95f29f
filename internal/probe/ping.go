package probe

import (
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"statuswatch/internal/models"
)

var pingTimePattern = regexp.MustCompile(`time=(\d+\.?\d*)`)

// PingProber checks ICMP reachability of an address by running the system
// ping utility once. Raw ICMP sockets need elevated privileges, so the
// subprocess route is deliberate; the context deadline bounds the run.
type PingProber struct {
	Address string
	Method  models.ProbeMethod
}

// Probe sends a single echo request and reports the round-trip time.
func (p *PingProber) Probe(ctx context.Context) models.ProbeOutcome {
	method := p.Method
	if method == "" {
		method = models.MethodReachability
	}
	outcome := models.ProbeOutcome{
		Method: method,
		Target: p.Address,
	}

	start := time.Now()
	raw, err := exec.CommandContext(ctx, "ping", "-c", "1", p.Address).CombinedOutput()
	if err != nil {
		outcome.Error = errorText(ctx, err)
		return outcome
	}

	outcome.Success = true
	outcome.LatencyMs = millisSince(start)
	// Prefer the RTT reported by ping itself over process wall time.
	if match := pingTimePattern.FindSubmatch(raw); match != nil {
		if rtt, err := strconv.ParseFloat(string(match[1]), 64); err == nil {
			outcome.LatencyMs = rtt
		}
	}
	return outcome
}
