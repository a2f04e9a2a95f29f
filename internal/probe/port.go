package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"statuswatch/internal/models"
)

// PortProber checks that a TCP port accepts connections. The connection is
// closed immediately after the handshake; latency is the dial time.
type PortProber struct {
	Address string
	Port    int
}

// Probe dials the port and closes the connection.
func (p *PortProber) Probe(ctx context.Context) models.ProbeOutcome {
	target := net.JoinHostPort(p.Address, strconv.Itoa(p.Port))
	outcome := models.ProbeOutcome{
		Method: models.MethodPort,
		Target: target,
	}

	start := time.Now()
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		outcome.Error = errorText(ctx, err)
		return outcome
	}
	_ = conn.Close()

	outcome.Success = true
	outcome.LatencyMs = millisSince(start)
	return outcome
}
