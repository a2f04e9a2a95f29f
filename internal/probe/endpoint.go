package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"statuswatch/internal/config"
	"statuswatch/internal/models"
)

// EndpointProber issues HTTP GETs against the configured endpoints in order
// and reports the first one that answers at all. Status codes below 400
// count as success. Only when every endpoint is unreachable does the probe
// fail.
type EndpointProber struct {
	Address   string
	Endpoints []config.Endpoint
	Client    *http.Client
}

// Probe walks the endpoint list until one responds.
func (p *EndpointProber) Probe(ctx context.Context) models.ProbeOutcome {
	outcome := models.ProbeOutcome{
		Method: models.MethodEndpoint,
		Target: p.Address,
	}

	start := time.Now()
	for _, ep := range p.Endpoints {
		url := fmt.Sprintf("http://%s%s", net.JoinHostPort(p.Address, strconv.Itoa(ep.Port)), ep.Path)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			continue
		}
		resp, err := p.Client.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()

		outcome.Target = url
		outcome.Success = resp.StatusCode < 400
		outcome.LatencyMs = millisSince(start)
		if !outcome.Success {
			outcome.Error = http.StatusText(resp.StatusCode)
			outcome.LatencyMs = 0
		}
		return outcome
	}

	if ctx.Err() != nil {
		outcome.Error = errorText(ctx, ctx.Err())
	} else {
		outcome.Error = "all endpoints failed"
	}
	return outcome
}
