package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"statuswatch/internal/config"
	"statuswatch/internal/models"
)

// ErrLocalNetworkUnavailable reports that probing could not even be
// attempted, e.g. no active network interface. It is the sole trigger for
// the unknown status.
var ErrLocalNetworkUnavailable = errors.New("local network unavailable")

// Result collects everything one probe cycle produced.
type Result struct {
	// ServerAddress is the first candidate (in configured priority order)
	// with at least one passing probe, or the primary candidate if all fail.
	ServerAddress string
	Outcomes      []models.ProbeOutcome
	Services      []models.ServiceStatus
}

// Runner executes every configured probe for every candidate address
// concurrently. A failed or hung probe becomes a failed outcome; it never
// aborts the batch.
type Runner struct {
	cfg     config.Config
	timeout time.Duration
	client  *http.Client
}

// NewRunner builds a runner with a shared, timeout-bounded HTTP client.
func NewRunner(cfg config.Config) *Runner {
	timeout := cfg.ProbeTimeout()
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Runner{
		cfg:     cfg,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Run executes one full probe cycle. All candidates are probed completely
// even after one succeeds, so dual-path comparison data stays available.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if err := checkLocalNetwork(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrLocalNetworkUnavailable, err)
	}

	type job struct {
		candidate int // index into cfg.Addresses, -1 for gateway probes
		prober    Prober
	}

	var jobs []job
	for i, addr := range r.cfg.Addresses {
		jobs = append(jobs, job{i, &PingProber{Address: addr}})
		for _, port := range r.cfg.ProbePorts {
			jobs = append(jobs, job{i, &PortProber{Address: addr, Port: port}})
		}
		if len(r.cfg.Endpoints) > 0 {
			jobs = append(jobs, job{i, &EndpointProber{
				Address:   addr,
				Endpoints: r.cfg.Endpoints,
				Client:    r.client,
			}})
		}
	}
	for _, gw := range r.cfg.Gateways {
		jobs = append(jobs, job{-1, &PingProber{
			Address: gw.Address,
			Method:  models.MethodInterface,
		}})
	}

	outcomes := make([]models.ProbeOutcome, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, p Prober) {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			outcomes[i] = p.Probe(probeCtx)
		}(i, j.prober)
	}
	wg.Wait()

	passed := make([]int, len(r.cfg.Addresses))
	for i, j := range jobs {
		if j.candidate >= 0 && outcomes[i].Success {
			passed[j.candidate]++
		}
	}
	server := r.cfg.Addresses[0]
	for i, addr := range r.cfg.Addresses {
		if passed[i] > 0 {
			server = addr
			break
		}
	}

	return Result{
		ServerAddress: server,
		Outcomes:      outcomes,
		Services:      r.checkServices(ctx, server),
	}, nil
}

// checkServices tests each named service port on the adopted address.
func (r *Runner) checkServices(ctx context.Context, address string) []models.ServiceStatus {
	if len(r.cfg.Services) == 0 {
		return nil
	}

	services := make([]models.ServiceStatus, len(r.cfg.Services))
	var wg sync.WaitGroup
	for i, svc := range r.cfg.Services {
		wg.Add(1)
		go func(i int, svc config.Service) {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			status := models.ServiceStatus{Name: svc.Name, Port: svc.Port}
			start := time.Now()
			var dialer net.Dialer
			conn, err := dialer.DialContext(probeCtx, "tcp", net.JoinHostPort(address, strconv.Itoa(svc.Port)))
			if err != nil {
				status.Error = errorText(probeCtx, err)
			} else {
				_ = conn.Close()
				status.Accessible = true
				status.LatencyMs = millisSince(start)
			}
			services[i] = status
		}(i, svc)
	}
	wg.Wait()
	return services
}

// checkLocalNetwork confirms at least one non-loopback interface is up.
func checkLocalNetwork() error {
	ifaces, err := net.Interfaces()
	if err != nil {
		return err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err == nil && len(addrs) > 0 {
			return nil
		}
	}
	return errors.New("no active network interface")
}
