package portcall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"portcall/internal/dock"
	"portcall/internal/vessel/models"
)

// maxInFlight bounds concurrently running vessel workflows.
const maxInFlight = 256

// Report summarizes a simulation run.
type Report struct {
	Arrived           int
	Inspections       int
	Docked            int
	DamagedOnApproach int
	LeftWhenFull      int
	Abandoned         int
	Evicted           int
	RejectedRequests  int
	Rounds            int
	Elapsed           time.Duration
	Results           []Result
}

func (r *Report) add(res Result) {
	r.Arrived++
	r.Rounds += res.Decision.Rounds
	if res.Vessel.NeedsInspection {
		r.Inspections++
	}
	if res.Admission == dock.AdmissionRejected {
		r.RejectedRequests++
	}
	if res.Evicted != nil {
		r.Evicted++
	}
	switch res.Status {
	case StatusDocked:
		r.Docked++
	case StatusDamaged:
		r.DamagedOnApproach++
	case StatusLeft:
		r.LeftWhenFull++
	case StatusAbandoned:
		r.Abandoned++
	}
	r.Results = append(r.Results, res)
}

// Simulate generates the configured number of vessels, staggering arrivals by
// the arrival interval, and waits until every docked vessel has been served.
// The port's background workers run for the duration of the call.
func Simulate(ctx context.Context, p *Port) (Report, error) {
	vessels := make([]models.Vessel, 0, p.Config.VesselCount)
	for range p.Config.VesselCount {
		vessels = append(vessels, p.Generator.Next())
	}
	return SimulateVessels(ctx, p, vessels)
}

// SimulateVessels runs the given vessels through the port.
func SimulateVessels(ctx context.Context, p *Port, vessels []models.Vessel) (Report, error) {
	start := time.Now()

	bgCtx, stopBackground := context.WithCancel(ctx)
	bgDone := make(chan error, 1)
	go func() { bgDone <- p.RunBackground(bgCtx) }()
	defer func() {
		stopBackground()
		<-bgDone
	}()

	var (
		mu     sync.Mutex
		report Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)

	interval := p.Config.Scale(p.Config.ArrivalInterval)
	for i, v := range vessels {
		if i > 0 {
			if err := dock.Sleep(gctx, interval); err != nil {
				break
			}
		}
		p.logger.InfoContext(ctx, "vessel arriving",
			"vessel_id", v.ID,
			"class", v.Class.String(),
			"weight", v.AverageWeight,
			"destination", v.Destination,
		)
		g.Go(func() error {
			res, err := p.Handle(gctx, v)
			if err != nil {
				return err
			}
			mu.Lock()
			report.add(res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := p.Scheduler.WaitIdle(ctx); err != nil {
		return report, err
	}
	report.Elapsed = time.Since(start)
	p.logger.InfoContext(ctx, "simulation finished",
		"arrived", report.Arrived,
		"docked", report.Docked,
		"damaged", report.DamagedOnApproach,
		"evicted", report.Evicted,
		"elapsed", report.Elapsed,
	)
	return report, nil
}
