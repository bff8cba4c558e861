package cli

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/fatih/color"

	"portcall/internal/portcall"
	"portcall/pkg/platform/audit"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	badColor  = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
	headColor = color.New(color.Bold)
)

func statusColor(s portcall.Status) *color.Color {
	switch s {
	case portcall.StatusDocked:
		return okColor
	case portcall.StatusLeft:
		return warnColor
	default:
		return badColor
	}
}

func printReport(w io.Writer, r portcall.Report, verbose bool) {
	if verbose {
		results := slices.Clone(r.Results)
		slices.SortFunc(results, func(a, b portcall.Result) int {
			return int(a.Vessel.ID - b.Vessel.ID)
		})
		for _, res := range results {
			printResult(w, res)
		}
		fmt.Fprintln(w)
	}

	headColor.Fprintf(w, "Simulation finished in %s\n", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  arrived:              %d\n", r.Arrived)
	fmt.Fprintf(w, "  inspected:            %d\n", r.Inspections)
	fmt.Fprintf(w, "  evaluation rounds:    %d\n", r.Rounds)
	fmt.Fprintf(w, "  rejected requests:    %d\n", r.RejectedRequests)
	fmt.Fprintf(w, "  docked:               %s\n", okColor.Sprint(r.Docked))
	fmt.Fprintf(w, "  damaged on approach:  %s\n", countColor(r.DamagedOnApproach, badColor).Sprint(r.DamagedOnApproach))
	fmt.Fprintf(w, "  evicted from berth:   %s\n", countColor(r.Evicted, badColor).Sprint(r.Evicted))
	fmt.Fprintf(w, "  left when full:       %s\n", countColor(r.LeftWhenFull, warnColor).Sprint(r.LeftWhenFull))
	fmt.Fprintf(w, "  abandoned:            %s\n", countColor(r.Abandoned, badColor).Sprint(r.Abandoned))
}

func countColor(n int, c *color.Color) *color.Color {
	if n == 0 {
		return dimColor
	}
	return c
}

func printResult(w io.Writer, res portcall.Result) {
	v := res.Vessel
	inspect := "no inspection"
	if v.NeedsInspection {
		inspect = "inspection"
	}
	fmt.Fprintf(w, "#%-4d %-12s %8.0f t  -> %-8s %-13s %s",
		v.ID, v.Class.String(), v.AverageWeight, v.Destination, inspect,
		statusColor(res.Status).Sprint(res.Status))
	if res.Evicted != nil {
		fmt.Fprintf(w, "  %s", badColor.Sprintf("(evicted #%d)", res.Evicted.ID))
	}
	if res.Err != nil {
		fmt.Fprintf(w, "  %s", dimColor.Sprint(res.Err))
	}
	fmt.Fprintln(w)
}

func printEventCounts(w io.Writer, counts map[audit.EventType]int) {
	if len(counts) == 0 {
		return
	}
	types := make([]audit.EventType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	slices.Sort(types)

	headColor.Fprintln(w, "Events")
	for _, t := range types {
		fmt.Fprintf(w, "  %-22s %d\n", t, counts[t])
	}
}
