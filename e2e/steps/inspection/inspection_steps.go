package inspection

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &inspectionSteps{tc: tc}

	ctx.Step(`^the "([^"]*)" authority evaluates a (conventional|panamax) vessel (\d+) of (\d+) tonnes bound for "([^"]*)"$`, steps.authorityEvaluates)
	ctx.Step(`^the "([^"]*)" authority evaluates a vessel of unknown class$`, steps.authorityEvaluatesUnknownClass)
}

type inspectionSteps struct {
	tc TestContext
}

func vesselType(class string) int {
	if class == "panamax" {
		return 1
	}
	return 0
}

func (s *inspectionSteps) authorityEvaluates(ctx context.Context, name, class string, id, weight int, destination string) error {
	return s.tc.POST(fmt.Sprintf("/authorities/%s/evaluate", name), map[string]any{
		"id":          id,
		"type":        vesselType(class),
		"avgWeight":   weight,
		"destination": destination,
	})
}

func (s *inspectionSteps) authorityEvaluatesUnknownClass(ctx context.Context, name string) error {
	return s.tc.POST(fmt.Sprintf("/authorities/%s/evaluate", name), map[string]any{
		"id":          1,
		"type":        7,
		"avgWeight":   60000,
		"destination": "USA",
	})
}
