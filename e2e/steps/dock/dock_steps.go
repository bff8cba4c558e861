package dock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	GetLastResponseBody() []byte
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &dockSteps{tc: tc}

	ctx.Step(`^vessel (\d+) bound for "([^"]*)" requests a berth$`, steps.requestsBerth)
	ctx.Step(`^vessel (\d+) bound for "([^"]*)" is admitted$`, steps.isAdmitted)
	ctx.Step(`^I list the berths$`, steps.listBerths)
	ctx.Step(`^the queue should be empty$`, steps.queueShouldBeEmpty)
	ctx.Step(`^the dock should have (\d+) berths$`, steps.dockShouldHaveBerths)
}

type dockSteps struct {
	tc TestContext
}

type berthsResponse struct {
	Capacity    int     `json:"capacity"`
	QueueLength int     `json:"queueLength"`
	Queue       []int64 `json:"queue"`
}

func vessel(id int, destination string) map[string]any {
	return map[string]any{
		"id":          id,
		"type":        0,
		"avgWeight":   60000,
		"destination": destination,
	}
}

func (s *dockSteps) requestsBerth(ctx context.Context, id int, destination string) error {
	return s.tc.POST("/dock/requests", vessel(id, destination))
}

func (s *dockSteps) isAdmitted(ctx context.Context, id int, destination string) error {
	return s.tc.POST("/dock/admissions", vessel(id, destination))
}

func (s *dockSteps) listBerths(ctx context.Context) error {
	return s.tc.GET("/dock/berths")
}

func (s *dockSteps) berths() (berthsResponse, error) {
	var b berthsResponse
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &b); err != nil {
		return b, fmt.Errorf("decode berths: %w", err)
	}
	return b, nil
}

func (s *dockSteps) queueShouldBeEmpty(ctx context.Context) error {
	b, err := s.berths()
	if err != nil {
		return err
	}
	if b.QueueLength != 0 {
		return fmt.Errorf("expected empty queue, got %v", b.Queue)
	}
	return nil
}

func (s *dockSteps) dockShouldHaveBerths(ctx context.Context, n int) error {
	b, err := s.berths()
	if err != nil {
		return err
	}
	if b.Capacity != n {
		return fmt.Errorf("expected %d berths, got %d", n, b.Capacity)
	}
	return nil
}
