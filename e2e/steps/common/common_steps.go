package common

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the port is running$`, steps.portIsRunning)
	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.responseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be (\d+)$`, steps.responseFieldShouldBeNumber)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) portIsRunning(ctx context.Context) error {
	if err := s.tc.GET("/healthz"); err != nil {
		return fmt.Errorf("port server not reachable: %w", err)
	}
	if s.tc.GetLastResponseStatus() != http.StatusOK {
		return fmt.Errorf("health check returned %d", s.tc.GetLastResponseStatus())
	}
	return nil
}

func (s *commonSteps) responseStatusShouldBe(ctx context.Context, status int) error {
	if got := s.tc.GetLastResponseStatus(); got != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) responseFieldShouldBe(ctx context.Context, field, want string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("expected %s %q, got %q", field, want, got)
	}
	return nil
}

func (s *commonSteps) responseFieldShouldBeNumber(ctx context.Context, field string, want int) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	got, ok := v.(float64)
	if !ok || int(got) != want {
		return fmt.Errorf("expected %s %d, got %v", field, want, v)
	}
	return nil
}
