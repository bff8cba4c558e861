package e2e

import (
	"github.com/cucumber/godog"

	"portcall/e2e/steps/common"
	"portcall/e2e/steps/dock"
	"portcall/e2e/steps/inspection"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	inspection.RegisterSteps(ctx, tc)
	dock.RegisterSteps(ctx, tc)
}
