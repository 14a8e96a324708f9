package e2e

import (
	"github.com/cucumber/godog"

	"labcheckout/e2e/steps/checkout"
	"labcheckout/e2e/steps/common"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	checkout.RegisterSteps(ctx, tc)
}
