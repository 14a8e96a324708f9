package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/cucumber/godog"

	"labcheckout/internal/checkout/service"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	StartServer(ctx context.Context, mode service.ClampMode) error
	AddStudent(ctx context.Context, uid string, fine, borrowCount int) error
	AddAsset(ctx context.Context, assetID, name string, securityLevel int) error
	POST(path string, body any) error
	GET(path string) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers checkout step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &checkoutSteps{tc: tc}

	ctx.Step(`^the lab checkout service is running with demo data$`, steps.serviceRunning)
	ctx.Step(`^the lab checkout service is running with demo data and "([^"]*)" cable clamping$`, steps.serviceRunningWithClamp)
	ctx.Step(`^a student "([^"]*)" with fine (\d+) and (\d+) active borrows?$`, steps.addStudent)
	ctx.Step(`^an available asset "([^"]*)" named "([^"]*)" at security level (\d+)$`, steps.addAsset)

	ctx.Step(`^student "([^"]*)" checks out "([^"]*)" for (-?\d+) hours?$`, steps.checkout)

	ctx.Step(`^the checkout should succeed with receipt "([^"]*)"$`, steps.shouldSucceed)
	ctx.Step(`^the checkout should fail with status (\d+) and error "([^"]*)"$`, steps.shouldFail)
	ctx.Step(`^the error reason should be "([^"]*)"$`, steps.reasonShouldBe)
	ctx.Step(`^the error description should be "([^"]*)"$`, steps.descriptionShouldBe)
	ctx.Step(`^the receipt should grant (\d+) hours?$`, steps.receiptHours)
	ctx.Step(`^the receipt should carry the notice "([^"]*)"$`, steps.receiptNotice)
	ctx.Step(`^the receipt should carry no notices$`, steps.receiptNoNotices)

	ctx.Step(`^asset "([^"]*)" should be (available|unavailable)$`, steps.assetAvailability)
	ctx.Step(`^student "([^"]*)" should have (\d+) active borrows?$`, steps.studentBorrows)
	ctx.Step(`^the audit trail for "([^"]*)" should end with "([^"]*)"$`, steps.auditEndsWith)
	ctx.Step(`^the audit trail for "([^"]*)" should contain (\d+) "([^"]*)" events?$`, steps.auditCount)
}

type checkoutSteps struct {
	tc TestContext
}

type receiptBody struct {
	Receipt string   `json:"receipt"`
	Hours   int      `json:"hours"`
	Notices []string `json:"notices"`
}

type auditBody struct {
	Events []struct {
		Action  string `json:"action"`
		Message string `json:"message"`
	} `json:"events"`
}

func (s *checkoutSteps) serviceRunning(ctx context.Context) error {
	return s.tc.StartServer(ctx, service.ClampCosmetic)
}

func (s *checkoutSteps) serviceRunningWithClamp(ctx context.Context, mode string) error {
	clamp, err := service.ParseClampMode(mode)
	if err != nil {
		return err
	}
	return s.tc.StartServer(ctx, clamp)
}

func (s *checkoutSteps) addStudent(ctx context.Context, uid string, fine, borrows int) error {
	return s.tc.AddStudent(ctx, uid, fine, borrows)
}

func (s *checkoutSteps) addAsset(ctx context.Context, assetID, name string, level int) error {
	return s.tc.AddAsset(ctx, assetID, name, level)
}

func (s *checkoutSteps) checkout(ctx context.Context, uid, assetID string, hours int) error {
	return s.tc.POST("/checkouts", map[string]any{
		"uid":      uid,
		"asset_id": assetID,
		"hours":    hours,
	})
}

func (s *checkoutSteps) receipt() (*receiptBody, error) {
	var r receiptBody
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &r); err != nil {
		return nil, fmt.Errorf("failed to parse receipt: %w", err)
	}
	return &r, nil
}

func (s *checkoutSteps) shouldSucceed(ctx context.Context, token string) error {
	if status := s.tc.GetLastResponseStatus(); status != 201 {
		return fmt.Errorf("expected status 201 but got %d\nResponse: %s", status, string(s.tc.GetLastResponseBody()))
	}
	r, err := s.receipt()
	if err != nil {
		return err
	}
	if r.Receipt != token {
		return fmt.Errorf("expected receipt %s but got %s", token, r.Receipt)
	}
	return nil
}

func (s *checkoutSteps) shouldFail(ctx context.Context, status int, code string) error {
	if actual := s.tc.GetLastResponseStatus(); actual != status {
		return fmt.Errorf("expected status %d but got %d\nResponse: %s", status, actual, string(s.tc.GetLastResponseBody()))
	}
	return s.fieldEquals("error", code)
}

func (s *checkoutSteps) reasonShouldBe(ctx context.Context, reason string) error {
	return s.fieldEquals("reason", reason)
}

func (s *checkoutSteps) descriptionShouldBe(ctx context.Context, description string) error {
	return s.fieldEquals("error_description", description)
}

func (s *checkoutSteps) fieldEquals(field, expected string) error {
	actual, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(actual) != expected {
		return fmt.Errorf("field %s: expected %q but got %q", field, expected, actual)
	}
	return nil
}

func (s *checkoutSteps) receiptHours(ctx context.Context, hours int) error {
	r, err := s.receipt()
	if err != nil {
		return err
	}
	if r.Hours != hours {
		return fmt.Errorf("expected %d hours on the receipt but got %d", hours, r.Hours)
	}
	return nil
}

func (s *checkoutSteps) receiptNotice(ctx context.Context, notice string) error {
	r, err := s.receipt()
	if err != nil {
		return err
	}
	if !slices.Contains(r.Notices, notice) {
		return fmt.Errorf("notice %q not in %v", notice, r.Notices)
	}
	return nil
}

func (s *checkoutSteps) receiptNoNotices(ctx context.Context) error {
	r, err := s.receipt()
	if err != nil {
		return err
	}
	if len(r.Notices) != 0 {
		return fmt.Errorf("expected no notices but got %v", r.Notices)
	}
	return nil
}

func (s *checkoutSteps) assetAvailability(ctx context.Context, assetID, state string) error {
	if err := s.tc.GET("/assets/" + assetID); err != nil {
		return err
	}
	available, err := s.tc.GetResponseField("available")
	if err != nil {
		return err
	}
	if want := state == "available"; available != want {
		return fmt.Errorf("asset %s: expected available=%t but got %v", assetID, want, available)
	}
	return nil
}

func (s *checkoutSteps) studentBorrows(ctx context.Context, uid string, borrows int) error {
	if err := s.tc.GET("/students/" + uid); err != nil {
		return err
	}
	count, err := s.tc.GetResponseField("borrow_count")
	if err != nil {
		return err
	}
	if n, ok := count.(float64); !ok || int(n) != borrows {
		return fmt.Errorf("student %s: expected %d active borrows but got %v", uid, borrows, count)
	}
	return nil
}

func (s *checkoutSteps) auditTrail(uid string) (*auditBody, error) {
	if err := s.tc.GET("/audit/" + uid); err != nil {
		return nil, err
	}
	var trail auditBody
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &trail); err != nil {
		return nil, fmt.Errorf("failed to parse audit trail: %w", err)
	}
	return &trail, nil
}

func (s *checkoutSteps) auditEndsWith(ctx context.Context, uid, message string) error {
	trail, err := s.auditTrail(uid)
	if err != nil {
		return err
	}
	if len(trail.Events) == 0 {
		return fmt.Errorf("audit trail for %s is empty", uid)
	}
	if last := trail.Events[len(trail.Events)-1].Message; last != message {
		return fmt.Errorf("expected last audit message %q but got %q", message, last)
	}
	return nil
}

func (s *checkoutSteps) auditCount(ctx context.Context, uid string, n int, action string) error {
	trail, err := s.auditTrail(uid)
	if err != nil {
		return err
	}
	count := 0
	for _, e := range trail.Events {
		if e.Action == action {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("expected %d %s events for %s but got %d", n, action, uid, count)
	}
	return nil
}
