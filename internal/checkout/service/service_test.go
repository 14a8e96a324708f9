package service

// Unit tests for the checkout service.
//
// Mock-based tests pin the call order and error mapping at the store boundary.
// End-to-end scenarios live in scenario_test.go (real in-memory stores) and
// e2e/features/checkout.feature.

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"labcheckout/internal/checkout/models"
	"labcheckout/internal/checkout/service/mocks"
	dErrors "labcheckout/pkg/domain-errors"
	"labcheckout/pkg/platform/audit"
	"labcheckout/pkg/platform/audit/publisher"
	"labcheckout/pkg/platform/audit/store/memory"
	"labcheckout/pkg/testutil"
)

type ServiceSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockStudents *mocks.MockStudentStore
	mockAssets   *mocks.MockAssetStore
	mockReporter *mocks.MockReporter
	auditStore   *memory.InMemoryStore
	service      *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStudents = mocks.NewMockStudentStore(s.ctrl)
	s.mockAssets = mocks.NewMockAssetStore(s.ctrl)
	s.mockReporter = mocks.NewMockReporter(s.ctrl)
	s.auditStore = memory.NewInMemoryStore()

	svc, err := New(s.mockStudents, s.mockAssets,
		WithAuditor(audit.NewLogger(nil, publisher.NewPublisher(s.auditStore))),
		WithReporter(s.mockReporter),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) expectFailureReport() {
	s.mockReporter.EXPECT().
		Report(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Not(gomock.Nil())).
		Times(1)
}

func (s *ServiceSuite) TestNew_RequiresStores() {
	_, err := New(nil, s.mockAssets)
	s.Error(err)
	_, err = New(s.mockStudents, nil)
	s.Error(err)
	_, err = New(s.mockStudents, s.mockAssets, WithClampMode("sometimes"))
	s.Error(err)
}

// TestValidationRunsBeforeLookup verifies malformed requests never reach the stores.
// gomock fails the test on any unexpected store call.
func (s *ServiceSuite) TestValidationRunsBeforeLookup() {
	cases := []models.Request{
		{UID: "KRG20281", AssetID: "LAB-XYZ", Hours: 2},
		{UID: "short", AssetID: "LAB-101", Hours: 2},
		{UID: "KRG20281", AssetID: "LAB-101", Hours: 7},
	}
	for _, req := range cases {
		s.expectFailureReport()
		_, err := s.service.Checkout(context.Background(), req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "request %+v", req)
	}
}

func (s *ServiceSuite) TestLookupErrors() {
	s.T().Run("unknown student passes NotFound through", func(t *testing.T) {
		s.mockStudents.EXPECT().FindByUID(gomock.Any(), "KRG00000").
			Return(nil, dErrors.NotFound("KRG00000", "Student not found: KRG00000"))
		s.expectFailureReport()

		_, err := s.service.Checkout(context.Background(), models.Request{UID: "KRG00000", AssetID: "LAB-101", Hours: 1})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
		assert.Equal(t, "Student not found: KRG00000", err.Error())
	})

	s.T().Run("foreign store error becomes CodeInternal", func(t *testing.T) {
		s.mockStudents.EXPECT().FindByUID(gomock.Any(), "KRG20281").
			Return(testutil.NewStudentBuilder().Build(), nil)
		s.mockAssets.EXPECT().FindByID(gomock.Any(), "LAB-101").
			Return(nil, assert.AnError)
		s.expectFailureReport()

		_, err := s.service.Checkout(context.Background(), models.Request{UID: "KRG20281", AssetID: "LAB-101", Hours: 1})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.ErrorIs(t, err, assert.AnError)
	})
}

// TestIneligibleStudentSkipsCommit verifies a policy failure leaves the stores untouched.
func (s *ServiceSuite) TestIneligibleStudentSkipsCommit() {
	s.mockStudents.EXPECT().FindByUID(gomock.Any(), "STU12345").
		Return(testutil.NewStudentBuilder().WithUID("STU12345").WithFine(100).Build(), nil)
	s.mockAssets.EXPECT().FindByID(gomock.Any(), "LAB-202").
		Return(testutil.NewAssetBuilder().WithID("LAB-202").WithSecurityLevel(3).Build(), nil)
	s.expectFailureReport()

	_, err := s.service.Checkout(context.Background(), models.Request{UID: "STU12345", AssetID: "LAB-202", Hours: 2})
	s.True(dErrors.HasReason(err, dErrors.CodePolicyViolation, dErrors.ReasonFinePending))
}

// TestCommitRollsBackAssetWhenIncrementFails verifies both mutations stick or neither does.
func (s *ServiceSuite) TestCommitRollsBackAssetWhenIncrementFails() {
	student := testutil.NewStudentBuilder().Build()
	asset := testutil.NewAssetBuilder().Build()
	gomock.InOrder(
		s.mockStudents.EXPECT().FindByUID(gomock.Any(), student.UID).Return(student, nil),
		s.mockAssets.EXPECT().FindByID(gomock.Any(), asset.ID).Return(asset, nil),
		s.mockAssets.EXPECT().MarkBorrowed(gomock.Any(), asset.ID).Return(asset, nil),
		s.mockStudents.EXPECT().IncrementBorrowCount(gomock.Any(), student.UID).Return(nil, assert.AnError),
		s.mockAssets.EXPECT().Release(gomock.Any(), asset.ID).Return(nil),
	)
	s.expectFailureReport()

	receipt, err := s.service.Checkout(context.Background(), models.Request{UID: student.UID, AssetID: asset.ID, Hours: 2})
	s.Nil(receipt)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Equal("Checkout not committed for UID: KRG20281", err.Error())
}

// TestAlreadyBorrowedAtCommit verifies the store's check-then-flip contract surfaces as a conflict.
func (s *ServiceSuite) TestAlreadyBorrowedAtCommit() {
	student := testutil.NewStudentBuilder().Build()
	asset := testutil.NewAssetBuilder().Build()
	s.mockStudents.EXPECT().FindByUID(gomock.Any(), student.UID).Return(student, nil)
	s.mockAssets.EXPECT().FindByID(gomock.Any(), asset.ID).Return(asset, nil)
	s.mockAssets.EXPECT().MarkBorrowed(gomock.Any(), asset.ID).
		Return(nil, &dErrors.Error{Code: dErrors.CodeConflict, Reason: dErrors.ReasonAlreadyBorrowed, Message: "Asset already borrowed: LAB-101"})
	s.expectFailureReport()

	_, err := s.service.Checkout(context.Background(), models.Request{UID: student.UID, AssetID: asset.ID, Hours: 2})
	s.True(dErrors.HasReason(err, dErrors.CodeConflict, dErrors.ReasonAlreadyBorrowed))
}

// TestAuditRecordsOutcomeThenAttemptFinished verifies every attempt yields one
// outcome event followed by exactly one attempt-finished event.
func (s *ServiceSuite) TestAuditRecordsOutcomeThenAttemptFinished() {
	s.expectFailureReport()
	_, err := s.service.Checkout(context.Background(), models.Request{UID: "KRG20281", AssetID: "LAB-XYZ", Hours: 2})
	s.Require().Error(err)

	events, err := s.auditStore.ListAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	s.Equal(models.AuditActionCheckoutFailed, events[0].Action)
	s.Equal(audit.SeverityError, events[0].Severity)
	s.Equal("Invalid Asset ID", events[0].Message)
	s.Equal("invalid_input", events[0].Reason)

	s.Equal(models.AuditActionAttemptFinished, events[1].Action)
	s.Equal("Attempt finished for UID=KRG20281, Asset=LAB-XYZ", events[1].Message)
	s.NotEmpty(events[1].RequestID)
	s.Equal(events[0].RequestID, events[1].RequestID, "both events share the attempt's request ID")
}

func TestParseClampMode(t *testing.T) {
	m, err := ParseClampMode("")
	require.NoError(t, err)
	assert.Equal(t, ClampCosmetic, m)

	m, err = ParseClampMode("applied")
	require.NoError(t, err)
	assert.Equal(t, ClampApplied, m)

	_, err = ParseClampMode("always")
	assert.Error(t, err)
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "Invalid Input", Category(dErrors.CodeInvalidInput))
	assert.Equal(t, "Not Found", Category(dErrors.CodeNotFound))
	assert.Equal(t, "Security Issue", Category(dErrors.CodeSecurityViolation))
	assert.Equal(t, "Policy Violation", Category(dErrors.CodePolicyViolation))
	assert.Equal(t, "Policy Violation", Category(dErrors.CodeConflict))
	assert.Equal(t, "Capacity Exceeded", Category(dErrors.CodeCapacityExceeded))
	assert.Equal(t, "Internal Error", Category(dErrors.CodeInternal))
}

func TestWriterReporterAlreadyBorrowed(t *testing.T) {
	var out bytes.Buffer
	req := models.Request{UID: "KRG20281", AssetID: "LAB-101", Hours: 2}
	err := &dErrors.Error{Code: dErrors.CodeConflict, Reason: dErrors.ReasonAlreadyBorrowed, Message: "Asset already borrowed: LAB-101"}

	NewWriterReporter(&out).Report(context.Background(), req, nil, err)

	assert.Equal(t, "Policy Violation: Asset already borrowed: LAB-101\n", out.String())
}
