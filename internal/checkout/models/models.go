package models

import (
	"fmt"
	"strings"

	dErrors "labcheckout/pkg/domain-errors"
	"labcheckout/pkg/validation"
)

const (
	// MaxActiveBorrows is the number of concurrent borrows at which a student stops being eligible.
	MaxActiveBorrows = 2

	// RestrictedSecurityLevel gates an asset to identifiers carrying PrivilegedPrefix.
	RestrictedSecurityLevel = 3
	PrivilegedPrefix        = "KRG"
)

// Student is a registered borrower.
type Student struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Fine        int    `json:"fine"`
	BorrowCount int    `json:"borrow_count"`
}

// NewStudent creates a Student with domain invariant checks.
func NewStudent(uid, name string, fine, borrowCount int) (*Student, error) {
	if err := validation.ValidateIdentifier(uid); err != nil {
		return nil, err
	}
	if fine < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "fine must not be negative")
	}
	if borrowCount < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "borrow count must not be negative")
	}
	return &Student{UID: uid, Name: name, Fine: fine, BorrowCount: borrowCount}, nil
}

// Key implements the registry key contract.
func (s Student) Key() string { return s.UID }

// CheckEligibility reports why the student may not borrow right now, if anything.
// An outstanding fine is reported before the borrow limit.
func (s Student) CheckEligibility() error {
	if s.Fine > 0 {
		return &dErrors.Error{
			Code:    dErrors.CodePolicyViolation,
			Reason:  dErrors.ReasonFinePending,
			Key:     s.UID,
			Message: fmt.Sprintf("Fine pending for UID: %s", s.UID),
		}
	}
	if s.BorrowCount >= MaxActiveBorrows {
		return &dErrors.Error{
			Code:    dErrors.CodePolicyViolation,
			Reason:  dErrors.ReasonBorrowLimitReached,
			Key:     s.UID,
			Message: fmt.Sprintf("Borrow limit reached for UID: %s", s.UID),
		}
	}
	return nil
}

// Asset is a piece of lab equipment that can be checked out.
type Asset struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Available     bool   `json:"available"`
	SecurityLevel int    `json:"security_level"`
}

// NewAsset creates an Asset with domain invariant checks.
func NewAsset(assetID, name string, available bool, securityLevel int) (*Asset, error) {
	if err := validation.ValidateAssetIdentifier(assetID); err != nil {
		return nil, err
	}
	if securityLevel < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "security level must not be negative")
	}
	return &Asset{ID: assetID, Name: name, Available: available, SecurityLevel: securityLevel}, nil
}

// Key implements the registry key contract.
func (a Asset) Key() string { return a.ID }

// CheckAvailability reports whether uid may take the asset right now.
// Availability is checked before the security tier.
func (a Asset) CheckAvailability(uid string) error {
	if !a.Available {
		return &dErrors.Error{
			Code:    dErrors.CodePolicyViolation,
			Reason:  dErrors.ReasonAssetUnavailable,
			Key:     a.ID,
			Message: fmt.Sprintf("Asset not available: %s", a.ID),
		}
	}
	if a.SecurityLevel == RestrictedSecurityLevel && !strings.HasPrefix(uid, PrivilegedPrefix) {
		return &dErrors.Error{
			Code:    dErrors.CodeSecurityViolation,
			Key:     uid,
			Message: fmt.Sprintf("Restricted asset for UID: %s", uid),
		}
	}
	return nil
}
