package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	dErrors "labcheckout/pkg/domain-errors"
)

// Messages returned with CodeInvalidInput. They are part of the report output.
const (
	MsgInvalidUID     = "Invalid UID"
	MsgInvalidAssetID = "Invalid Asset ID"
	MsgInvalidHours   = "Hours must be 1 to 6"
)

var assetIDPattern = regexp.MustCompile(`^` + regexp.QuoteMeta(AssetIDPrefix) + `[0-9]+$`)

// min and max on strings count runes, so a UID is measured in code points,
// not bytes or UTF-16 units.
var (
	uidTag     = fmt.Sprintf("required,min=%d,max=%d,nowhitespace", MinUIDLength, MaxUIDLength)
	assetIDTag = "required,labassetid"
	hoursTag   = fmt.Sprintf("min=%d,max=%d", MinHours, MaxHours)
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
	})
	_ = v.RegisterValidation("labassetid", func(fl validator.FieldLevel) bool {
		return assetIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateIdentifier rejects empty student identifiers, identifiers whose length
// falls outside [MinUIDLength, MaxUIDLength], and identifiers containing whitespace.
func ValidateIdentifier(uid string) error {
	if err := defaultValidator.Var(uid, uidTag); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, MsgInvalidUID)
	}
	return nil
}

// ValidateAssetIdentifier rejects anything that is not exactly "LAB-" followed by digits.
func ValidateAssetIdentifier(assetID string) error {
	if err := defaultValidator.Var(assetID, assetIDTag); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, MsgInvalidAssetID)
	}
	return nil
}

// ValidateHours rejects durations outside [MinHours, MaxHours].
func ValidateHours(hours int) error {
	if err := defaultValidator.Var(hours, hoursTag); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, MsgInvalidHours)
	}
	return nil
}

// ValidateRequest runs the identifier, asset and hours checks in that order and
// returns the first failure.
func ValidateRequest(uid, assetID string, hours int) error {
	if err := ValidateIdentifier(uid); err != nil {
		return err
	}
	if err := ValidateAssetIdentifier(assetID); err != nil {
		return err
	}
	return ValidateHours(hours)
}
