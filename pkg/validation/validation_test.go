package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "labcheckout/pkg/domain-errors"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		uid   string
		valid bool
	}{
		{name: "shortest allowed", uid: "KRG20281", valid: true},
		{name: "longest allowed", uid: "KRG202812345", valid: true},
		{name: "empty", uid: "", valid: false},
		{name: "seven characters", uid: "KRG2028", valid: false},
		{name: "thirteen characters", uid: "KRG2028123456", valid: false},
		{name: "inner space", uid: "KRG 20281", valid: false},
		{name: "leading space", uid: " KRG20281", valid: false},
		{name: "tab", uid: "KRG\t20281", valid: false},
		{name: "length counts runes not bytes", uid: "KRGé2028", valid: true},
		{name: "astral rune counts once", uid: "KRG20281234\U0001F600", valid: true},
		{name: "astral rune still too long", uid: "KRG202812345\U0001F600", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.uid)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			assert.Equal(t, MsgInvalidUID, err.Error())
		})
	}
}

func TestValidateAssetIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		assetID string
		valid   bool
	}{
		{name: "three digits", assetID: "LAB-101", valid: true},
		{name: "single digit", assetID: "LAB-1", valid: true},
		{name: "letters after prefix", assetID: "LAB-XYZ", valid: false},
		{name: "no digits", assetID: "LAB-", valid: false},
		{name: "lowercase prefix", assetID: "lab-101", valid: false},
		{name: "trailing garbage", assetID: "LAB-101a", valid: false},
		{name: "leading garbage", assetID: "XLAB-101", valid: false},
		{name: "empty", assetID: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssetIdentifier(tt.assetID)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			assert.Equal(t, MsgInvalidAssetID, err.Error())
		})
	}
}

func TestValidateHours(t *testing.T) {
	for h := -2; h <= 9; h++ {
		err := ValidateHours(h)
		if h >= MinHours && h <= MaxHours {
			assert.NoError(t, err, "hours=%d", h)
			continue
		}
		require.Error(t, err, "hours=%d", h)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		assert.Equal(t, MsgInvalidHours, err.Error())
	}
}

func TestValidateRequest_FirstFailureWins(t *testing.T) {
	err := ValidateRequest("bad", "LAB-XYZ", 0)
	require.Error(t, err)
	assert.Equal(t, MsgInvalidUID, err.Error())

	err = ValidateRequest("KRG20281", "LAB-XYZ", 0)
	require.Error(t, err)
	assert.Equal(t, MsgInvalidAssetID, err.Error())

	err = ValidateRequest("KRG20281", "LAB-101", 0)
	require.Error(t, err)
	assert.Equal(t, MsgInvalidHours, err.Error())

	assert.NoError(t, ValidateRequest("KRG20281", "LAB-101", 4))
}

func TestValidation_Deterministic(t *testing.T) {
	for range 3 {
		assert.Error(t, ValidateIdentifier("KRG 0281"))
		assert.NoError(t, ValidateIdentifier("KRG20281"))
		assert.Error(t, ValidateAssetIdentifier("LAB-XYZ"))
		assert.NoError(t, ValidateHours(6))
	}
}
