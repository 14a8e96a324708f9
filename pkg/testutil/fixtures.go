package testutil

import (
	"labcheckout/internal/checkout/models"
)

// TestIDs provides identifiers used across tests. They match the demo seed data.
var TestIDs = struct {
	PrivilegedUID  string
	FinedUID       string
	AtLimitUID     string
	CableAssetID   string
	RestrictedID   string
	UnavailableID  string
	UnknownUID     string
	UnknownAssetID string
}{
	PrivilegedUID:  "KRG20281",
	FinedUID:       "STU12345",
	AtLimitUID:     "KRG99999",
	CableAssetID:   "LAB-101",
	RestrictedID:   "LAB-202",
	UnavailableID:  "LAB-303",
	UnknownUID:     "KRG00000",
	UnknownAssetID: "LAB-999",
}

// StudentBuilder provides a fluent interface for building test students.
type StudentBuilder struct {
	student *models.Student
}

// NewStudentBuilder creates an eligible student with sensible defaults.
func NewStudentBuilder() *StudentBuilder {
	return &StudentBuilder{
		student: &models.Student{
			UID:  TestIDs.PrivilegedUID,
			Name: "Test Student",
		},
	}
}

func (b *StudentBuilder) WithUID(uid string) *StudentBuilder {
	b.student.UID = uid
	return b
}

func (b *StudentBuilder) WithName(name string) *StudentBuilder {
	b.student.Name = name
	return b
}

func (b *StudentBuilder) WithFine(fine int) *StudentBuilder {
	b.student.Fine = fine
	return b
}

func (b *StudentBuilder) WithBorrowCount(n int) *StudentBuilder {
	b.student.BorrowCount = n
	return b
}

func (b *StudentBuilder) Build() *models.Student {
	return b.student
}

// AssetBuilder provides a fluent interface for building test assets.
type AssetBuilder struct {
	asset *models.Asset
}

// NewAssetBuilder creates an available, unrestricted asset.
func NewAssetBuilder() *AssetBuilder {
	return &AssetBuilder{
		asset: &models.Asset{
			ID:            TestIDs.CableAssetID,
			Name:          "Oscilloscope",
			Available:     true,
			SecurityLevel: 1,
		},
	}
}

func (b *AssetBuilder) WithID(assetID string) *AssetBuilder {
	b.asset.ID = assetID
	return b
}

func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.asset.Name = name
	return b
}

func (b *AssetBuilder) Unavailable() *AssetBuilder {
	b.asset.Available = false
	return b
}

func (b *AssetBuilder) WithSecurityLevel(level int) *AssetBuilder {
	b.asset.SecurityLevel = level
	return b
}

func (b *AssetBuilder) Build() *models.Asset {
	return b.asset
}
