package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"labcheckout/internal/checkout/models"
)

// StudentStore defines methods for seeding students
type StudentStore interface {
	Add(ctx context.Context, student *models.Student) error
}

// AssetStore defines methods for seeding assets
type AssetStore interface {
	Add(ctx context.Context, asset *models.Asset) error
}

// Seeder populates in-memory registries with demo data
type Seeder struct {
	students StudentStore
	assets   AssetStore
	logger   *slog.Logger
}

// New creates a new seeder
func New(students StudentStore, assets AssetStore, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Seeder{
		students: students,
		assets:   assets,
		logger:   logger,
	}
}

// SeedAll registers the demo students and assets.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo data...")

	students, err := s.seedStudents(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed students: %w", err)
	}

	assets, err := s.seedAssets(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed assets: %w", err)
	}

	s.logger.Info("demo data seeded successfully",
		"students", students,
		"assets", assets,
	)
	return nil
}

func (s *Seeder) seedStudents(ctx context.Context) (int, error) {
	demoStudents := []struct {
		uid         string
		name        string
		fine        int
		borrowCount int
	}{
		{"KRG20281", "Aditya", 0, 0},
		{"STU12345", "Rahul", 100, 1},
		{"KRG99999", "Simran", 0, 2},
	}

	for _, d := range demoStudents {
		student, err := models.NewStudent(d.uid, d.name, d.fine, d.borrowCount)
		if err != nil {
			return 0, err
		}
		if err := s.students.Add(ctx, student); err != nil {
			return 0, err
		}
	}
	return len(demoStudents), nil
}

func (s *Seeder) seedAssets(ctx context.Context) (int, error) {
	demoAssets := []struct {
		id            string
		name          string
		available     bool
		securityLevel int
	}{
		{"LAB-101", "HDMI Cable", true, 1},
		{"LAB-202", "Projector", true, 3},
		{"LAB-303", "Extension Cable", false, 1},
	}

	for _, d := range demoAssets {
		asset, err := models.NewAsset(d.id, d.name, d.available, d.securityLevel)
		if err != nil {
			return 0, err
		}
		if err := s.assets.Add(ctx, asset); err != nil {
			return 0, err
		}
	}
	return len(demoAssets), nil
}

// DemoRequests returns the scripted checkout requests run by the demo CLI.
func DemoRequests() []models.Request {
	return []models.Request{
		{UID: "KRG20281", AssetID: "LAB-101", Hours: 4},
		{UID: "KRG20281", AssetID: "LAB-XYZ", Hours: 2},
		{UID: "STU12345", AssetID: "LAB-202", Hours: 2},
	}
}
