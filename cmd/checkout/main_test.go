package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labcheckout/internal/platform/config"
)

func TestRunPrintsDemoTranscript(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), config.Server{}, &out, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	assert.Equal(t, ""+
		"Cables max 3 hours. Updated to 3.\n"+
		"SUCCESS: TXN-LAB-101-KRG20281\n"+
		"AUDIT: Attempt finished for UID=KRG20281, Asset=LAB-101\n"+
		"Invalid Input: Invalid Asset ID\n"+
		"ERROR: Invalid Asset ID\n"+
		"AUDIT: Attempt finished for UID=KRG20281, Asset=LAB-XYZ\n"+
		"Policy Violation: Fine pending for UID: STU12345\n"+
		"ERROR: Fine pending for UID: STU12345\n"+
		"AUDIT: Attempt finished for UID=STU12345, Asset=LAB-202\n",
		out.String())
}

func TestRunRejectsUnknownClampMode(t *testing.T) {
	err := run(context.Background(), config.Server{CableClamp: "sometimes"}, &bytes.Buffer{}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

func TestRunFailsWhenRegistryTooSmall(t *testing.T) {
	err := run(context.Background(), config.Server{StudentCapacity: 2}, &bytes.Buffer{}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}
