package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "labcheckout/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.Append(ctx, audit.Event{Subject: "KRG20281", Action: "checkout_succeeded"}))
	require.NoError(t, store.Append(ctx, audit.Event{Subject: "STU12345", Action: "checkout_failed"}))
	require.NoError(t, store.Append(ctx, audit.Event{Subject: "KRG20281", Action: "checkout_attempt_finished"}))

	events, err := store.ListBySubject(ctx, "KRG20281")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "checkout_succeeded", events[0].Action)
	assert.Equal(t, "checkout_attempt_finished", events[1].Action)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "STU12345", all[1].Subject)
}
