package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microrent/rentflow/internal/model"
)

func TestLogNotificationAndRecent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	for i, entryType := range []string{"first_reminder", "second_reminder", "third_reminder"} {
		require.NoError(t, store.LogNotification(ctx, &model.NotificationLog{
			Category:    "rent",
			RecipientID: "U-line-1",
			RoomNumber:  "204",
			Type:        entryType,
			Title:       "Rent reminder",
			Message:     "body",
			Channel:     "line",
			Status:      model.SendStatusSent,
			SentAt:      base.Add(time.Duration(i) * time.Hour),
		}))
	}

	entries, err := store.RecentNotifications(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first, bounded by the limit.
	assert.Equal(t, "third_reminder", entries[0].Type)
	assert.Equal(t, "second_reminder", entries[1].Type)
	assert.Equal(t, "rent", entries[0].Category)
	assert.Equal(t, "line", entries[0].Channel)
}

func TestLogNotificationFailedDelivery(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.LogNotification(ctx, &model.NotificationLog{
		Category:     "rent",
		RecipientID:  "U-line-1",
		Type:         "final_reminder",
		Title:        "Final notice",
		Message:      "body",
		Channel:      "line",
		Status:       model.SendStatusFailed,
		ErrorMessage: "429 from push endpoint",
	}))

	entries, err := store.RecentNotifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.SendStatusFailed, entries[0].Status)
	assert.Equal(t, "429 from push endpoint", entries[0].ErrorMessage)
	assert.False(t, entries[0].SentAt.IsZero())
}

func TestLogNotificationNilEntry(t *testing.T) {
	store := createTestStorage(t)
	err := store.LogNotification(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilParameter)
}
