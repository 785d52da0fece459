package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"podstudio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStoresPendingWithPriceSnapshot(t *testing.T) {
	f := newFixture()

	r, err := f.mgr.Create(context.Background(), validInput(hourOn(2, 10), 2))
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, models.StatusPending, r.Status)
	assert.Nil(t, r.ConfirmationID)
	assert.Equal(t, hourOn(2, 12), r.EndAt)
	assert.Equal(t, "120.00", r.TotalPrice.StringFixed(2))
	assert.Equal(t, "UTC", r.Timezone)

	stored, err := f.repo.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, stored.ID)
	assert.Empty(t, f.calendar.dates, "a pending request does not touch the calendar")
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ReservationInput)
	}{
		{"missing start", func(in *models.ReservationInput) { in.StartAt = time.Time{} }},
		{"zero duration", func(in *models.ReservationInput) { in.DurationHours = 0 }},
		{"negative duration", func(in *models.ReservationInput) { in.DurationHours = -1 }},
		{"duration over a day", func(in *models.ReservationInput) { in.DurationHours = models.MaxDurationHours + 1 }},
		{"duration that wraps an hour count", func(in *models.ReservationInput) { in.DurationHours = 1<<51 + 1 }},
		{"start off the hour", func(in *models.ReservationInput) { in.StartAt = in.StartAt.Add(30 * time.Minute) }},
		{"start with seconds", func(in *models.ReservationInput) { in.StartAt = in.StartAt.Add(time.Second) }},
		{"theme and custom theme", func(in *models.ReservationInput) { in.CustomTheme = strPtr("true crime") }},
		{"no theme at all", func(in *models.ReservationInput) { in.ThemeID = nil }},
		{"blank custom theme only", func(in *models.ReservationInput) { in.ThemeID = nil; in.CustomTheme = strPtr("   ") }},
		{"missing name", func(in *models.ReservationInput) { in.CustomerName = " " }},
		{"bad email", func(in *models.ReservationInput) { in.CustomerEmail = "not-an-email" }},
		{"missing decor", func(in *models.ReservationInput) { in.DecorID = "" }},
		{"missing pack", func(in *models.ReservationInput) { in.PackOfferID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			in := validInput(hourOn(2, 10), 2)
			tt.mutate(&in)

			_, err := f.mgr.Create(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Empty(t, f.repo.snapshot())
		})
	}
}

func TestCreateCustomThemeOnly(t *testing.T) {
	f := newFixture()
	in := validInput(hourOn(2, 10), 1)
	in.ThemeID = nil
	in.CustomTheme = strPtr("  Indie games  ")

	r, err := f.mgr.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, r.CustomTheme)
	assert.Equal(t, "Indie games", *r.CustomTheme)
	assert.Nil(t, r.ThemeID)
}

func TestCreateReferenceNotFound(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ReservationInput)
	}{
		{"inactive decor", func(in *models.ReservationInput) { in.DecorID = "decor-old" }},
		{"unknown decor", func(in *models.ReservationInput) { in.DecorID = "decor-none" }},
		{"inactive theme", func(in *models.ReservationInput) { in.ThemeID = strPtr("theme-retired") }},
		{"unknown pack", func(in *models.ReservationInput) { in.PackOfferID = "pack-none" }},
		{"inactive pack", func(in *models.ReservationInput) { in.PackOfferID = "pack-gone" }},
		{"inactive supplement", func(in *models.ReservationInput) { in.SupplementIDs = []string{"sup-old"} }},
		{"unknown supplement", func(in *models.ReservationInput) { in.SupplementIDs = []string{"sup-video", "sup-none"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			in := validInput(hourOn(2, 10), 2)
			tt.mutate(&in)

			_, err := f.mgr.Create(context.Background(), in)
			assert.ErrorIs(t, err, models.ErrReferenceNotFound)
			assert.Empty(t, f.repo.snapshot())
		})
	}
}

func TestCreateDeduplicatesSupplements(t *testing.T) {
	f := newFixture()
	in := validInput(hourOn(2, 10), 1)
	in.SupplementIDs = []string{"sup-video", "sup-video", " ", "sup-coffee"}

	r, err := f.mgr.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"sup-video", "sup-coffee"}, r.SupplementIDs)
	assert.Equal(t, "120.00", r.TotalPrice.StringFixed(2))
}

func TestCreateAllowsOverlappingPendingRequests(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.mgr.Create(ctx, validInput(hourOn(2, 10), 2))
	require.NoError(t, err)
	_, err = f.mgr.Create(ctx, validInput(hourOn(2, 11), 2))
	require.NoError(t, err)
	assert.Len(t, f.repo.snapshot(), 2)
}

func TestCreateStorageFailureIsUnknown(t *testing.T) {
	f := newFixture()
	f.repo.createErr = errors.New("write timeout")

	_, err := f.mgr.Create(context.Background(), validInput(hourOn(2, 10), 2))
	assert.ErrorIs(t, err, models.ErrUnknown)
}

func TestListRejectsInvertedRange(t *testing.T) {
	f := newFixture()
	from, to := hourOn(3, 0), hourOn(2, 0)

	_, err := f.mgr.List(context.Background(), models.ReservationFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestListFiltersByStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, err := f.mgr.Create(ctx, validInput(hourOn(2, 10), 1))
	require.NoError(t, err)
	_, err = f.mgr.Create(ctx, validInput(hourOn(2, 12), 1))
	require.NoError(t, err)
	_, err = f.mgr.Confirm(ctx, a.ID, nil, "admin-1")
	require.NoError(t, err)

	st := models.StatusConfirmed
	list, err := f.mgr.List(ctx, models.ReservationFilter{Status: &st})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}
