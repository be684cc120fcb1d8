// Package storetest holds behaviour checks shared by every quote.Store driver.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handwerk-hero/go_backend/internal/domain/quote"
)

// SampleDraft is a two-row quote with computed totals.
func SampleDraft(customer string) quote.Draft {
	return quote.Draft{
		CustomerLabel: customer,
		Title:         "Quote of 2024-05-01",
		Items: []quote.StoredItem{
			{Quantity: 2, Unit: "piece", Description: "Tile 30x30", Type: quote.TypeMaterial, UnitPrice: 12.5, LineTotal: 25},
			{Quantity: 1.5, Unit: "hour", Description: "Laying", Type: quote.TypeLabor, UnitPrice: 45, LineTotal: 67.5},
		},
		NetTotal: 92.5,
	}
}

// Run exercises insert, fetch and list on a store that starts empty.
func Run(t *testing.T, s quote.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		d := SampleDraft("Müller, Bad")
		rec, err := s.Insert(ctx, d)
		require.NoError(t, err)
		require.NotEmpty(t, rec.ID)
		assert.False(t, rec.CreatedAt.IsZero())

		got, err := s.Fetch(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, d.CustomerLabel, got.CustomerLabel)
		assert.Equal(t, d.Title, got.Title)
		assert.Equal(t, d.Items, got.Items)
		assert.InDelta(t, d.NetTotal, got.NetTotal, 1e-9)
	})

	t.Run("empty items", func(t *testing.T) {
		rec, err := s.Insert(ctx, quote.Draft{CustomerLabel: "Nobody", Title: "Quote of 2024-05-02"})
		require.NoError(t, err)

		got, err := s.Fetch(ctx, rec.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Items)
		assert.Zero(t, got.NetTotal)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Fetch(ctx, uuid.NewString())
		assert.ErrorIs(t, err, quote.ErrNotFound)
	})

	t.Run("newest first", func(t *testing.T) {
		var ids []string
		for _, c := range []string{"first", "second", "third"} {
			rec, err := s.Insert(ctx, SampleDraft(c))
			require.NoError(t, err)
			ids = append(ids, rec.ID)
			time.Sleep(5 * time.Millisecond)
		}

		list, err := s.ListSummaries(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(list), 3)

		assert.Equal(t, ids[2], list[0].ID)
		assert.Equal(t, "third", list[0].CustomerLabel)
		assert.Equal(t, ids[1], list[1].ID)
		assert.Equal(t, ids[0], list[2].ID)
		assert.InDelta(t, 92.5, list[0].NetTotal, 1e-9)
		for i := 1; i < len(list); i++ {
			assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt))
		}
	})
}
