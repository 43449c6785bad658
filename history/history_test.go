package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"app/models"
)

func sampleDocument() models.ReportDocument {
	return models.ReportDocument{
		CreationTimestamp: time.Now(),
		Recommendations: []models.Recommendation{
			{ProductName: "Widget A", SupplyName: "Acme", Analysis: "slow", PromotionalStrategy: "discount"},
		},
	}
}

func TestDeleteMalformedID(t *testing.T) {
	store := &Store{}

	removed, err := store.Delete(context.Background(), "not-a-hex-id")

	assert.False(t, removed)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestDeleteWellFormedIDOnDisconnectedStore(t *testing.T) {
	store := &Store{}

	// A well-formed id must not be reported as malformed, even when the
	// store cannot reach MongoDB.
	removed, err := store.Delete(context.Background(), "65f1a2b3c4d5e6f708192a3b")

	assert.False(t, removed)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidID)
}

func TestDisconnectedStoreFailsSoftly(t *testing.T) {
	store := &Store{}

	assert.False(t, store.Connected())

	rows, err := store.Recommendations(context.Background())
	assert.Nil(t, rows)
	assert.Error(t, err)

	assert.Error(t, store.Save(context.Background(), sampleDocument()))
}
