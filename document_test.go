package lexdoc_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/lexdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Partition(t *testing.T) {
	t.Parallel()

	listed := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	dated := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)

	doc := &lexdoc.Document{ListingDate: listed}
	assert.Equal(t, listed, doc.Partition())

	doc.DocumentDate = &dated
	assert.Equal(t, dated, doc.Partition())
}

func TestDocument_JSONKeepsAbsentDistinctFromEmpty(t *testing.T) {
	t.Parallel()

	empty := ""
	doc := &lexdoc.Document{
		ID:              "32024R0001",
		ReferenceNumber: &empty,
		Form:            nil,
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var got lexdoc.Document
	require.NoError(t, json.Unmarshal(data, &got))

	require.NotNil(t, got.ReferenceNumber)
	assert.Equal(t, "", *got.ReferenceNumber)
	assert.Nil(t, got.Form)
	assert.Nil(t, got.DocumentDate)
}

func TestSessionSummary_Add(t *testing.T) {
	t.Parallel()

	var s lexdoc.SessionSummary
	s.Add(lexdoc.OutcomeStored)
	s.Add(lexdoc.OutcomeStored)
	s.Add(lexdoc.OutcomeDuplicate)
	s.Add(lexdoc.OutcomeRejected)
	s.Add(lexdoc.OutcomeFailed)

	assert.Equal(t, 2, s.Stored)
	assert.Equal(t, 1, s.Duplicate)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 5, s.Terminal())
}
