package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tendertrail/normalization"
)

func testError(source, rawID, message string) *normalization.NormalizationError {
	return &normalization.NormalizationError{
		RawID:     rawID,
		Source:    source,
		Stage:     normalization.StageDirectMap,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

func TestInsertAndListErrors(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.InsertError(testError("adb", "t-1", "bad date")))
	require.NoError(t, db.InsertError(testError("wb", "w-1", "bad value")))
	require.NoError(t, db.InsertError(testError("adb", "", "no id")))

	all, err := db.ListErrors("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "t-1", all[0].RawID)
	require.Equal(t, "", all[2].RawID)

	adb, err := db.ListErrors("adb", 0)
	require.NoError(t, err)
	require.Len(t, adb, 2)

	limited, err := db.ListErrors("", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, "t-1", limited[0].RawID, "limit must keep arrival order")
}

func TestTrackerPersists(t *testing.T) {
	db := newTestDB(t)
	tracker := NewTracker(db)

	tracker.Record(testError("ungm", "u-1", "missing title"))
	tracker.Record(nil)

	errs, err := db.ListErrors("ungm", 0)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	require.Equal(t, normalization.StageDirectMap, errs[0].Stage)
	require.Equal(t, "missing title", errs[0].Message)
}
