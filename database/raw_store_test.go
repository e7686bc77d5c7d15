package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tendertrail/normalization"
)

func TestInsertAndFetchRawRecords(t *testing.T) {
	db := newTestDB(t)

	records := []normalization.RawRecord{
		{"id": "t-1", "title": "First"},
		{"id": "t-2", "title": "Second", "budget": "1,000,000 USD"},
		{"title": "No identifier"},
	}
	inserted, err := db.InsertRawRecords("adb", records)
	require.NoError(t, err)
	require.Equal(t, 3, inserted)

	fetched, err := db.FetchRawRecords("adb", 0)
	require.NoError(t, err)
	require.Len(t, fetched, 3)
	require.Equal(t, "First", fetched[0]["title"])
	require.Equal(t, "1,000,000 USD", fetched[1]["budget"])
	require.Equal(t, "", fetched[2].RawID())

	limited, err := db.FetchRawRecords("adb", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, "t-1", limited[0].RawID(), "fetch must be oldest first")
}

func TestFetchRawRecordsUnknownTable(t *testing.T) {
	db := newTestDB(t)
	_, err := db.FetchRawRecords("nosuch", 0)
	require.Error(t, err)
}

func TestFetchRawRecordsRejectsBadSourceName(t *testing.T) {
	db := newTestDB(t)
	_, err := db.FetchRawRecords("adb; DROP TABLE unified_tenders", 0)
	require.Error(t, err)
}
