package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smcScanBot/internal/domain"
)

func TestWriteAndReadKlinesCSV(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	klines := []*domain.Kline{
		{
			OpenTime:  start,
			CloseTime: start.Add(time.Minute),
			Symbol:    "ETHUSDT",
			Interval:  "1m",
			Open:      100.5,
			High:      101.25,
			Low:       99.75,
			Close:     100.0,
			Volume:    1234.5,
			IsFinal:   true,
		},
		{
			OpenTime:  start.Add(time.Minute),
			CloseTime: start.Add(2 * time.Minute),
			Symbol:    "ETHUSDT",
			Interval:  "1m",
			Open:      100.0,
			High:      102.0,
			Low:       100.0,
			Close:     101.5,
			Volume:    980.0,
			IsFinal:   true,
		},
	}

	path := filepath.Join(t.TempDir(), "klines.csv")
	require.NoError(t, WriteKlinesToCSV(klines, path))

	got, err := ReadKlinesFromCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, klines[0].Open, got[0].Open)
	assert.Equal(t, klines[1].Close, got[1].Close)
	assert.Equal(t, "ETHUSDT", got[0].Symbol)
	assert.True(t, got[0].OpenTime.Equal(klines[0].OpenTime))
	assert.True(t, got[1].IsFinal)
}

func TestReadKlinesFromCSV_MalformedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "open_time,close_time,symbol,interval,open,high,low,close,volume\n" +
		"2025-06-01T00:00:00Z,2025-06-01T00:01:00Z,ETHUSDT,1m,abc,101,99,100,1000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := ReadKlinesFromCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadKlinesFromCSV_MissingFile(t *testing.T) {
	_, err := ReadKlinesFromCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
