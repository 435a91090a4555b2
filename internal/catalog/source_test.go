package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RetryBaseDelay = time.Millisecond
}

func TestLoadSource_File(t *testing.T) {
	cat, err := LoadSource(context.Background(), Source{Location: filepath.Join("testdata", "pathologies.csv")})
	require.NoError(t, err)

	assert.Equal(t, []string{"Nodule", "Normal study", "Infarct", "Subdural hematoma", "Sinusitis"}, cat.Names())

	infarct, ok := cat.Lookup("Infarct")
	require.True(t, ok)
	assert.True(t, infarct.RequiresSide)
	assert.True(t, infarct.RequiresLobe)
	assert.False(t, infarct.RequiresMm)

	sinusitis, ok := cat.Lookup("Sinusitis")
	require.True(t, ok)
	assert.False(t, sinusitis.RequiresSide, "lower-case true is not TRUE")
}

func TestLoadSource_MalformedFile(t *testing.T) {
	cat, err := LoadSource(context.Background(), Source{Location: filepath.Join("testdata", "malformed.csv")})
	require.Error(t, err)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, filepath.Join("testdata", "malformed.csv"), le.Source)
	assert.True(t, errors.Is(err, ErrMalformed))

	for _, name := range []string{"Nodule", "anything", ""} {
		_, ok := cat.Lookup(name)
		assert.False(t, ok, "lookup(%q) should be empty", name)
	}
}

func TestLoadSource_MissingFile(t *testing.T) {
	cat, err := LoadSource(context.Background(), Source{Location: filepath.Join(t.TempDir(), "absent.csv")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.Equal(t, 0, cat.Len())
}

func TestLoadSource_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := LoadSource(context.Background(), Source{Location: path})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestLoadSource_NoLocation(t *testing.T) {
	cat, err := LoadSource(context.Background(), Source{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.NotNil(t, cat)
}

func TestLoadSource_HeaderOnlyMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header.csv")
	require.NoError(t, os.WriteFile(path, []byte("Pathology,Observation\n"), 0644))

	_, err := LoadSource(context.Background(), Source{Location: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is_side")
}

func TestReadCSV_ShortRowsAndBOM(t *testing.T) {
	input := "\ufeffPathology,Observation,Impression,is_side,is_lobe,is_mm\n" +
		"Nodule,A nodule is noted.,Nodule.,TRUE\n" +
		"\n" +
		"\"Mass, large\",\"A mass, large.\",Mass.,FALSE,FALSE,FALSE\n"

	header, rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, ColumnPathology, header[0])
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[0][ColumnMm])
	assert.Equal(t, "Mass, large", rows[1][ColumnPathology])
}

func TestLoadSource_FlagCellsKeptVerbatim(t *testing.T) {
	input := "Pathology,Observation,Impression,is_side,is_lobe,is_mm\n" +
		"  Nodule, A nodule is noted., Nodule., TRUE,TRUE,TRUE \n"
	path := filepath.Join(t.TempDir(), "padded.csv")
	require.NoError(t, os.WriteFile(path, []byte(input), 0644))

	_, rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, " TRUE", rows[0][ColumnSide])
	assert.Equal(t, "TRUE ", rows[0][ColumnMm])

	cat, err := LoadSource(context.Background(), Source{Location: path})
	require.NoError(t, err)
	def, ok := cat.Lookup("Nodule")
	require.True(t, ok)
	assert.Equal(t, "A nodule is noted.", def.Observation)
	assert.False(t, def.RequiresSide)
	assert.True(t, def.RequiresLobe)
	assert.False(t, def.RequiresMm)
}

func TestLoadSource_HTTP(t *testing.T) {
	body, err := os.ReadFile(filepath.Join("testdata", "pathologies.csv"))
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	cat, err := LoadSource(context.Background(), Source{Location: ts.URL + "/pathologies.csv", Client: ts.Client()})
	require.NoError(t, err)
	assert.Equal(t, 5, cat.Len())
}

func TestLoadSource_HTTPStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	cat, err := LoadSource(context.Background(), Source{Location: ts.URL, Client: ts.Client()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, 0, cat.Len())
}

func TestLoadSource_HTTPRetriesOn429(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("Pathology,Observation,Impression,is_side,is_lobe,is_mm\nNodule,A nodule is noted.,Nodule.,TRUE,TRUE,TRUE\n"))
	}))
	defer ts.Close()

	cat, err := LoadSource(context.Background(), Source{Location: ts.URL, Client: ts.Client(), MaxRetries: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestLoadSource_HTTPCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadSource(ctx, Source{Location: ts.URL, Client: ts.Client()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
}
