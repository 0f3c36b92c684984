package csvfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/envdata-hub/internal/domain"
	"github.com/couchcryptid/envdata-hub/internal/observability"
)

const snowData = "Site,Water Year,Month,Snow Depth (in)\nA,2000,Jan,10\nB,2001,Feb,4\n"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func newTestSource(t *testing.T, paths map[string]string) (*Source, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	return NewSource(paths, 4, testLogger(), m), m
}

func TestSource_LoadAndCache(t *testing.T) {
	path := writeFile(t, t.TempDir(), "snow.csv", snowData)
	src, m := newTestSource(t, map[string]string{domain.KindSnow: path})
	ctx := context.Background()

	first, err := src.Load(ctx, domain.KindSnow, domain.SnowSchema())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Len())

	second, err := src.Load(ctx, domain.KindSnow, domain.SnowSchema())
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged file is served from cache")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetLoads.WithLabelValues(domain.KindSnow, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetCache.WithLabelValues(domain.KindSnow, "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DatasetRows.WithLabelValues(domain.KindSnow)))
}

func TestSource_ReloadsChangedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "snow.csv", snowData)
	src, m := newTestSource(t, map[string]string{domain.KindSnow: path})
	ctx := context.Background()

	first, err := src.Load(ctx, domain.KindSnow, domain.SnowSchema())
	require.NoError(t, err)

	writeFile(t, filepath.Dir(path), "snow.csv", snowData+"C,2002,Mar,7\n")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	second, err := src.Load(ctx, domain.KindSnow, domain.SnowSchema())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 3, second.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DatasetLoads.WithLabelValues(domain.KindSnow, "success")))
}

func TestSource_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.csv", "Site,Water Year\nA\n")
	src, m := newTestSource(t, map[string]string{
		domain.KindSnow:        filepath.Join(dir, "absent.csv"),
		domain.KindGroundwater: bad,
	})
	ctx := context.Background()

	t.Run("unknown dataset", func(t *testing.T) {
		_, err := src.Load(ctx, "rainfall", domain.SnowSchema())
		var le *domain.DataLoadError
		require.ErrorAs(t, err, &le)
		assert.Contains(t, err.Error(), "unknown dataset")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := src.Load(ctx, domain.KindSnow, domain.SnowSchema())
		var le *domain.DataLoadError
		require.ErrorAs(t, err, &le)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := src.Load(ctx, domain.KindGroundwater, domain.GroundwaterSchema())
		var le *domain.DataLoadError
		require.ErrorAs(t, err, &le)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := src.Load(cctx, domain.KindGroundwater, domain.GroundwaterSchema())
		assert.ErrorIs(t, err, context.Canceled)
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DatasetLoads.WithLabelValues(domain.KindSnow, "error"))+
		testutil.ToFloat64(m.DatasetLoads.WithLabelValues(domain.KindGroundwater, "error")))
}

func TestSource_Path(t *testing.T) {
	src, _ := newTestSource(t, map[string]string{domain.KindAQI: "/data/aqi.csv"})
	p, ok := src.Path(domain.KindAQI)
	assert.True(t, ok)
	assert.Equal(t, "/data/aqi.csv", p)
	_, ok = src.Path(domain.KindSnow)
	assert.False(t, ok)
}

func TestLRUCache(t *testing.T) {
	st := stamp{modTime: time.Unix(100, 0), size: 10}
	ds := func(name string) *domain.Dataset { return domain.NewDataset(name, nil, nil) }

	t.Run("evicts least recently used", func(t *testing.T) {
		c := newLRUCache(2)
		c.put("a", st, ds("a"))
		c.put("b", st, ds("b"))
		_, ok := c.get("a", st)
		require.True(t, ok)
		c.put("c", st, ds("c"))

		_, ok = c.get("b", st)
		assert.False(t, ok, "b was least recently used")
		_, ok = c.get("a", st)
		assert.True(t, ok)
		_, ok = c.get("c", st)
		assert.True(t, ok)
		assert.Equal(t, 2, c.len())
	})

	t.Run("stale stamp drops entry", func(t *testing.T) {
		c := newLRUCache(2)
		c.put("a", st, ds("a"))

		_, ok := c.get("a", stamp{modTime: st.modTime, size: 11})
		assert.False(t, ok)
		assert.Equal(t, 0, c.len())
	})

	t.Run("put replaces", func(t *testing.T) {
		c := newLRUCache(1)
		c.put("a", st, ds("old"))
		c.put("a", st, ds("new"))

		got, ok := c.get("a", st)
		require.True(t, ok)
		assert.Equal(t, "new", got.Name())
		assert.Equal(t, 1, c.len())
	})
}
