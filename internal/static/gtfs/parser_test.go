package gtfs

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeed(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, body := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestLoad(t *testing.T) {
	path := writeFeed(t, map[string]string{
		"routes.txt": "\ufeffroute_id,agency_id,route_short_name,route_long_name,route_type\n" +
			"R73,TFL,73,,3\n" +
			"RX,TFL,,Express Link,3\n",
		"trips.txt": "route_id,service_id,trip_id,trip_headsign\n" +
			"R73,WK,T1,Oxford Circus\n" +
			"RX,WK,T2, Airport \n",
	})

	idx, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "73", idx.RouteName("R73"))
	assert.Equal(t, "Express Link", idx.RouteName("RX"), "falls back to long name")
	assert.Equal(t, "", idx.RouteName("missing"))
	assert.Equal(t, "Oxford Circus", idx.Headsign("T1"))
	assert.Equal(t, "Airport", idx.Headsign("T2"))
	assert.Equal(t, "RX", idx.TripRoute("T2"))
	assert.Equal(t, "", idx.Headsign("T9"))
}

func TestLoad_WithoutTrips(t *testing.T) {
	path := writeFeed(t, map[string]string{
		"routes.txt": "route_id,route_short_name\nR1,1\n",
	})

	idx, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1", idx.RouteName("R1"))
	assert.Equal(t, "", idx.Headsign("any"))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.zip"))
	assert.Error(t, err)

	path := writeFeed(t, map[string]string{"stops.txt": "stop_id\n"})
	_, err = Load(path)
	assert.ErrorContains(t, err, "routes.txt")
}
