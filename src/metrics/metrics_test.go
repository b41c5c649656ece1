package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soulverse/src/universe"
)

func sampleState() universe.State {
	return universe.State{
		Souls: []universe.Soul{
			{ID: "a", IsStarred: true},
			{ID: "b"},
			{ID: "c"},
		},
		Connections:       []universe.Connection{{ID: "x", FromID: "a", ToID: "b"}},
		TotalSouls:        5,
		TotalInteractions: 12,
		Mode:              universe.ModeGalaxy,
	}
}

func TestCollectorObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.Observe(sampleState())

	assert.Equal(t, 3.0, testutil.ToFloat64(c.souls))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.totalSouls))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.starred))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.connections))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.interactions))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.modes.WithLabelValues("galaxy")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.modes.WithLabelValues("normal")))
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).Observe(sampleState())

	srv := httptest.NewServer(SetupMetricsRoute(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "soulverse_souls 3")
	assert.Contains(t, string(body), `soulverse_mode{mode="galaxy"} 1`)
}
