package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"parcelbee/internal/metrics"
)

func TestRegisterHTTP_RouterServesPing(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())
	err := c.Invoke(func(srv *http.Server) {
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/delivery/list", nil))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
	require.NoError(t, err)
}

func useRegistry(t *testing.T, reg prometheus.Registerer) {
	t.Helper()
	oldReg := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = reg
	t.Cleanup(func() { prometheus.DefaultRegisterer = oldReg })
}

func TestProvideMetrics_Success_RegistersAndReturnsCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	useRegistry(t, reg)

	out, err := provideMetrics()
	require.NoError(t, err)
	require.NotNil(t, out.RateLimitExceededTotal)
	require.NotNil(t, out.GeocoderLookupsTotal)
	require.NotNil(t, out.DeliveryEventsTotal)
	require.NotNil(t, out.Deliveries)

	out.Deliveries.WithLabelValues("pending").Set(1)
	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestProvideMetrics_AlreadyRegistered_ReturnsExistingCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	useRegistry(t, reg)

	existingRL := metrics.NewRateLimitExceededTotal()
	existingGauge := metrics.NewDeliveriesGauge()

	require.NoError(t, reg.Register(existingRL))
	require.NoError(t, reg.Register(existingGauge))

	out, err := provideMetrics()
	require.NoError(t, err)

	require.Same(t, existingRL, out.RateLimitExceededTotal)
	require.Same(t, existingGauge, out.Deliveries)
}

type errRegisterer struct{ err error }

func (e errRegisterer) Register(prometheus.Collector) error  { return e.err }
func (e errRegisterer) MustRegister(...prometheus.Collector) {}
func (e errRegisterer) Unregister(prometheus.Collector) bool { return false }

func TestProvideMetrics_RegisterError_NotAlreadyRegistered(t *testing.T) {
	useRegistry(t, errRegisterer{err: errors.New("boom")})

	_, err := provideMetrics()
	require.Error(t, err)
	require.Contains(t, err.Error(), "register rate_limit_exceeded_total")
}
