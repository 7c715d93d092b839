package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"parcelbee/internal/domain"
	"parcelbee/internal/logx"
)

// Lookup outcomes reported to the outcome counter.
const (
	OutcomeResolved   = "resolved"
	OutcomeUnresolved = "unresolved"
	OutcomeCacheHit   = "cache_hit"
)

const responseLimit = 1 << 20

// Config stores geocoder client settings.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

type outcomeCounter interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}

// Nominatim resolves addresses through the Nominatim search API.
// Every lookup is a single attempt bounded by Config.Timeout.
type Nominatim struct {
	cfg      Config
	client   *http.Client
	outcomes outcomeCounter
	logger   logx.Logger
}

// NewNominatim creates a Nominatim client. outcomes may be nil.
func NewNominatim(cfg Config, outcomes outcomeCounter, logger logx.Logger) *Nominatim {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = logx.Nop()
	}
	return &Nominatim{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		outcomes: outcomes,
		logger:   logger,
	}
}

type searchHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the first search hit for address.
func (n *Nominatim) Geocode(ctx context.Context, address string) domain.GeocodeResult {
	start := time.Now()
	res := n.lookup(ctx, address)
	if res.OK() {
		n.observe(OutcomeResolved)
	} else {
		n.observe(OutcomeUnresolved)
		n.logger.Warn("geocode failed",
			logx.String("address", address),
			logx.String("reason", res.Reason),
			logx.Duration("took", time.Since(start)),
		)
	}
	return res
}

func (n *Nominatim) lookup(ctx context.Context, address string) domain.GeocodeResult {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.cfg.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return domain.Unresolved(fmt.Sprintf("build geocoder request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	if n.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", n.cfg.UserAgent)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return domain.Unresolved(fmt.Sprintf("geocoder request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Unresolved(fmt.Sprintf("geocoder returned status %d", resp.StatusCode))
	}

	var hits []searchHit
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseLimit)).Decode(&hits); err != nil {
		return domain.Unresolved(fmt.Sprintf("decode geocoder response: %v", err))
	}
	if len(hits) == 0 {
		return domain.Unresolved("No geocoding result for: " + address)
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return domain.Unresolved(fmt.Sprintf("bad latitude %q", hits[0].Lat))
	}
	lng, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return domain.Unresolved(fmt.Sprintf("bad longitude %q", hits[0].Lon))
	}
	return domain.Resolved(domain.Point{Lat: lat, Lng: lng})
}

func (n *Nominatim) observe(outcome string) {
	if n.outcomes != nil {
		n.outcomes.WithLabelValues(outcome).Inc()
	}
}
