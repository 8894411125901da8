package attendance

import (
	"context"
	"sync"

	"github.com/anuverse/teamops-backend/pkg/geocode"
)

const (
	locationUnavailable  = "Location unavailable"
	locationNotSupported = "Location not supported"
)

// Coordinates is a latitude/longitude pair reported by the client.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*geocode.Place, error)
}

// Resolver resolves a human-readable location at most once, in the
// background. Current never blocks on the lookup and never reports an
// error; until the lookup lands the value is the formatted coordinate
// pair, which also stands in when the lookup fails.
type Resolver struct {
	mu      sync.Mutex
	current string
	cancel  context.CancelFunc
	done    chan struct{}
}

// StartResolver kicks off location resolution for one check-in.
// A nil coords means the client had no fix; supported=false means the
// client has no geolocation capability at all.
func StartResolver(ctx context.Context, geo geocoder, coords *Coordinates, supported bool) *Resolver {
	r := &Resolver{done: make(chan struct{})}

	switch {
	case !supported:
		r.current = locationNotSupported
		close(r.done)
	case coords == nil:
		r.current = locationUnavailable
		close(r.done)
	case geo == nil:
		r.current = geocode.FormatCoordinates(coords.Lat, coords.Lng)
		close(r.done)
	default:
		r.current = geocode.FormatCoordinates(coords.Lat, coords.Lng)
		runCtx, cancel := context.WithCancel(ctx)
		r.cancel = cancel
		go func() {
			defer close(r.done)
			defer cancel()
			place, err := geo.ReverseGeocode(runCtx, coords.Lat, coords.Lng)
			if err != nil || place == nil {
				return
			}
			r.mu.Lock()
			r.current = place.DisplayName
			r.mu.Unlock()
		}()
	}
	return r
}

// Current returns the best location string available right now.
func (r *Resolver) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Abandon cancels an in-flight lookup. Safe to call more than once.
func (r *Resolver) Abandon() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Done exposes completion for callers that want to give the lookup a
// bounded head start.
func (r *Resolver) Done() <-chan struct{} {
	return r.done
}
