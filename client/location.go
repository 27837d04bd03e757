package client

import (
	"context"
	"errors"
	"time"

	"silentaid/models"
)

var (
	// ErrUnsupported means the device has no geolocation capability at all.
	ErrUnsupported = errors.New("geolocation not supported")
	// ErrPermissionDenied means the user refused the location permission.
	ErrPermissionDenied = errors.New("location permission denied")
)

// Provider yields the device's current position.
type Provider interface {
	Current(ctx context.Context) (models.LocationSample, error)
}

type SampleSource int

const (
	SourceFresh SampleSource = iota
	SourceCached
	SourceUnavailable
)

const defaultSampleInterval = 30 * time.Second

// Sampler polls the location provider on a fixed interval and keeps the most
// recent successful sample in local storage. Failures fall back to the cached
// sample; there is no retry backoff, just the next scheduled tick.
type Sampler struct {
	Interval time.Duration

	// OnSample observes every sampling attempt, fresh or degraded.
	OnSample func(sample models.LocationSample, source SampleSource, err error)

	provider Provider
	store    *LocalStore
}

func NewSampler(provider Provider, store *LocalStore) *Sampler {
	return &Sampler{
		Interval: defaultSampleInterval,
		provider: provider,
		store:    store,
	}
}

// Sample takes one reading. On success the cached sample is overwritten; on
// failure the cached sample is returned if present, otherwise the provider's
// error comes back so unavailable and permission-denied stay distinguishable.
func (s *Sampler) Sample(ctx context.Context) (models.LocationSample, SampleSource, error) {
	sample, err := s.provider.Current(ctx)
	if err == nil {
		if sample.UpdatedAt.IsZero() {
			sample.UpdatedAt = timeNow().UTC()
		}
		if saveErr := s.store.SaveLastLocation(sample); saveErr != nil {
			return sample, SourceFresh, saveErr
		}
		return sample, SourceFresh, nil
	}

	if cached, found := s.store.LoadLastLocation(); found {
		return cached, SourceCached, nil
	}
	return models.LocationSample{}, SourceUnavailable, err
}

// Run samples immediately and then on every interval tick until the context
// is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	s.observe(s.Sample(ctx))

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.observe(s.Sample(ctx))
		}
	}
}

func (s *Sampler) observe(sample models.LocationSample, source SampleSource, err error) {
	if s.OnSample != nil {
		s.OnSample(sample, source, err)
	}
}
