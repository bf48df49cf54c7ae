package sampler

import (
	"math/rand"
	"sync"
	"time"

	"github.com/secmon-lab/kiken/pkg/domain/model"
)

// Default selection bounds
const (
	DefaultVideosPerType = 2
	DefaultMaxCases      = 6
)

// Sampler draws bounded randomized subsets of videos and cases for display.
// The random source is injectable so tests can assert exact samples.
type Sampler struct {
	mu            sync.Mutex
	rng           *rand.Rand
	videosPerType int
	maxCases      int
}

// Option is a functional option for Sampler configuration
type Option func(*Sampler)

// WithRand replaces the random source
func WithRand(rng *rand.Rand) Option {
	return func(s *Sampler) {
		s.rng = rng
	}
}

// WithVideosPerType overrides the per-type video bound
func WithVideosPerType(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.videosPerType = n
		}
	}
}

// WithMaxCases overrides the total case bound
func WithMaxCases(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.maxCases = n
		}
	}
}

// New creates a Sampler, defaulting to a time-seeded random source
func New(opts ...Option) *Sampler {
	s := &Sampler{
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		videosPerType: DefaultVideosPerType,
		maxCases:      DefaultMaxCases,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Videos selects up to videosPerType random videos for each accident type,
// in type order. There is no cross-type cap. Types without a video pool are
// skipped.
func (s *Sampler) Videos(accidentTypes []model.AccidentType, sets []model.AccidentVideoSet) []model.SelectedVideo {
	pools := make(map[int][]string, len(sets))
	for _, set := range sets {
		pools[set.ID] = set.Videos
	}

	var selected []model.SelectedVideo
	for _, t := range accidentTypes {
		pool := pools[t.ID]
		if len(pool) == 0 {
			continue
		}

		shuffled := s.shuffle(pool)
		n := min(s.videosPerType, len(shuffled))
		for i, url := range shuffled[:n] {
			selected = append(selected, model.SelectedVideo{
				URL:      url,
				TypeName: t.Name,
				Index:    i + 1,
			})
		}
	}
	return selected
}

// Cases selects up to maxCases random cases out of the union of all cases
// tagged with any of the given accident types. A case matching several types
// enters the union once.
func (s *Sampler) Cases(accidentTypes []model.AccidentType, cases []model.AccidentCase) []model.AccidentCase {
	typeIDs := make(map[int]struct{}, len(accidentTypes))
	for _, t := range accidentTypes {
		typeIDs[t.ID] = struct{}{}
	}

	var union []model.AccidentCase
	seen := map[int]struct{}{}
	for _, c := range cases {
		if _, ok := typeIDs[c.AccidentTypeID]; !ok {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		union = append(union, c)
	}

	shuffled := s.shuffleCases(union)
	return shuffled[:min(s.maxCases, len(shuffled))]
}

// shuffle returns a uniformly shuffled copy of the pool
func (s *Sampler) shuffle(pool []string) []string {
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

func (s *Sampler) shuffleCases(pool []model.AccidentCase) []model.AccidentCase {
	shuffled := make([]model.AccidentCase, len(pool))
	copy(shuffled, pool)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
