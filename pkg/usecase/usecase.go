package usecase

import (
	"github.com/secmon-lab/kiken/pkg/repository/dataset"
	"github.com/secmon-lab/kiken/pkg/service/classifier"
	"github.com/secmon-lab/kiken/pkg/service/sampler"
)

type UseCases struct {
	loader     *dataset.Loader
	classifier classifier.Service
	sampler    *sampler.Sampler

	Analyze *AnalyzeUseCase
}

type Option func(*UseCases)

// WithSampler replaces the default sampler (used by tests for seeded
// random sources)
func WithSampler(s *sampler.Sampler) Option {
	return func(uc *UseCases) {
		uc.sampler = s
	}
}

func New(loader *dataset.Loader, cls classifier.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		loader:     loader,
		classifier: cls,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.sampler == nil {
		uc.sampler = sampler.New()
	}

	uc.Analyze = NewAnalyzeUseCase(loader, cls, uc.sampler)

	return uc
}
