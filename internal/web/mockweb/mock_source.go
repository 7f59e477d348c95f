package mockweb

import (
	"github.com/pfrederiksen/liga-rankings/internal/aggregator"
	"github.com/stretchr/testify/mock"
)

type Source struct {
	mock.Mock
}

func (s *Source) Snapshot() aggregator.Snapshot {
	args := s.Called()
	return args.Get(0).(aggregator.Snapshot)
}

func (s *Source) Refresh() error {
	args := s.Called()
	return args.Error(0)
}
