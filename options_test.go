package taskrt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/logiface"
	"github.com/ygrebnov/taskrt/metrics"
)

func TestNewOptions_AppliesEveryOption(t *testing.T) {
	ref := time.Unix(100, 0)
	logger := logiface.New[logiface.Event]()
	provider := metrics.NewBasicProvider()

	s, err := NewOptions(
		WithWorkerCount(3),
		WithReferenceTime(ref),
		WithAllocator(GoAllocator{}),
		WithMetricsProvider(provider),
		WithLogger(logger),
	)
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.referenceTimepoint.Equal(ref))
	assert.Len(t, s.pool.Slots(), 3)
}

func TestNewOptions_InvalidConfigSurfacesError(t *testing.T) {
	_, err := NewOptions(func(co *configOptions) {
		co.cfg.WorkerCount = -1
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
