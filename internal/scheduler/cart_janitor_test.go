package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartService struct {
	purges  atomic.Int32
	lastAge atomic.Int64
	err     error
}

func (f *fakeCartService) ListCarts(uint) ([]model.Cart, error)       { return nil, nil }
func (f *fakeCartService) AddItem(uint, uint) (*model.Cart, error)    { return nil, nil }
func (f *fakeCartService) RemoveItem(uint, uint) (*model.Cart, error) { return nil, nil }

func (f *fakeCartService) PurgeEmptyCarts(olderThan time.Duration) (int64, error) {
	f.purges.Add(1)
	f.lastAge.Store(int64(olderThan))
	return 3, f.err
}

func TestCartJanitor_RunOnce(t *testing.T) {
	carts := &fakeCartService{}
	janitor := NewCartJanitor(carts, "@hourly", 24*time.Hour)

	purged, err := janitor.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, int64(3), purged)
	assert.Equal(t, int32(1), carts.purges.Load())
	assert.Equal(t, int64(24*time.Hour), carts.lastAge.Load())
}

func TestCartJanitor_RunOnce_Error(t *testing.T) {
	carts := &fakeCartService{err: errors.New("database is locked")}
	janitor := NewCartJanitor(carts, "@hourly", time.Hour)

	_, err := janitor.RunOnce()
	assert.Error(t, err)
}

func TestCartJanitor_Start_InvalidSchedule(t *testing.T) {
	janitor := NewCartJanitor(&fakeCartService{}, "not a schedule", time.Hour)

	assert.Error(t, janitor.Start())
}

func TestCartJanitor_StartRunsJob(t *testing.T) {
	carts := &fakeCartService{}
	janitor := NewCartJanitor(carts, "@every 1s", time.Hour)

	require.NoError(t, janitor.Start())
	t.Cleanup(janitor.Stop)

	assert.Eventually(t, func() bool {
		return carts.purges.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}
