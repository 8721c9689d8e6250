package async

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_WaitReturnsResult(t *testing.T) {
	task := Go(func() (int, error) { return 42, nil })

	v, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	// повторный Wait возвращает тот же результат
	v, err = task.Wait()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestTask_WaitPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	task := Go(func() (string, error) { return "", boom })

	_, err := task.Wait()
	assert.ErrorIs(t, err, boom)
}

func TestTask_PanicBecomesError(t *testing.T) {
	task := Go(func() (int, error) { panic("unexpected") })

	_, err := task.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected")
}

func TestTask_ScheduledImmediately(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	task := Go(func() (int, error) {
		close(started)
		<-release
		return 1, nil
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("task was not started before Wait")
	}

	select {
	case <-task.Done():
		t.Fatal("task finished before release")
	default:
	}

	close(release)
	v, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestTask_ManyWaiters(t *testing.T) {
	release := make(chan struct{})
	task := Go(func() (int, error) {
		<-release
		return 7, nil
	})

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = task.Wait()
		}(i)
	}
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, 7, r)
	}
}

func TestResolved(t *testing.T) {
	task := Resolved("done", nil)
	v, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestMemo_StartsOncePerKey(t *testing.T) {
	memo := NewMemo[string, int]()
	var runs int32

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, _ := memo.GetOrStart("walking", func() (int, error) {
				atomic.AddInt32(&runs, 1)
				return 10, nil
			})
			v, err := task.Wait()
			assert.NoError(t, err)
			assert.Equal(t, 10, v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
	assert.Equal(t, 1, memo.Len())

	_, started := memo.GetOrStart("bike", func() (int, error) { return 0, nil })
	assert.True(t, started)
	_, ok := memo.Get("bike")
	assert.True(t, ok)
	_, ok = memo.Get("car")
	assert.False(t, ok)
}
