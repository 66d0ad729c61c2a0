package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDefaultStepsShape(t *testing.T) {
	require.Len(t, DefaultSteps, 7)
	assert.Equal(t, 10, DefaultSteps[0].Percent)
	assert.Equal(t, 100, DefaultSteps[6].Percent)
	for i := 1; i < len(DefaultSteps); i++ {
		assert.Greater(t, DefaultSteps[i].Percent, DefaultSteps[i-1].Percent)
	}
}

func TestAnimatorRunsEveryStepOnce(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []Step
	)
	a := Start(nil, time.Millisecond, func(s Step) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	select {
	case <-a.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("animation did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, DefaultSteps, seen)

	last, ok := a.Current()
	require.True(t, ok)
	assert.Equal(t, 100, last.Percent)
}

func TestAnimatorCurrentBeforeFirstTick(t *testing.T) {
	a := Start(nil, time.Hour, nil)
	defer func() {
		a.Stop()
		<-a.Done()
	}()

	_, ok := a.Current()
	assert.False(t, ok)
}

func TestAnimatorStop(t *testing.T) {
	a := Start([]Step{{Percent: 50, Label: "meio"}}, time.Hour, nil)
	a.Stop()
	a.Stop()

	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatal("stop did not end the animation")
	}
}
