// Package progress drives the visual progress bar shown while an analysis
// is pending. It runs on its own timer and knows nothing about the request.
package progress

import (
	"sync"
	"time"
)

// DefaultInterval is the time between two steps.
const DefaultInterval = 1500 * time.Millisecond

type Step struct {
	Percent int    `json:"percent"`
	Label   string `json:"label"`
}

// DefaultSteps are shown one per tick, in order.
var DefaultSteps = []Step{
	{Percent: 10, Label: "Analisando nicho de mercado..."},
	{Percent: 25, Label: "Pesquisando concorrência..."},
	{Percent: 40, Label: "Identificando avatar ideal..."},
	{Percent: 60, Label: "Gerando estratégias de posicionamento..."},
	{Percent: 80, Label: "Criando materiais de marketing..."},
	{Percent: 95, Label: "Finalizando análise..."},
	{Percent: 100, Label: "Análise concluída!"},
}

// Animator advances through steps on a fixed ticker until it runs out of
// steps or is stopped.
type Animator struct {
	steps    []Step
	interval time.Duration
	onStep   func(Step)

	mu      sync.Mutex
	current int

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Start launches the animation. onStep, if set, is called from the
// animator's goroutine after every step.
func Start(steps []Step, interval time.Duration, onStep func(Step)) *Animator {
	if len(steps) == 0 {
		steps = DefaultSteps
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	a := &Animator{
		steps:    steps,
		interval: interval,
		onStep:   onStep,
		current:  -1,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Animator) run() {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			a.mu.Lock()
			if a.current+1 >= len(a.steps) {
				a.mu.Unlock()
				return
			}
			a.current++
			step := a.steps[a.current]
			a.mu.Unlock()

			if a.onStep != nil {
				a.onStep(step)
			}
		}
	}
}

// Current returns the last step shown. ok is false before the first tick.
func (a *Animator) Current() (step Step, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current < 0 {
		return Step{}, false
	}
	return a.steps[a.current], true
}

// Stop halts the animation. It does not wait for the goroutine; use Done.
func (a *Animator) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// Done is closed once the animation goroutine has exited.
func (a *Animator) Done() <-chan struct{} {
	return a.done
}
