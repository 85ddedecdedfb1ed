package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseHolder_SetGet(t *testing.T) {
	h := &PhaseHolder{}
	assert.Equal(t, Stage{}, h.Get())

	h.Set(PhaseSetup)
	assert.Equal(t, Stage{Phase: PhaseSetup}, h.Get())

	h.Enter("create_memory")
	assert.Equal(t, Stage{Phase: PhaseScenario, Scenario: "create_memory"}, h.Get())

	h.Set(PhaseTeardown)
	assert.Equal(t, Stage{Phase: PhaseTeardown}, h.Get(), "scenario name cleared on phase switch")
}

func TestPhaseHolder_OnChange(t *testing.T) {
	h := &PhaseHolder{}

	var captured [][2]Stage
	h.OnChange(func(old, cur Stage) {
		captured = append(captured, [2]Stage{old, cur})
	})

	h.Set(PhaseSetup)
	h.Set(PhaseSetup) // same stage, no callback
	h.Enter("homepage_loads")
	h.Enter("navigation_bar")

	assert.Len(t, captured, 3)
	assert.Equal(t, Stage{}, captured[0][0])
	assert.Equal(t, Stage{Phase: PhaseSetup}, captured[0][1])
	assert.Equal(t, "homepage_loads", captured[1][1].Scenario)
	assert.Equal(t, "homepage_loads", captured[2][0].Scenario)
	assert.Equal(t, "navigation_bar", captured[2][1].Scenario)
}

func TestPhaseHolder_Concurrent(t *testing.T) {
	h := &PhaseHolder{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Enter("scenario")
			_ = h.Get()
		}()
	}
	wg.Wait()
	assert.Equal(t, "scenario", h.Get().Scenario)
}

func TestOutcome_Symbol(t *testing.T) {
	assert.Equal(t, "PASS", Passed.Symbol())
	assert.Equal(t, "FAIL", Failed.Symbol())
	assert.Equal(t, "SKIP", Skipped.Symbol())
	assert.Equal(t, "????", Outcome("weird").Symbol())
}
