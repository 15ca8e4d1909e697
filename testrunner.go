package arbor

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Script actions understood by a TestRunner.
const (
	actionClick      = "click"
	actionDrag       = "drag"
	actionKey        = "key"
	actionWait       = "wait"
	actionScreenshot = "screenshot"
)

// scriptStep is one entry of a script's "steps" array. Unused coordinates
// stay zero.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Key    int     `json:"key,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

var errNoSteps = errors.New("no steps")

// TestRunner replays a JSON script against a stage, one step per frame.
// Input steps go through the stage's inject queue and the runner holds its
// place until that queue is empty, so a step never overlaps the previous
// step's events.
//
//	{"steps": [
//	  {"action": "click", "x": 20, "y": 30},
//	  {"action": "drag", "fromX": 0, "fromY": 0, "toX": 50, "toY": 0, "frames": 6},
//	  {"action": "key", "key": 32},
//	  {"action": "wait", "frames": 10},
//	  {"action": "screenshot", "label": "after-click"}
//	]}
type TestRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript decodes a script and checks every action name up front,
// so a typo fails at load time rather than mid-run.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var doc struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: %w", errNoSteps)
	}
	for i, st := range doc.Steps {
		switch st.Action {
		case actionClick, actionDrag, actionKey, actionWait, actionScreenshot:
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: doc.Steps}, nil
}

// SetTestRunner replaces the stage's runner; nil removes it. The change
// takes effect at the start of the next Tick, so listeners may call it.
func (s *Stage) SetTestRunner(r *TestRunner) {
	s.queueMu.Lock()
	s.nextRunner, s.runnerChanged = r, true
	s.queueMu.Unlock()
}

// applyPendingRunner installs the runner passed to SetTestRunner. Called
// from Tick with the frame lock held.
func (s *Stage) applyPendingRunner() {
	s.queueMu.Lock()
	if s.runnerChanged {
		s.runner, s.nextRunner, s.runnerChanged = s.nextRunner, nil, false
	}
	s.queueMu.Unlock()
}

// Done reports whether the last step has run and its input was delivered.
func (r *TestRunner) Done() bool {
	return r.done
}

// step is called once per frame, before queued input is processed.
func (r *TestRunner) step(s *Stage) {
	switch {
	case r.done, s.PendingInput() > 0:
		return
	case r.waitCount > 0:
		r.waitCount--
		return
	case r.cursor == len(r.steps):
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	r.run(s, st)

	if r.cursor == len(r.steps) && r.waitCount == 0 && s.PendingInput() == 0 {
		r.done = true
	}
}

func (r *TestRunner) run(s *Stage, st scriptStep) {
	switch st.Action {
	case actionClick:
		s.InjectClick(st.X, st.Y)
	case actionDrag:
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case actionKey:
		s.InjectKey(st.Key, 0)
	case actionScreenshot:
		s.Screenshot(st.Label)
	case actionWait:
		// The current frame is the first waited one.
		r.waitCount = max(st.Frames-1, 0)
	}
}
