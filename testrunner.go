package orbit

import (
	"encoding/json"
	"fmt"
	"time"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Offset float64 `json:"offset,omitempty"`
	Index  int     `json:"index,omitempty"`
	Mode   string  `json:"mode,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"tap": true, "press": true, "move": true, "release": true, "drag": true,
	"scroll": true, "tab": true, "mode": true, "overlay": true, "wait": true,
	"mark": true,
}

// TestRunner sequences injected input across frames for scripted
// interaction tests. Attach to a Session via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	marks     []string
}

// LoadTestScript parses a JSON test script such as
//
//	{"steps": [
//	  {"action": "scroll", "offset": 850},
//	  {"action": "tap", "x": 200, "y": 200},
//	  {"action": "wait", "frames": 3},
//	  {"action": "mode", "mode": "explore"},
//	  {"action": "drag", "fromX": 100, "fromY": 100, "toX": 160, "toY": 100, "frames": 6}
//	]}
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "mode" {
			if _, ok := ParseMode(st.Mode); !ok {
				return nil, fmt.Errorf("parse test script: step %d: unknown mode %q", i, st.Mode)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the session. Its step method runs
// at the start of every Update.
func (s *Session) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Marks returns the labels of executed "mark" steps, in order.
func (r *TestRunner) Marks() []string {
	return r.marks
}

// step advances the test runner by one frame.
func (r *TestRunner) step(s *Session, now time.Time) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "mark":
		r.marks = append(r.marks, st.Label)
	case "tap":
		s.InjectTap(st.X, st.Y)
	case "press":
		s.InjectPress(st.X, st.Y)
	case "move":
		s.InjectMove(st.X, st.Y)
	case "release":
		s.InjectRelease(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "scroll":
		s.Scroll(st.Offset, now)
	case "tab":
		s.SelectSection(st.Index, now)
	case "mode":
		m, _ := ParseMode(st.Mode)
		s.SetMode(m, now)
	case "overlay":
		s.ToggleOverlay(now)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
