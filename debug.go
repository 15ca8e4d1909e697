package arbor

import "time"

// debugStats holds per-frame timings. Only logged when debug mode is on.
type debugStats struct {
	inputTime      time.Duration
	renderTime     time.Duration
	enterFrameTime time.Duration
	painted        int
}

// debugLog writes the frame's timings at debug level.
func (s *Stage) debugLog(stats debugStats) {
	total := stats.inputTime + stats.renderTime + stats.enterFrameTime
	s.logger.Debug("arbor: frame",
		"frame", s.frame.Load(),
		"input", stats.inputTime,
		"render", stats.renderTime,
		"enterFrame", stats.enterFrameTime,
		"total", total,
		"painted", stats.painted,
	)
	if budget := time.Duration(float64(time.Second) / s.FPS()); total > budget {
		s.logger.Warn("arbor: frame over budget", "frame", s.frame.Load(), "total", total, "budget", budget)
	}
}

// debugMaxTreeDepth is the depth above which attaching an object warns.
const debugMaxTreeDepth = 32

func (s *Stage) debugCheckTreeDepth(o *DisplayObject) {
	depth := 0
	for p := o; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		s.logger.Warn("arbor: deep display list",
			"depth", depth, "threshold", debugMaxTreeDepth, "object", o.name)
	}
}

// debugMaxChildCount is the child count above which attaching warns.
const debugMaxChildCount = 1000

func (s *Stage) debugCheckChildCount(o *DisplayObject) {
	if len(o.children) > debugMaxChildCount {
		s.logger.Warn("arbor: wide container",
			"object", o.name, "children", len(o.children), "threshold", debugMaxChildCount)
	}
}
