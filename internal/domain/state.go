package domain

import (
	m "testtree.dev/pkg/testtree/internal/model"
)

// DefaultState returns the baseline state of a node with the given skip flag.
func DefaultState(skipped bool) m.NodeState {
	if skipped {
		return m.NodeState{Current: m.CurrentSkipped, Previous: m.PreviousSkipped}
	}

	return m.NodeState{Current: m.CurrentPending, Previous: m.PreviousPending}
}

// ParentState derives a container's state from its children.
func ParentState(children []m.NodeState) m.NodeState {
	return m.NodeState{
		Current:  ParentCurrent(children),
		Previous: ParentPrevious(children),
		Autorun:  ParentAutorun(children),
	}
}

// ParentCurrent evaluates the ordered decision list over the children's current states.
//
//nolint:cyclop // The decision list is easier to audit flat.
func ParentCurrent(children []m.NodeState) m.CurrentState {
	if len(children) == 0 {
		return m.CurrentPending
	}

	var counts currentCounts
	for _, child := range children {
		counts.add(child.Current)
	}

	switch {
	case counts.skipped == len(children):
		return m.CurrentSkipped
	case counts.running > 0:
		if counts.anyFailed() {
			return m.CurrentRunningFailed
		}

		return m.CurrentRunning
	case counts.scheduled > 0:
		if counts.anyFailed() {
			return m.CurrentRunningFailed
		}

		if counts.passed > 0 {
			return m.CurrentRunning
		}

		return m.CurrentScheduled
	case counts.runningFailed > 0:
		return m.CurrentRunningFailed
	case counts.failed > 0:
		return m.CurrentFailed
	case counts.pending > 0:
		return m.CurrentPending
	case counts.selected > 0:
		return m.CurrentSelected
	default:
		return m.CurrentPassed
	}
}

// ParentPrevious evaluates the decision list over the children's previous states.
func ParentPrevious(children []m.NodeState) m.PreviousState {
	if len(children) == 0 {
		return m.PreviousPending
	}

	var skipped, failed, pending, selected int

	for _, child := range children {
		switch child.Previous {
		case m.PreviousSkipped:
			skipped++
		case m.PreviousFailed:
			failed++
		case m.PreviousPending:
			pending++
		case m.PreviousSelected:
			selected++
		case m.PreviousPassed:
		}
	}

	switch {
	case skipped == len(children):
		return m.PreviousSkipped
	case failed > 0:
		return m.PreviousFailed
	case pending > 0:
		return m.PreviousPending
	case selected > 0:
		return m.PreviousSelected
	default:
		return m.PreviousPassed
	}
}

// ParentAutorun reports whether any child is tagged for autorun.
func ParentAutorun(children []m.NodeState) bool {
	for _, child := range children {
		if child.Autorun {
			return true
		}
	}

	return false
}

// DisplayIcon maps a state to the icon a renderer should show.
// Idle nodes fall back to a faint icon keyed by the previous state.
func DisplayIcon(state m.NodeState) m.IconKind {
	switch state.Current {
	case m.CurrentScheduled:
		return m.IconScheduled
	case m.CurrentRunning:
		return m.IconRunning
	case m.CurrentRunningFailed:
		return m.IconRunningFailed
	case m.CurrentPassed:
		return autorunIcon(state.Autorun, m.IconPassed, m.IconPassedAutorun)
	case m.CurrentFailed:
		return autorunIcon(state.Autorun, m.IconFailed, m.IconFailedAutorun)
	case m.CurrentSkipped:
		return m.IconSkipped
	case m.CurrentSelected:
		return m.IconSelected
	case m.CurrentPending:
	}

	switch state.Previous {
	case m.PreviousPassed:
		return autorunIcon(state.Autorun, m.IconPassedFaint, m.IconPassedFaintAutorun)
	case m.PreviousFailed:
		return autorunIcon(state.Autorun, m.IconFailedFaint, m.IconFailedFaintAutorun)
	default:
		return autorunIcon(state.Autorun, m.IconPending, m.IconPendingAutorun)
	}
}

func autorunIcon(autorun bool, plain, tagged m.IconKind) m.IconKind {
	if autorun {
		return tagged
	}

	return plain
}

type currentCounts struct {
	pending, scheduled, running, runningFailed int
	passed, failed, skipped, selected          int
}

func (c *currentCounts) add(state m.CurrentState) {
	switch state {
	case m.CurrentPending:
		c.pending++
	case m.CurrentScheduled:
		c.scheduled++
	case m.CurrentRunning:
		c.running++
	case m.CurrentRunningFailed:
		c.runningFailed++
	case m.CurrentPassed:
		c.passed++
	case m.CurrentFailed:
		c.failed++
	case m.CurrentSkipped:
		c.skipped++
	case m.CurrentSelected:
		c.selected++
	}
}

func (c *currentCounts) anyFailed() bool {
	return c.failed > 0 || c.runningFailed > 0
}
