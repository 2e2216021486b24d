package adapter

import (
	"context"
	"log/slog"

	m "testtree.dev/pkg/testtree/internal/model"
)

// FirstPicker resolves ambiguity by taking the first candidate. It is used
// when there is nobody to ask.
type FirstPicker struct{}

// NewFirstPicker creates a FirstPicker.
func NewFirstPicker() *FirstPicker {
	return &FirstPicker{}
}

// Pick implements Picker.
func (FirstPicker) Pick(ctx context.Context, candidates []m.Candidate) (m.NodeRef, bool) {
	if len(candidates) == 0 || ctx.Err() != nil {
		return m.NodeRef{}, false
	}

	if len(candidates) > 1 {
		slog.Debug("several candidates, picking the first", "candidates", len(candidates), "picked", candidates[0].Label)
	}

	return candidates[0].Ref, true
}

// FuncPicker adapts a function to Picker.
type FuncPicker func(ctx context.Context, candidates []m.Candidate) (m.NodeRef, bool)

// Pick implements Picker.
func (f FuncPicker) Pick(ctx context.Context, candidates []m.Candidate) (m.NodeRef, bool) {
	return f(ctx, candidates)
}
