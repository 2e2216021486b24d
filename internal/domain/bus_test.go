package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeBus_PublishInOrder(t *testing.T) {
	bus := NewChangeBus()

	var calls []string

	bus.Subscribe(func(e Event) { calls = append(calls, "first:"+EventName(e)) })
	unsubscribe := bus.Subscribe(func(e Event) { calls = append(calls, "second:"+EventName(e)) })
	bus.Subscribe(func(e Event) { calls = append(calls, "third:"+EventName(e)) })

	assert.Equal(t, 3, bus.Len())

	bus.Publish(MessageEvent{Text: "hi"})
	assert.Equal(t, []string{"first:message", "second:message", "third:message"}, calls)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 2, bus.Len())

	calls = nil
	bus.Publish(BusyChangedEvent{Running: true})
	assert.Equal(t, []string{"first:busy-changed", "third:busy-changed"}, calls)
}

func TestChangeBus_SubscribeDuringPublish(t *testing.T) {
	bus := NewChangeBus()
	late := 0

	bus.Subscribe(func(Event) {
		bus.Subscribe(func(Event) { late++ })
	})

	bus.Publish(TreeChangedEvent{})
	assert.Equal(t, 0, late, "subscribers added while publishing miss the event")

	bus.Publish(TreeChangedEvent{})
	assert.Equal(t, 1, late)
}

func TestEventName(t *testing.T) {
	events := map[string]Event{
		"tree-changed":            TreeChangedEvent{},
		"code-lenses-changed":     CodeLensesChangedEvent{},
		"decorations-changed":     DecorationsChangedEvent{},
		"busy-changed":            BusyChangedEvent{},
		"message":                 MessageEvent{},
		"config-changed":          ConfigChangedEvent{},
		"collection-loaded":       CollectionLoadedEvent{},
		"collection-run-finished": CollectionRunFinishedEvent{},
	}

	for want, e := range events {
		assert.Equal(t, want, EventName(e))
	}
}

func TestConfigChangedEvent_Affects(t *testing.T) {
	tests := []struct {
		name      string
		event     ConfigChangedEvent
		workspace string
		key       string
		want      bool
	}{
		{"every workspace every key", ConfigChangedEvent{}, "api", "code_lens", true},
		{"matching key", ConfigChangedEvent{Keys: []string{"code_lens"}}, "api", "code_lens", true},
		{"other key", ConfigChangedEvent{Keys: []string{"on_start"}}, "api", "code_lens", false},
		{"matching workspace", ConfigChangedEvent{Workspace: "api"}, "api", "on_start", true},
		{"other workspace", ConfigChangedEvent{Workspace: "web", Keys: []string{"code_lens"}}, "api", "code_lens", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Affects(tt.workspace, tt.key))
		})
	}
}
