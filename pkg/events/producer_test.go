package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProducer_PublishEvent_MarshalError(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"})
	t.Cleanup(func() { _ = p.Close() })

	err := p.PublishEvent(context.Background(), TopicProduct, "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "json.Marshal")
}

func TestNoop_PublishEvent(t *testing.T) {
	require.NoError(t, Noop.PublishEvent(context.Background(), TopicUser, "k", map[string]any{"type": "x"}))
}
