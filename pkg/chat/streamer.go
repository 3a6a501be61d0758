package chat

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/pkg/errors"
)

// Streamer runs one model turn, calling onText for every text delta, and
// returns the assembled message
type Streamer interface {
	Stream(ctx context.Context, params anthropic.MessageNewParams, onText func(string) error) (*anthropic.Message, error)
}

// AnthropicStreamer streams turns from the Messages API
type AnthropicStreamer struct {
	client anthropic.Client
}

// NewAnthropicStreamer wraps an Anthropic client
func NewAnthropicStreamer(client anthropic.Client) *AnthropicStreamer {
	return &AnthropicStreamer{client: client}
}

// Stream implements Streamer
func (s *AnthropicStreamer) Stream(ctx context.Context, params anthropic.MessageNewParams, onText func(string) error) (*anthropic.Message, error) {
	stream := s.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	msg := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := msg.Accumulate(event); err != nil {
			return nil, errors.Wrap(err, "failed to accumulate stream event")
		}

		variant, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		if delta, ok := variant.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
			if err := onText(delta.Text); err != nil {
				return nil, err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}

	return &msg, nil
}
