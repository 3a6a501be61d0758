// Package chat proxies an HR assistant conversation to the Anthropic
// Messages API and streams the answer back as named events.
package chat

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/skillsys/hrassist/pkg/llm"
	"github.com/skillsys/hrassist/pkg/logger"
	"github.com/skillsys/hrassist/pkg/telemetry"
)

// Event names, in the order a turn emits them
const (
	EventSession = "session"
	EventMessage = "message"
	EventResult  = "result"
	EventError   = "error"
	EventDone    = "done"
)

const defaultMaxToolRounds = 8

// ErrEmptyMessage is returned for a blank user message
var ErrEmptyMessage = errors.New("message is required")

// Sink receives the events of a turn
type Sink interface {
	Send(event string, data any) error
}

// Request is one user message, optionally continuing a session
type Request struct {
	Message   string
	SessionID string
}

// Config tunes the model calls
type Config struct {
	Model        string
	MaxTokens    int
	SystemPrompt string
	// MaxHistory is the number of stored messages replayed into a turn
	MaxHistory    int
	MaxToolRounds int
}

// Service runs chat turns
type Service struct {
	streamer Streamer
	store    *Store
	skills   SkillSource
	tools    []Tool
	config   Config
}

// NewService creates a chat service. store and src may be nil.
func NewService(streamer Streamer, store *Store, src SkillSource, tools []Tool, cfg Config) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 8192
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = defaultMaxToolRounds
	}
	return &Service{streamer: streamer, store: store, skills: src, tools: tools, config: cfg}
}

// Stream runs one turn. It always emits session first and done last,
// unless sink itself fails. A cancelled ctx ends the turn without an
// error event.
func (s *Service) Stream(ctx context.Context, req Request, sink Sink) error {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ErrEmptyMessage
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	ctx = logger.WithFields(ctx, logrus.Fields{"session_id": sessionID})

	if err := sink.Send(EventSession, map[string]string{"sessionId": sessionID}); err != nil {
		return err
	}

	text, err := s.turn(ctx, sessionID, message, sink)
	switch {
	case err == nil:
		if sendErr := sink.Send(EventResult, map[string]string{"text": text, "sessionId": sessionID}); sendErr != nil {
			return sendErr
		}
	case ctx.Err() != nil:
		logger.G(ctx).Info("chat turn cancelled by client")
	default:
		logger.G(ctx).WithError(err).Error("chat turn failed")
		if sendErr := sink.Send(EventError, map[string]string{"error": err.Error()}); sendErr != nil {
			return sendErr
		}
	}

	return sink.Send(EventDone, struct{}{})
}

func (s *Service) turn(ctx context.Context, sessionID, message string, sink Sink) (string, error) {
	var answer string
	err := telemetry.WithSpan(ctx, "chat.turn", func(ctx context.Context) error {
		params, err := s.params(ctx, sessionID, message)
		if err != nil {
			return err
		}

		onText := func(text string) error {
			return sink.Send(EventMessage, map[string]string{"text": text})
		}

		for round := 0; ; round++ {
			if round == s.config.MaxToolRounds {
				return errors.Errorf("assistant did not finish within %d tool rounds", s.config.MaxToolRounds)
			}

			msg, err := s.streamer.Stream(ctx, params, onText)
			if err != nil {
				return errors.Wrap(err, "model request failed")
			}

			results := s.runTools(ctx, msg)
			if len(results) == 0 {
				answer = strings.TrimSpace(llm.Text(msg))
				break
			}
			params.Messages = append(params.Messages, msg.ToParam(), anthropic.NewUserMessage(results...))
		}

		s.remember(ctx, sessionID, message, answer)
		return nil
	}, attribute.String("chat.session_id", sessionID))

	return answer, err
}

func (s *Service) params(ctx context.Context, sessionID, message string) (anthropic.MessageNewParams, error) {
	var messages []anthropic.MessageParam
	if s.store != nil {
		history, err := s.store.History(ctx, sessionID, s.config.MaxHistory)
		if err != nil {
			return anthropic.MessageNewParams{}, err
		}
		for _, m := range history {
			block := anthropic.NewTextBlock(m.Content)
			if m.Role == RoleAssistant {
				messages = append(messages, anthropic.NewAssistantMessage(block))
			} else {
				messages = append(messages, anthropic.NewUserMessage(block))
			}
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(message)))

	systemPrompt := SystemPrompt(s.config.SystemPrompt, nil)
	if s.skills != nil {
		available, err := s.skills.List(ctx)
		if err != nil {
			logger.G(ctx).WithError(err).Warn("failed to list skills for system prompt")
		}
		systemPrompt = SystemPrompt(s.config.SystemPrompt, available)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.config.MaxTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:  messages,
	}
	if len(s.tools) > 0 {
		params.Tools = toAnthropicTools(s.tools)
	}
	return params, nil
}

// runTools executes the tool calls of msg. Failures are reported back to
// the model as error results.
func (s *Service) runTools(ctx context.Context, msg *anthropic.Message) []anthropic.ContentBlockParamUnion {
	var results []anthropic.ContentBlockParamUnion
	for _, block := range msg.Content {
		call, ok := block.AsAny().(anthropic.ToolUseBlock)
		if !ok {
			continue
		}

		log := logger.G(ctx).WithField("tool", call.Name)
		output, err := s.execute(ctx, call)
		if err != nil {
			log.WithError(err).Warn("tool call failed")
			results = append(results, anthropic.NewToolResultBlock(call.ID, err.Error(), true))
			continue
		}
		log.Debug("tool call succeeded")
		results = append(results, anthropic.NewToolResultBlock(call.ID, output, false))
	}
	return results
}

func (s *Service) execute(ctx context.Context, call anthropic.ToolUseBlock) (string, error) {
	for _, tool := range s.tools {
		if tool.Name() != call.Name {
			continue
		}
		var output string
		err := telemetry.WithSpan(ctx, "chat.tool", func(ctx context.Context) error {
			var err error
			output, err = tool.Execute(ctx, call.Input)
			return err
		}, attribute.String("tool.name", call.Name))
		return output, err
	}
	return "", errors.Errorf("unknown tool %q", call.Name)
}

// remember stores the exchange. A storage failure loses history but not
// the answer.
func (s *Service) remember(ctx context.Context, sessionID, message, answer string) {
	if s.store == nil {
		return
	}
	err := s.store.Append(ctx, sessionID,
		Message{Role: RoleUser, Content: message},
		Message{Role: RoleAssistant, Content: answer})
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to save chat history")
	}
}
