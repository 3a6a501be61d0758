// Package cvparse turns the plain text of a resume into a structured
// employee record using the Anthropic Messages API.
package cvparse

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/skillsys/hrassist/pkg/hr"
	"github.com/skillsys/hrassist/pkg/llm"
	"github.com/skillsys/hrassist/pkg/logger"
	"github.com/skillsys/hrassist/pkg/telemetry"
)

// ToolName is the tool the model is made to call with the parsed record
const ToolName = "record_cv"

var (
	// ErrEmptyInput is returned for blank CV text
	ErrEmptyInput = errors.New("cv text is required")
	// ErrUnparseable is returned when the model answer holds no usable record
	ErrUnparseable = errors.New("could not parse model response")

	fencedJSON = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
)

// MessagesAPI is the subset of the Anthropic client the parser calls
type MessagesAPI interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// ReferenceSource provides the standardised names skills are matched to
type ReferenceSource interface {
	ReferenceData(ctx context.Context) (*hr.ReferenceData, error)
}

// Config tunes the parse request
type Config struct {
	Model       string
	MaxTokens   int
	Temperature float64
	// MaxInput is the number of runes of CV text sent to the model
	MaxInput int
}

// Parser extracts structured records from CV text
type Parser struct {
	messages  MessagesAPI
	reference ReferenceSource
	config    Config
}

// NewParser creates a parser
func NewParser(messages MessagesAPI, reference ReferenceSource, cfg Config) *Parser {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.MaxInput <= 0 {
		cfg.MaxInput = 80000
	}
	return &Parser{messages: messages, reference: reference, config: cfg}
}

// Parse extracts a Result from text
func (p *Parser) Parse(ctx context.Context, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	text = truncateRunes(text, p.config.MaxInput)

	var result *Result
	err := telemetry.WithSpan(ctx, "cv.parse", func(ctx context.Context) error {
		ref, err := p.reference.ReferenceData(ctx)
		if err != nil {
			return err
		}

		resp, err := p.messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(p.config.Model),
			MaxTokens:   int64(p.config.MaxTokens),
			Temperature: anthropic.Float(p.config.Temperature),
			System:      []anthropic.TextBlockParam{{Text: SystemPrompt(ref)}},
			Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(text))},
			Tools:       []anthropic.ToolUnionParam{llm.Tool(ToolName, "Record the details extracted from the resume", llm.GenerateSchema[Result]())},
			ToolChoice:  llm.ForceTool(ToolName),
		})
		if err != nil {
			return errors.Wrap(err, "cv parse request failed")
		}

		telemetry.SetAttributes(ctx,
			attribute.Int64("llm.input_tokens", resp.Usage.InputTokens),
			attribute.Int64("llm.output_tokens", resp.Usage.OutputTokens))

		result, err = decodeResponse(resp)
		return err
	}, attribute.Int("cv.length", len(text)))
	if err != nil {
		return nil, err
	}

	logger.G(ctx).WithField("technical_skills", len(result.TechnicalSkills)).Debug("parsed cv")
	return result, nil
}

func decodeResponse(resp *anthropic.Message) (*Result, error) {
	var raw map[string]any

	if input, ok := llm.ToolInput(resp, ToolName); ok {
		if err := json.Unmarshal(input, &raw); err != nil {
			return nil, errors.Wrap(ErrUnparseable, err.Error())
		}
	} else {
		text := strings.TrimSpace(llm.Text(resp))
		if match := fencedJSON.FindStringSubmatch(text); match != nil {
			text = strings.TrimSpace(match[1])
		}
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, errors.Wrap(ErrUnparseable, err.Error())
		}
	}

	return decodeRecord(raw)
}

// decodeRecord maps loosely typed model output onto Result; numbers given
// as strings and years given as numbers are both accepted.
func decodeRecord(raw map[string]any) (*Result, error) {
	var result Result
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &result,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(ErrUnparseable, err.Error())
	}
	return &result, nil
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
