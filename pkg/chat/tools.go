package chat

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"

	"github.com/skillsys/hrassist/pkg/hr"
	"github.com/skillsys/hrassist/pkg/llm"
	"github.com/skillsys/hrassist/pkg/skills"
)

// Tool is a function the assistant may call during a turn
type Tool interface {
	Name() string
	Description() string
	GenerateSchema() *jsonschema.Schema
	Execute(ctx context.Context, input json.RawMessage) (string, error)
}

// SkillSource lists and reads skills
type SkillSource interface {
	List(ctx context.Context) ([]skills.Metadata, error)
	ReadFile(ctx context.Context, name, rel string) (string, error)
}

// Directory searches the HR database
type Directory interface {
	ListSkillNames(ctx context.Context) ([]string, error)
	FindCandidates(ctx context.Context, q hr.CandidateQuery) (*hr.SearchResult, error)
}

// DefaultTools returns the skill and directory tools. Either source may be
// nil, in which case its tools are left out.
func DefaultTools(src SkillSource, dir Directory) []Tool {
	var tools []Tool
	if src != nil {
		tools = append(tools, &readSkillTool{src: src})
	}
	if dir != nil {
		tools = append(tools, &listSkillsTool{dir: dir}, &findCandidatesTool{dir: dir})
	}
	return tools
}

func toAnthropicTools(tools []Tool) []anthropic.ToolUnionParam {
	params := make([]anthropic.ToolUnionParam, len(tools))
	for i, tool := range tools {
		params[i] = llm.Tool(tool.Name(), tool.Description(), tool.GenerateSchema())
	}
	return params
}

func toJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode tool output")
	}
	return string(data), nil
}

type readSkillInput struct {
	Name string `json:"name" jsonschema:"description=Skill directory name"`
	Path string `json:"path,omitempty" jsonschema:"description=File inside the skill; defaults to SKILL.md"`
}

type readSkillTool struct {
	src SkillSource
}

func (t *readSkillTool) Name() string { return "read_skill" }

func (t *readSkillTool) Description() string {
	return "Read the instructions or a reference file of a skill"
}

func (t *readSkillTool) GenerateSchema() *jsonschema.Schema {
	return llm.GenerateSchema[readSkillInput]()
}

func (t *readSkillTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var in readSkillInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", errors.Wrap(err, "invalid input")
	}
	if in.Path == "" {
		in.Path = skills.DefaultManifestName
	}
	return t.src.ReadFile(ctx, in.Name, in.Path)
}

type listSkillsTool struct {
	dir Directory
}

func (t *listSkillsTool) Name() string { return "list_employee_skills" }

func (t *listSkillsTool) Description() string {
	return "List every technical skill held by at least one employee"
}

func (t *listSkillsTool) GenerateSchema() *jsonschema.Schema {
	return llm.GenerateSchema[struct{}]()
}

func (t *listSkillsTool) Execute(ctx context.Context, _ json.RawMessage) (string, error) {
	names, err := t.dir.ListSkillNames(ctx)
	if err != nil {
		return "", err
	}
	return toJSON(names)
}

type findCandidatesInput struct {
	Skills        []string `json:"skills,omitempty" jsonschema:"description=Skill names; an employee matches if they have any of them"`
	MinExperience *float64 `json:"min_experience,omitempty" jsonschema:"description=Minimum years of experience in a matching skill"`
	Position      string   `json:"position,omitempty" jsonschema:"description=Partial position name; used only without skills"`
	Department    string   `json:"department,omitempty" jsonschema:"description=Partial department name; used only without skills"`
	Limit         int      `json:"limit,omitempty" jsonschema:"description=Maximum number of candidates (default 20)"`
}

type findCandidatesTool struct {
	dir Directory
}

func (t *findCandidatesTool) Name() string { return "find_candidates" }

func (t *findCandidatesTool) Description() string {
	return "Find employees by skills and experience, or by position and department"
}

func (t *findCandidatesTool) GenerateSchema() *jsonschema.Schema {
	return llm.GenerateSchema[findCandidatesInput]()
}

func (t *findCandidatesTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var in findCandidatesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", errors.Wrap(err, "invalid input")
	}

	result, err := t.dir.FindCandidates(ctx, hr.CandidateQuery{
		Skills:        in.Skills,
		MinExperience: in.MinExperience,
		Position:      in.Position,
		Department:    in.Department,
		Limit:         in.Limit,
	})
	if err != nil {
		return "", err
	}
	return toJSON(result)
}
