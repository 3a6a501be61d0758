package chat

import (
	"fmt"
	"strings"

	"github.com/skillsys/hrassist/pkg/skills"
)

const defaultSystemPrompt = `You are an HR assistant. You help people find employees and build project teams.
Answer from the employee directory and the skills below; call the tools instead of guessing.
Keep answers short and list candidates with their relevant skills and years of experience.`

// SystemPrompt appends the available skills to base
func SystemPrompt(base string, available []skills.Metadata) string {
	if strings.TrimSpace(base) == "" {
		base = defaultSystemPrompt
	}

	var b strings.Builder
	for _, s := range available {
		if !s.UserInvocable {
			continue
		}
		fmt.Fprintf(&b, "- %s", s.Name)
		if s.Description != "" {
			fmt.Fprintf(&b, ": %s", s.Description)
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return base
	}
	return base + "\n\nAvailable skills (read one with read_skill before following it):\n" + strings.TrimRight(b.String(), "\n")
}
