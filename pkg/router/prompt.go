package router

import (
	"fmt"
	"strings"

	"github.com/relaymesh/relay/pkg/registry"
)

// maxExamplesPerSkill caps how many skill examples are embedded in the
// routing prompt per skill.
const maxExamplesPerSkill = 3

// buildPrompt composes the agent-selection prompt from the snapshot and the
// user query. The model is asked for exactly one agent name out of the
// discovered candidate set.
func buildPrompt(snap *registry.Snapshot, query string) string {
	var b strings.Builder

	b.WriteString("You are an agent orchestrator. Analyze the user query and select the ")
	b.WriteString("MOST APPROPRIATE agent to handle it.\n\n")
	b.WriteString(agentsContext(snap))
	fmt.Fprintf(&b, "\nUser Query: %q\n\n", query)
	b.WriteString("Rules:\n")
	b.WriteString("1. Choose the agent whose skills BEST match the user's request\n")
	fmt.Fprintf(&b, "2. Respond with ONLY the agent name, one of: %s\n", strings.Join(snap.Names(), ", "))
	b.WriteString("3. If no agent is perfect, choose the closest match\n\n")
	b.WriteString("Agent to use:")

	return b.String()
}

// agentsContext formats every discovered card for the prompt.
func agentsContext(snap *registry.Snapshot) string {
	var b strings.Builder

	b.WriteString("Available agents:\n")
	for _, name := range snap.Names() {
		card, ok := snap.Card(name)
		if !ok {
			continue
		}

		fmt.Fprintf(&b, "\n- %s: %s\n", name, card.Description)
		for _, skill := range card.Skills {
			fmt.Fprintf(&b, "  * %s: %s\n", skill.Name, skill.Description)
			if len(skill.Tags) > 0 {
				fmt.Fprintf(&b, "    Tags: %s\n", strings.Join(skill.Tags, ", "))
			}
			if len(skill.Examples) > 0 {
				examples := skill.Examples
				if len(examples) > maxExamplesPerSkill {
					examples = examples[:maxExamplesPerSkill]
				}
				fmt.Fprintf(&b, "    Examples: %s\n", strings.Join(examples, "; "))
			}
		}
	}

	return b.String()
}
