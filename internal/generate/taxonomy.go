// Package generate drives LLM question and answer generation with
// grounding-gated regeneration.
package generate

// QuestionType describes one reasoning category questions can target.
type QuestionType struct {
	Name        string
	Label       string
	Instruction string
	Example     string
}

// questionTypes is the full taxonomy, ordered as presented in prompts.
var questionTypes = []QuestionType{
	{
		Name:        "analysis",
		Label:       "Analysis",
		Instruction: "Break down information into parts and examine relationships.",
		Example:     "What are the separate factors that contributed to [event]?",
	},
	{
		Name:        "aggregation",
		Label:       "Aggregation / Counting",
		Instruction: "Count, sum, or aggregate information scattered across different parts of the document.",
		Example:     "How many [people/events/items] are mentioned in total across the document?",
	},
	{
		Name:        "comparison",
		Label:       "Comparison",
		Instruction: "Compare or contrast two or more entities, events, or viewpoints in the document.",
		Example:     "How does [A]'s role differ from [B]'s role?",
	},
	{
		Name:        "inference",
		Label:       "Inference / Deduction",
		Instruction: "Draw conclusions or make logical inferences from facts stated in the document.",
		Example:     "Based on the information provided, what can be inferred about [topic]?",
	},
	{
		Name:        "causal",
		Label:       "Causal Reasoning",
		Instruction: "Identify cause-and-effect relationships between events or actions.",
		Example:     "What was the likely consequence of [action] on [outcome]?",
	},
	{
		Name:        "temporal",
		Label:       "Temporal / Sequence",
		Instruction: "Analyze the chronological order, timeline, or sequence of events.",
		Example:     "What is the sequence of events that led to [outcome]?",
	},
	{
		Name:        "multi_hop",
		Label:       "Multi-hop Reasoning",
		Instruction: "Connect information from multiple separate parts of the document to answer.",
		Example:     "Given that [fact A] and [fact B], what does this imply about [topic]?",
	},
	{
		Name:        "synthesis",
		Label:       "Synthesis",
		Instruction: "Combine multiple pieces of information from different parts of the document to form a comprehensive answer that no single sentence provides.",
		Example:     "Drawing from the financial data, leadership changes, and market conditions described in the document, what overall picture emerges about [entity]'s trajectory?",
	},
	{
		Name:        "evaluation",
		Label:       "Evaluation / Critical Assessment",
		Instruction: "Assess the strength, adequacy, or consistency of claims, evidence, or actions described in the document.",
		Example:     "Based on the evidence presented, how well-supported is the claim that [assertion]?",
	},
	{
		Name:        "counterfactual",
		Label:       "Counterfactual / Hypothetical",
		Instruction: "Reason about what would change if a stated fact, condition, or action were different, using only information in the document.",
		Example:     "According to the document, what would likely have been different if [condition] had not occurred?",
	},
}

// complexityPresets map a complexity level to the question types it
// draws from.
var complexityPresets = map[string][]string{
	"basic":    {"analysis"},
	"moderate": {"analysis", "comparison", "inference"},
	"advanced": {
		"analysis", "aggregation", "comparison", "inference",
		"causal", "temporal", "multi_hop",
		"synthesis", "evaluation", "counterfactual",
	},
}

func typeByName(name string) (QuestionType, bool) {
	for _, t := range questionTypes {
		if t.Name == name {
			return t, true
		}
	}
	return QuestionType{}, false
}

// resolveTypes picks the question types for a run: an explicit list
// wins (unknown names dropped), otherwise the complexity preset, with
// "advanced" as the fallback.
func resolveTypes(complexity string, explicit []string) []QuestionType {
	var names []string
	for _, n := range explicit {
		if _, ok := typeByName(n); ok {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		preset, ok := complexityPresets[complexity]
		if !ok {
			preset = complexityPresets["advanced"]
		}
		names = preset
	}

	types := make([]QuestionType, 0, len(names))
	for _, n := range names {
		t, _ := typeByName(n)
		types = append(types, t)
	}
	return types
}
