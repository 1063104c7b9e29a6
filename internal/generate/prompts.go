// internal/generate/prompts.go
package generate

import (
	"fmt"
	"strings"
)

const questionSystemPrompt = "You generate questions using ONLY the provided document. Do not invent facts not present in the document."

const answerSystemPrompt = "Answer using ONLY the given document."

const fewShotBlock = `
FEW-SHOT EXAMPLES (for reference - do NOT copy these; generate questions specific to the document):

Example document excerpt: "In 2024, Company A acquired Company B for $2M. In 2025, Company A also acquired Company C for $3M. The CEO stated the acquisitions were to expand market share. Company B had 50 employees while Company C had 120 employees. Analysts noted that Company A's stock price dropped 10% after the second acquisition."

  Good (aggregation): What is the total acquisition expenditure and combined employee count that Company A absorbed through both deals? (aggregation)
  Good (causal): How might the CEO's stated goal of expanding market share relate to the analysts' observation about the stock price decline after the second acquisition? (causal)
  Good (multi-hop): Considering that Company C had more than twice the employees of Company B but cost only 50% more, what does the per-employee acquisition cost suggest about the relative value of the two companies? (multi_hop)
  Good (synthesis): Drawing from the acquisition timeline, costs, workforce sizes, and market reaction, what overall pattern emerges about Company A's growth strategy and its reception? (synthesis)
  Good (evaluation): Based on the stock price decline and the CEO's stated rationale, how well does the evidence in the document support the claim that the acquisitions were strategically sound? (evaluation)
  Good (counterfactual): If Company A had not proceeded with the second acquisition of Company C, how would the total expenditure and workforce integration challenge have differed based on the information provided? (counterfactual)
  Good (comparison): In what ways do the two acquisitions differ in terms of cost, timing, scale (employees), and apparent market reaction? (comparison)
  Good (temporal): What is the chronological relationship between the two acquisitions and the stock price movement, and what does the sequence suggest? (temporal)

  Bad: What is Company A? (too simple - just locating a name)
  Bad: How much did Company B cost? (too simple - answer is a single number from one sentence)
  Bad: What will Company A acquire next? (speculative, not in the document)
  Bad: What is an acquisition? (asks for general knowledge, not document-specific)
`

// questionPrompt builds the generation prompt for one batch of
// questions.
func questionPrompt(text string, numQuestions int, complexity string, explicitTypes []string) string {
	if complexity == "basic" {
		return basicQuestionPrompt(text, numQuestions)
	}

	types := resolveTypes(complexity, explicitTypes)
	var typeLines []string
	for i, t := range types {
		typeLines = append(typeLines, fmt.Sprintf("  %d. **%s**: %s\n     Example pattern: %q", i+1, t.Label, t.Instruction, t.Example))
	}

	var distribution string
	if numQuestions <= len(types) {
		distribution = fmt.Sprintf("Generate exactly %d questions. Each question should use a DIFFERENT type from the list above.", numQuestions)
	} else {
		distribution = fmt.Sprintf("Generate exactly %d questions. Distribute them across the types above - try to cover as many types as possible. Do NOT generate multiple questions of the same type unless you have covered all types.", numQuestions)
	}

	return fmt.Sprintf(`You are an expert analyst creating COMPLEX questions strictly based on the document provided below.
Do not use outside knowledge, and do not invent any facts, names, numbers, or events that are not present in the document.

YOUR GOAL: Generate questions that require DEEP REASONING - not simple fact lookup.
Every question should require the reader to combine, analyze, compare, or reason across MULTIPLE pieces of information in the document.
A good question CANNOT be answered by copying a single sentence from the document.

QUESTION TYPES (use a diverse mix of these):
%s
%s
COMPLEXITY REQUIREMENTS (STRICTLY FOLLOW):
1. Every question MUST require reasoning across at least 2 different parts of the document.
2. NEVER ask a question whose answer is a single fact found in one sentence (e.g. "What is X?" or "When did Y happen?").
3. Prefer questions that ask "how", "why", "what does X imply about Y", "how does X relate to Y", or "what overall pattern emerges".
4. For aggregation questions: require counting or combining information scattered across MULTIPLE paragraphs or sections.
5. For multi-hop questions: require connecting two or more separate facts to derive an answer that is NOT explicitly stated.
6. For causal questions: ask about cause-and-effect CHAINS, not just a single cause-effect pair.
7. For synthesis questions: require integrating 3+ separate facts into a coherent analysis.
8. For evaluation questions: ask whether the evidence in the document supports or contradicts a claim.
9. For counterfactual questions: ask what would change if a specific stated condition were different.

Document:
%s

%s
Output one question per line, without numbering or bullet points.
After each question, add a tag in parentheses indicating its type, e.g. (analysis), (aggregation), (causal), (synthesis), (evaluation), (counterfactual).`,
		strings.Join(typeLines, "\n"), fewShotBlock, text, distribution)
}

func basicQuestionPrompt(text string, numQuestions int) string {
	return fmt.Sprintf(`You are creating questions strictly based on the document provided below.
Do not use outside knowledge, and do not invent any facts, names, numbers, or events that are not present in the document.

Based on the following document, generate %d questions that test understanding of the content.

Document:
%s

Generate exactly %d questions, one per line, without numbering or bullet points.`, numQuestions, text, numQuestions)
}

// questionRegenPrompt asks for a replacement after a candidate was
// rejected by grounding validation.
func questionRegenPrompt(text, rejected string) string {
	return fmt.Sprintf(`Document:
%s

Previous Question (REJECTED):
%s

Generate a NEW question grounded ONLY in the document. Provide only the question.`, text, rejected)
}

// answerPrompt asks for a structured answer with supporting evidence.
func answerPrompt(question, text string) string {
	return fmt.Sprintf(`Document:
%s

Question: %s

Instructions:
1. Answer using ONLY information found in the document above.
2. If the answer requires counting or aggregating, list the items first, then state the total.
3. After your answer, provide a "Supporting evidence" section quoting the key phrases from the document that support your answer.
4. If the document does not contain sufficient information, say "Insufficient information in the document."

Format your response as:
Answer: [your answer]
Supporting evidence: [relevant quotes from document]`, text, question)
}

// answerRegenPrompt asks for a replacement after an answer failed
// grounding verification.
func answerRegenPrompt(text, question, rejected string) string {
	return fmt.Sprintf(`Document:
%s

Question: %s

Previous Answer (REJECTED):
%s

Generate a NEW answer using ONLY the document. Provide only the answer.`, text, question, rejected)
}
