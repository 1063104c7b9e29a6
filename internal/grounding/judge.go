// internal/grounding/judge.go
package grounding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/document"
	"github.com/tohyewhong/qagredo-local/internal/logging"
)

// ErrJudgeUnreachable reports that the judge service could not be
// reached after retries. The hybrid router degrades on it instead of
// failing the check.
var ErrJudgeUnreachable = errors.New("judge service unreachable")

// Judge rules on whether an answer is fully supported by a document.
// It is deliberately a different model identity from the generator.
type Judge interface {
	Judge(ctx context.Context, documentText, question, answer string) (Verdict, error)
}

const judgePrompt = `You are a grounding verifier. Your job is to determine whether an answer is fully supported by the given document.

DOCUMENT:
%s

QUESTION:
%s

ANSWER:
%s

Instructions:
1. Check if EVERY claim in the answer is supported by the document.
2. Pay special attention to:
   - Numbers, counts, and aggregations (e.g. "3 men" - verify by counting in the document)
   - Inferences and conclusions drawn from multiple parts of the document
   - Negations and qualifiers
3. Respond with EXACTLY this JSON format (no other text):

{"verdict": "SUPPORTED" or "NOT_SUPPORTED", "confidence": 0.0 to 1.0, "reason": "brief explanation"}

If the answer correctly aggregates, counts, or infers from the document, it IS supported.
If the answer adds information not in the document, it is NOT supported.`

// OpenAIJudge calls an OpenAI-compatible chat endpoint (vLLM or the
// OpenAI API) as the judge model.
type OpenAIJudge struct {
	client      *openai.Client
	model       string
	retries     int
	retryDelay  time.Duration
	maxDocChars int
}

// NewOpenAIJudge builds a judge client from the endpoint configuration.
func NewOpenAIJudge(cfg appconfig.Endpoint, maxDocChars int) *OpenAIJudge {
	apiKey := cfg.APIKey
	if apiKey == "" || apiKey == "EMPTY" {
		apiKey = "not-required"
	}
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout()}

	return &OpenAIJudge{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		retries:     cfg.Retries(),
		retryDelay:  cfg.RetryDelay(),
		maxDocChars: maxDocChars,
	}
}

// Judge asks the judge model for a verdict on answer against
// documentText. The document is truncated to the configured bound
// before sending. Retries back off linearly; exhausting them returns
// an error wrapping ErrJudgeUnreachable.
func (j *OpenAIJudge) Judge(ctx context.Context, documentText, question, answer string) (Verdict, error) {
	docText := documentText
	if len(docText) > j.maxDocChars {
		docText = docText[:j.maxDocChars] + "\n... [document truncated] ..."
	}
	if strings.TrimSpace(question) == "" {
		question = "(no question provided)"
	}
	prompt := fmt.Sprintf(judgePrompt, docText, question, answer)

	var lastErr error
	for attempt := 0; attempt < j.retries; attempt++ {
		logging.LogModelCall("request", "judge", j.model, fmt.Sprintf("attempt %d", attempt+1))

		resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       j.model,
			Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
			Temperature: 0, // deterministic judging
			MaxTokens:   200,
		})
		if err != nil {
			lastErr = err
			if attempt < j.retries-1 {
				select {
				case <-time.After(j.retryDelay * time.Duration(attempt+1)):
				case <-ctx.Done():
					return Verdict{}, fmt.Errorf("%w: %v", ErrJudgeUnreachable, ctx.Err())
				}
			}
			continue
		}

		reply := ""
		if len(resp.Choices) > 0 {
			reply = strings.TrimSpace(resp.Choices[0].Message.Content)
		}
		logging.LogModelCall("response", "judge", j.model, reply)
		return ParseVerdict(reply), nil
	}
	return Verdict{}, fmt.Errorf("%w: %v", ErrJudgeUnreachable, lastErr)
}

var confidenceRe = regexp.MustCompile(`"confidence"\s*:\s*([\d.]+)`)

// ParseVerdict interprets the judge's reply, tolerating formatting
// drift. Strict JSON is tried first, then a lenient text scan; a reply
// neither can read becomes NOT_SUPPORTED with zero confidence.
func ParseVerdict(reply string) Verdict {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(reply), &parsed); err == nil {
		v := Verdict{Confidence: 0.5}
		if s, ok := parsed["verdict"].(string); ok {
			v.Verdict = strings.ToUpper(s)
		}
		if f, ok := parsed["confidence"].(float64); ok {
			v.Confidence = f
		}
		if s, ok := parsed["reason"].(string); ok {
			v.Reason = s
		}
		if v.Verdict == VerdictSupported || v.Verdict == VerdictNotSupported {
			return v
		}
	}

	// Lenient: scan the raw text for the verdict words.
	upper := strings.ToUpper(reply)
	v := Verdict{Reason: snippetPlain(reply, 200)}
	switch {
	case strings.Contains(upper, "NOT_SUPPORTED") || strings.Contains(upper, "NOT SUPPORTED"):
		v.Verdict = VerdictNotSupported
		v.Confidence = 0.3
	case strings.Contains(upper, "SUPPORTED"):
		v.Verdict = VerdictSupported
		v.Confidence = 0.8
	default:
		return Verdict{
			Verdict:    VerdictNotSupported,
			Confidence: 0,
			Reason:     "unparseable judge response",
		}
	}

	if m := confidenceRe.FindStringSubmatch(reply); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			v.Confidence = min(max(f, 0), 1)
		}
	}
	return v
}

// snippetPlain is snippet without the trailing ellipsis marker.
func snippetPlain(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

// checkJudge runs a judge-only check over the whole answer.
func (c *Checker) checkJudge(ctx context.Context, doc *document.Document, question, answer string) (Result, error) {
	if strings.TrimSpace(answer) == "" {
		return Result{
			Confidence: 0,
			Method:     MethodJudge,
			Issues:     []string{"answer is empty"},
		}, nil
	}

	verdict, err := c.judge.Judge(ctx, doc.Content, question, answer)
	if err != nil {
		return Result{}, err
	}

	sentences := document.SegmentSentences(answer)
	result := Result{
		Confidence:   round3(verdict.Confidence),
		Method:       MethodJudge,
		JudgeVerdict: &verdict,
	}
	if verdict.Verdict == VerdictSupported {
		result.GroundedSentences = sentences
		result.IsGrounded = verdict.Confidence >= c.minConfidence
	} else {
		result.UngroundedSentences = sentences
		result.Issues = []string{fmt.Sprintf("judge: %s", verdict.Reason)}
	}
	return result, nil
}
