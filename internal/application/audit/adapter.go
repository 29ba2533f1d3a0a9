package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/audittrail/audittrail/pkg/domain"
	"github.com/audittrail/audittrail/pkg/ports"
	"go.uber.org/zap"
)

const answerSystemPrompt = `You are a careful expert assistant.
Answer the user's question directly and concisely. State assumptions
explicitly. Do not pad the answer with disclaimers; a separate audit pass
handles risk assessment.`

const auditSystemPrompt = `You are AuditTrail, an advanced AI Security & Logic Auditor.
You use generative self-reflection to calculate confidence scores.

STRICT SCORING RULES:
1. [90-100] SAFE: The answer is deterministic, standard, and well supported.
2. [70-80]  MINOR ISSUES: The answer is plausible but imprecise or incomplete.
3. [< 50]   CRITICAL RISK: Security flaws, dangerous advice, or factual errors are likely.
4. [< 40]   AMBIGUITY: The question is underspecified or the answer is non-deterministic.
5. [< 20]   MALICIOUS OR PARADOXICAL: The question implies sabotage or an unsolvable logic trap.

If the answer's correctness cannot be verified, your confidence MUST be low.

Return strictly valid JSON with keys:
confidence_percentage, what_might_be_wrong, uncertainty_areas,
risk_if_incorrect, alternative_interpretation.`

// ProviderAdapter wraps one LLM backend behind the two-call audit
// contract: an answer call followed by an audit-of-answer call.
type ProviderAdapter struct {
	client      ports.LLMClient
	temperature float64
	maxTokens   int
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewProviderAdapter creates an adapter around an LLM client
func NewProviderAdapter(
	client ports.LLMClient,
	temperature float64,
	maxTokens int,
	callTimeout time.Duration,
	logger *zap.Logger,
) *ProviderAdapter {
	return &ProviderAdapter{
		client:      client,
		temperature: temperature,
		maxTokens:   maxTokens,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// Name returns the provider name of the wrapped client
func (a *ProviderAdapter) Name() string {
	return a.client.Name()
}

// Evaluate performs the answer call and the audit call sequentially.
// Failures never propagate as errors; they are recorded on the result
// with a kind from the error taxonomy. Each remote call gets its own
// bounded timeout; a timeout counts as an upstream error.
func (a *ProviderAdapter) Evaluate(ctx context.Context, question string) domain.ProviderResult {
	start := time.Now()
	result := domain.ProviderResult{
		Provider: a.client.Name(),
		Model:    a.client.Model(),
	}

	answer, err := a.complete(ctx, ports.ChatRequest{
		System:      answerSystemPrompt,
		Prompt:      question,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		return a.fail(result, domain.ErrKindUpstream, fmt.Errorf("answer call: %w", err), start)
	}
	result.Answer = answer

	auditPrompt := fmt.Sprintf("QUESTION:\n%s\n\nANSWER UNDER AUDIT:\n%s", question, answer)
	reply, err := a.complete(ctx, ports.ChatRequest{
		System:      auditSystemPrompt,
		Prompt:      auditPrompt,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
		ForceJSON:   true,
	})
	if err != nil {
		return a.fail(result, domain.ErrKindUpstream, fmt.Errorf("audit call: %w", err), start)
	}

	verdict, err := ParseVerdict(reply)
	if err != nil {
		return a.fail(result, domain.ErrKindMalformedResponse, err, start)
	}

	result.Verdict = verdict
	result.Success = true
	result.Latency = time.Since(start)

	a.logger.Debug("provider evaluation complete",
		zap.String("provider", result.Provider),
		zap.Float64("confidence", verdict.Confidence),
		zap.Duration("latency", result.Latency))

	return result
}

func (a *ProviderAdapter) complete(ctx context.Context, req ports.ChatRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	return a.client.Complete(callCtx, req)
}

func (a *ProviderAdapter) fail(
	result domain.ProviderResult,
	kind domain.ProviderErrorKind,
	err error,
	start time.Time,
) domain.ProviderResult {
	result.Success = false
	result.ErrorKind = kind
	result.Error = err.Error()
	result.Latency = time.Since(start)

	a.logger.Warn("provider evaluation failed",
		zap.String("provider", result.Provider),
		zap.String("kind", string(kind)),
		zap.Error(err))

	return result
}
