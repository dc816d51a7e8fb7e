// Package admission sizes prompts against the resolved model's real context
// window instead of a fixed global cap.
package admission

import (
	"fmt"
	"math"

	"model_gateway/internal/models"
)

// DefaultInputShare is the fraction of a model's context window reserved for
// input; the remainder is the output budget.
const DefaultInputShare = 0.8

// Controller computes token budgets and admits or rejects prompt estimates.
// It never truncates: shortening an over-budget prompt is the caller's call.
type Controller struct {
	inputShare float64
}

// NewController creates a controller with the given input share. Shares
// outside (0, 1) fall back to DefaultInputShare.
func NewController(inputShare float64) *Controller {
	if inputShare <= 0 || inputShare >= 1 {
		inputShare = DefaultInputShare
	}
	return &Controller{inputShare: inputShare}
}

// Budgets returns the input/output token split for a context window:
// inputBudget = floor(share * window), outputBudget = the remainder.
func (c *Controller) Budgets(contextWindow int) (inputBudget, outputBudget int) {
	inputBudget = int(math.Floor(c.inputShare * float64(contextWindow)))
	outputBudget = contextWindow - inputBudget
	return inputBudget, outputBudget
}

// Admit decides whether an estimated input size fits the model. A zero
// estimate is always admitted.
func (c *Controller) Admit(desc models.ModelDescriptor, estimatedInputTokens int) models.AdmissionVerdict {
	inputBudget, outputBudget := c.Budgets(desc.ContextWindow)

	verdict := models.AdmissionVerdict{
		InputBudget:     inputBudget,
		OutputBudget:    outputBudget,
		EstimatedTokens: estimatedInputTokens,
	}

	if estimatedInputTokens <= inputBudget {
		verdict.Admitted = true
		return verdict
	}

	verdict.Reason = fmt.Sprintf(
		"input exceeds model capacity: estimated %d tokens, %s allows %d input tokens (context window %d)",
		estimatedInputTokens, desc.CanonicalID, inputBudget, desc.ContextWindow,
	)
	return verdict
}

// EstimateTokens gives a rough token count for raw text, assuming ~4
// characters per token. Callers with a real tokenizer should pass their own
// estimate instead.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
