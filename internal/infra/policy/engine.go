package policy

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"paprd/internal/domain"

	"github.com/open-policy-agent/opa/rego"
)

const defaultQuery = "data.papr.review.result"

// The eligibility rules live in rego so deployments can reason about and
// extend them without touching the flows. Facts come in as input; the
// policy never queries the store itself.
const reviewPolicy = `
package papr.review

default allow := false

deny[entry] {
	input.reviewer == input.corresponding_author
	entry := {
		"code": "SELF_REVIEW",
		"message": "the corresponding author cannot review their own article",
	}
}

deny[entry] {
	not input.recommended
	entry := {
		"code": "NOT_RECOMMENDED",
		"message": "reviewer has not been recommended for this article",
	}
}

deny[entry] {
	input.has_live_request
	entry := {
		"code": "REQUEST_EXISTS",
		"message": "a review request for this reviewer is already open",
	}
}

allow {
	count(deny) == 0
}

result := {"allow": allow, "deny": deny}
`

type Engine struct {
	query rego.PreparedEvalQuery
}

func NewEngine(ctx context.Context) (*Engine, error) {
	r := rego.New(
		rego.Query(defaultQuery),
		rego.Module("review.rego", reviewPolicy),
		rego.StrictBuiltinErrors(true),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}
	return &Engine{query: prepared}, nil
}

func (e *Engine) Evaluate(ctx context.Context, input domain.EligibilityInput) (domain.EligibilityResult, error) {
	if e == nil {
		return domain.EligibilityResult{}, errors.New("policy engine is nil")
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return domain.EligibilityResult{}, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return domain.EligibilityResult{}, errors.New("empty policy result")
	}
	result, err := decodeResult(results[0].Expressions[0].Value)
	if err != nil {
		return domain.EligibilityResult{}, err
	}
	sort.Slice(result.Deny, func(i, j int) bool {
		return result.Deny[i].Code < result.Deny[j].Code
	})
	return result, nil
}

func decodeResult(value any) (domain.EligibilityResult, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return domain.EligibilityResult{}, err
	}
	var result domain.EligibilityResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.EligibilityResult{}, err
	}
	return result, nil
}
