package acceptance

import (
	"context"
	"time"
)

// CaseStatus classifies one suite verdict.
type CaseStatus string

// Suite verdicts.
const (
	StatusPass CaseStatus = "pass"
	StatusSkip CaseStatus = "skip"
	StatusFail CaseStatus = "fail"
)

// CaseResult is the outcome of verifying one test case.
type CaseResult struct {
	Case     TestCase
	Status   CaseStatus
	Err      error
	Duration time.Duration
}

// VerifySuite discovers every fixture under dir and verifies each in order.
// Per-case failures land in the results, not the returned error; only
// discovery failures abort the suite.
func (o *Oracle[J, P]) VerifySuite(ctx context.Context, dir string) ([]CaseResult, error) {
	cases, err := DiscoverTestCases(dir)
	if err != nil {
		return nil, err
	}
	results := make([]CaseResult, 0, len(cases))
	for _, tc := range cases {
		start := time.Now()
		res := CaseResult{Case: tc, Status: StatusPass}
		if reason, ok := o.SkipReason(tc); ok {
			tc.SkipReason = reason
			res.Case = tc
			res.Status = StatusSkip
		} else if err := o.Verify(ctx, tc); err != nil {
			res.Status = StatusFail
			res.Err = err
		}
		res.Duration = time.Since(start)
		results = append(results, res)
	}
	return results, nil
}
