package job

import (
	"github.com/google/uuid"

	"github.com/katalvlaran/subalg/closure"
	"github.com/katalvlaran/subalg/progress"
)

// Output is the JSON form of a closure result.
type Output struct {
	RunID           string            `json:"run_id"`
	Algebra         string            `json:"algebra,omitempty"`
	Status          string            `json:"status"`
	Converged       bool              `json:"converged"`
	Size            int               `json:"size"`
	Elements        [][]int           `json:"elements,omitempty"`
	Terms           map[string]string `json:"terms,omitempty"`
	FailingEquation string            `json:"failing_equation,omitempty"`
	FoundOperations map[string]string `json:"found_operations,omitempty"`
	TargetFound     bool              `json:"target_found"`
	Stats           progress.Stats    `json:"stats"`
	Elapsed         string            `json:"elapsed"`
}

// Report summarises res under a fresh run id.
func Report(res *closure.Result) Output {
	out := Output{
		RunID:           uuid.NewString(),
		Status:          res.Status.String(),
		Converged:       res.Converged(),
		Size:            res.Len(),
		Elements:        make([][]int, len(res.Elements)),
		FailingEquation: res.EquationString(),
		TargetFound:     res.Found,
		Stats:           res.Stats,
		Elapsed:         progress.FormatElapsed(res.Stats.Elapsed),
	}
	for i, e := range res.Elements {
		out.Elements[i] = e.Values()
	}
	if res.Terms != nil {
		out.Terms = make(map[string]string, len(res.Elements))
		for _, e := range res.Elements {
			if s := res.TermString(e); s != "" {
				out.Terms[e.String()] = s
			}
		}
	}
	if len(res.FoundOperations) > 0 {
		out.FoundOperations = make(map[string]string, len(res.FoundOperations))
		for name := range res.FoundOperations {
			out.FoundOperations[name] = res.OperationString(name)
		}
	}

	return out
}

// Report summarises res under the job's run id.
func (j *Job) Report(res *closure.Result) Output {
	out := Report(res)
	out.RunID = j.ID
	out.Algebra = j.alg.Name()

	return out
}
