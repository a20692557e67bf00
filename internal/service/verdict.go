package service

import (
	"math"
	"strings"

	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/pkg/judge"
)

// determineResult classifies one judge execution into a graded verdict.
// It is total over the whole status-code range: unknown codes degrade to a
// generic error verdict instead of failing. When the judge reports success
// and both outputs are available, the outputs are compared after trimming
// surrounding whitespace; the judge is trusted only when it has nothing to
// compare against.
func determineResult(statusID int, expectedOutput, actualOutput string) string {
	switch {
	case statusID == judge.StatusAccepted:
		if expectedOutput != "" && actualOutput != "" {
			if strings.TrimSpace(actualOutput) == strings.TrimSpace(expectedOutput) {
				return models.ResultAccepted
			}
			return models.ResultWrongAnswer
		}
		return models.ResultAccepted
	case statusID == judge.StatusWrongAnswer:
		return models.ResultWrongAnswer
	case statusID == judge.StatusTimeLimitExceeded:
		return models.ResultTimeLimitExceeded
	case statusID == judge.StatusCompilationError:
		return models.ResultCompilationError
	case statusID >= judge.StatusRuntimeErrorMin && statusID <= judge.StatusRuntimeErrorMax:
		return models.ResultRuntimeError
	default:
		return models.ResultError
	}
}

// overallVerdict aggregates per-test-case verdicts into one question verdict:
// all passed means accepted, a partial pass is a wrong answer, and a total
// failure inherits the first test case's verdict so compile errors surface
// as such.
func overallVerdict(passed, total int, firstResult string) string {
	switch {
	case total > 0 && passed == total:
		return models.ResultAccepted
	case passed > 0:
		return models.ResultWrongAnswer
	case firstResult != "":
		return firstResult
	default:
		return models.ResultError
	}
}

// roundScore keeps score percentages at two decimals.
func roundScore(value float64) float64 {
	return math.Round(value*100) / 100
}
