package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/pkg/judge"
)

// TestCaseResult is the classified outcome of running one test case.
type TestCaseResult struct {
	TestCaseNumber int          `json:"test_case_number"`
	Stdin          string       `json:"stdin"`
	Expected       string       `json:"expected"`
	Stdout         string       `json:"stdout"`
	Stderr         string       `json:"stderr,omitempty"`
	CompileOutput  string       `json:"compile_output,omitempty"`
	Status         judge.Status `json:"status"`
	TimeSeconds    float64      `json:"time_seconds"`
	MemoryKB       float64      `json:"memory_kb"`
	Result         string       `json:"result"`
}

// RunSummary aggregates one question's run across all of its test cases.
type RunSummary struct {
	Result          string
	TestCasesPassed int
	TotalTestCases  int
	ExecutionTimeMs int64
	MemoryUsedMB    float64
	ErrorMessage    string
	Results         []TestCaseResult
}

// TestRunner executes one question's source code against its test cases and
// classifies each outcome.
type TestRunner interface {
	RunAll(ctx context.Context, sourceCode string, languageID int, cases []models.TestCase) RunSummary
}

type judgeTestRunner struct {
	runner judge.Runner
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewTestRunner constructs a test runner backed by a remote judge.
func NewTestRunner(runner judge.Runner, logger zerolog.Logger) TestRunner {
	return &judgeTestRunner{
		runner: runner,
		tracer: otel.Tracer("github.com/hireloop/hireloop-api/internal/service/testrunner"),
		logger: logger.With().Str("component", "test_runner").Logger(),
	}
}

// RunAll grades each test case in catalog order. A failing judge call is
// absorbed into that test case's result so one bad round trip never aborts
// the rest of the run; the caller always gets a result per test case.
// Test cases run sequentially to keep judge load bounded.
func (r *judgeTestRunner) RunAll(parent context.Context, sourceCode string, languageID int, cases []models.TestCase) RunSummary {
	ctx, span := r.tracer.Start(parent, "grading.run_all", trace.WithAttributes(
		attribute.Int("grading.language_id", languageID),
		attribute.Int("grading.test_cases", len(cases)),
	))
	defer span.End()

	summary := RunSummary{
		TotalTestCases: len(cases),
		Results:        make([]TestCaseResult, 0, len(cases)),
	}

	var totalTimeMs float64
	var maxMemoryMB float64
	var errorMessages []string

	for idx, testCase := range cases {
		number := idx + 1
		stdin := strings.ReplaceAll(testCase.Input, "\x00", "")
		expected := strings.ReplaceAll(testCase.Output, "\x00", "")

		// Catalog rows with no expected output cannot be graded; classify
		// them up front instead of wasting a judge round trip.
		if strings.TrimSpace(expected) == "" {
			message := fmt.Sprintf("test case %d: missing expected output", number)
			errorMessages = append(errorMessages, message)
			summary.Results = append(summary.Results, TestCaseResult{
				TestCaseNumber: number,
				Stdin:          stdin,
				Expected:       expected,
				Stderr:         message,
				Status:         judge.Status{ID: -1, Description: "Invalid Test Case"},
				Result:         models.ResultError,
			})
			continue
		}

		verdict, err := r.runner.Run(ctx, judge.RunRequest{
			SourceCode: sourceCode,
			LanguageID: languageID,
			Stdin:      stdin,
		})
		if err != nil {
			message := fmt.Sprintf("test case %d execution error: %v", number, err)
			r.logger.Warn().Err(err).Int("test_case", number).Msg("judge call failed")
			errorMessages = append(errorMessages, message)
			summary.Results = append(summary.Results, TestCaseResult{
				TestCaseNumber: number,
				Stdin:          stdin,
				Expected:       expected,
				Stderr:         err.Error(),
				Status:         judge.Status{ID: -1, Description: "Execution Error"},
				Result:         models.ResultError,
			})
			continue
		}

		result := determineResult(verdict.Status.ID, expected, verdict.Stdout)
		if result == models.ResultAccepted {
			summary.TestCasesPassed++
		}

		totalTimeMs += float64(verdict.Time) * 1000
		if memoryMB := float64(verdict.Memory) / 1024; memoryMB > maxMemoryMB {
			maxMemoryMB = memoryMB
		}

		if verdict.Stderr != "" {
			errorMessages = append(errorMessages, fmt.Sprintf("test case %d: %s", number, verdict.Stderr))
		}
		if verdict.CompileOutput != "" {
			errorMessages = append(errorMessages, fmt.Sprintf("compilation: %s", verdict.CompileOutput))
		}

		summary.Results = append(summary.Results, TestCaseResult{
			TestCaseNumber: number,
			Stdin:          stdin,
			Expected:       expected,
			Stdout:         verdict.Stdout,
			Stderr:         verdict.Stderr,
			CompileOutput:  verdict.CompileOutput,
			Status:         verdict.Status,
			TimeSeconds:    float64(verdict.Time),
			MemoryKB:       float64(verdict.Memory),
			Result:         result,
		})
	}

	firstResult := ""
	if len(summary.Results) > 0 {
		firstResult = summary.Results[0].Result
	}
	summary.Result = overallVerdict(summary.TestCasesPassed, summary.TotalTestCases, firstResult)
	summary.ExecutionTimeMs = int64(totalTimeMs)
	summary.MemoryUsedMB = math.Round(maxMemoryMB*100) / 100
	summary.ErrorMessage = strings.Join(errorMessages, "\n")

	span.SetAttributes(
		attribute.String("grading.verdict", summary.Result),
		attribute.Int("grading.passed", summary.TestCasesPassed),
	)

	return summary
}
