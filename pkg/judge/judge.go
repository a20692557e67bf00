package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Judge0 status identifiers. Everything in the 7-12 band is a runtime error
// flavour; anything outside the documented range degrades to a generic error
// verdict downstream.
const (
	StatusInQueue           = 1
	StatusProcessing        = 2
	StatusAccepted          = 3
	StatusWrongAnswer       = 4
	StatusTimeLimitExceeded = 5
	StatusCompilationError  = 6
	StatusRuntimeErrorMin   = 7
	StatusRuntimeErrorMax   = 12
)

// ErrUnsupportedLanguage indicates the requested language has no judge mapping.
var ErrUnsupportedLanguage = fmt.Errorf("unsupported language")

// languageIDs maps platform language tags to Judge0 language identifiers.
var languageIDs = map[string]int{
	"python":     71,
	"cpp":        54,
	"java":       62,
	"javascript": 63,
	"c":          50,
}

// LanguageID resolves a language tag to its judge identifier.
func LanguageID(language string) (int, error) {
	id, ok := languageIDs[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	return id, nil
}

// SupportedLanguages lists the language tags the judge accepts.
func SupportedLanguages() []string {
	languages := make([]string, 0, len(languageIDs))
	for language := range languageIDs {
		languages = append(languages, language)
	}
	return languages
}

// Runner executes one (code, language, stdin) triple on the remote judge.
type Runner interface {
	Run(ctx context.Context, req RunRequest) (RunResult, error)
}

// RunRequest is the wire payload for a single judge execution.
type RunRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
}

// Status is the judge's classification of a finished execution.
type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// RunResult is the judge's verdict for one execution. Time is in seconds and
// Memory in KB, as reported by the judge.
type RunResult struct {
	Stdout        string    `json:"stdout"`
	Stderr        string    `json:"stderr"`
	CompileOutput string    `json:"compile_output"`
	Status        Status    `json:"status"`
	Time          FlexFloat `json:"time"`
	Memory        FlexFloat `json:"memory"`
	Token         string    `json:"token"`
}

// FlexFloat decodes judge numeric fields that arrive either as JSON numbers
// or as quoted strings, with null coerced to zero.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*f = 0
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("parse judge numeric field %q: %w", raw, err)
		}
		*f = FlexFloat(value)
		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*f = FlexFloat(value)
	return nil
}
