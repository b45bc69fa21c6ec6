package rules

import "github.com/jsholden/wordbourne/errcode"

// RuleError is a rejected move: a rules violation identified by a stable
// code rather than an unexpected failure. The coordinator reports it as
// an invalidMove message instead of a server error.
type RuleError struct {
	Code errcode.Code
	Word string // set only for errcode.InvalidWord
}

func (e *RuleError) Error() string {
	if e.Word != "" {
		return string(e.Code) + ": " + e.Word
	}
	return string(e.Code)
}

func ruleErr(code errcode.Code) *RuleError {
	return &RuleError{Code: code}
}
