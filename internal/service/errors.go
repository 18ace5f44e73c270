package service

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StageSelect  = "select"
	StageRender  = "render"
	StageTone    = "tone"
	StageEnhance = "enhance"
	StageScratch = "scratch"
	StageSuggest = "suggest"
)

// ErrMissingRequired marks a required template variable with no value.
var ErrMissingRequired = errors.New("required variable has no value")

// PipelineError is the only error GenerateResponse returns. It covers faults
// outside the generative path, such as an unreachable template store.
type PipelineError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// GenerativeError reports a generative stage that fell back to its input.
type GenerativeError struct {
	Stage  string
	Reason string
	Cause  error
}

func (e *GenerativeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s stage fell back (%s): %v", e.Stage, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s stage fell back (%s)", e.Stage, e.Reason)
}

func (e *GenerativeError) Unwrap() error {
	return e.Cause
}

// MalformedOutputError is returned when structured generative output does not
// parse or does not match its schema.
type MalformedOutputError struct {
	Message string
	Cause   error
}

func (e *MalformedOutputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed output: %s: %v", e.Message, e.Cause)
	}
	return "malformed output: " + e.Message
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}

// RenderError lists placeholders left in a rendered body although a resolver
// exists for them.
type RenderError struct {
	TemplateID string
	Tokens     []string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("template %s: unresolved placeholders %s", e.TemplateID, strings.Join(e.Tokens, ", "))
}
