package validator

import (
	"sort"
	"strings"
)

// Validator accumulates plain and per-field validation failures.
type Validator struct {
	Errors      []string          `json:"errors,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func (v *Validator) HasErrors() bool {
	return len(v.Errors) != 0 || len(v.FieldErrors) != 0
}

func (v *Validator) AddError(message string) {
	v.Errors = append(v.Errors, message)
}

func (v *Validator) AddFieldError(key, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = map[string]string{}
	}
	if _, exists := v.FieldErrors[key]; !exists {
		v.FieldErrors[key] = message
	}
}

func (v *Validator) Check(ok bool, message string) {
	if !ok {
		v.AddError(message)
	}
}

func (v *Validator) CheckField(ok bool, key, message string) {
	if !ok {
		v.AddFieldError(key, message)
	}
}

// Summary flattens all accumulated failures into one line.
func (v *Validator) Summary() string {
	parts := append([]string{}, v.Errors...)
	for key, message := range v.FieldErrors {
		parts = append(parts, key+" "+message)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}
