package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kac-dev/kac/internal/changelog"
	"gopkg.in/yaml.v3"
)

// ValidationError points at a bad config file, optionally at a line or a key.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s %s", e.FilePath, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

// ValidateYAMLSyntax reads filePath and checks it parses as YAML.
// A missing or blank file is valid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case errors.Is(err, os.ErrPermission):
		return &ValidationError{FilePath: filePath, Message: "permission denied"}
	case err != nil:
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	return validateYAML(data, filePath)
}

func validateYAML(data []byte, filePath string) error {
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var node yaml.Node
	err := yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: filePath, Message: strings.Join(typeErr.Errors, "; ")}
	}

	line, column := yamlPosition(err.Error())
	return &ValidationError{
		FilePath: filePath,
		Line:     line,
		Column:   column,
		Message:  yamlMessage(err.Error()),
	}
}

// ValidateConfigValues checks the merged configuration.
// filePath names the source in the returned ValidationError.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	fieldErr := func(field, msg string) error {
		return &ValidationError{FilePath: filePath, Field: field, Message: msg}
	}

	if strings.TrimSpace(cfg.File) == "" {
		return fieldErr("file", "is required")
	}
	if _, ok := changelog.ParseFormat(cfg.Format); !ok {
		return fieldErr("format", fmt.Sprintf("must be one of %s, %s (got %q)",
			changelog.FormatCompact, changelog.FormatMarkdownLint, cfg.Format))
	}
	if strings.ContainsAny(cfg.Head, " \t\n") {
		return fieldErr("head", "must not contain whitespace")
	}
	return nil
}

// yamlPosition extracts the position from messages like
// "yaml: line 5: could not find expected ':'". Returns 0, 0 when absent.
func yamlPosition(msg string) (line, column int) {
	if n, _ := fmt.Sscanf(msg, "yaml: line %d: column %d:", &line, &column); n == 2 {
		return line, column
	}
	if n, _ := fmt.Sscanf(msg, "yaml: line %d:", &line); n == 1 {
		return line, 1
	}
	return 0, 0
}

// yamlMessage drops the "yaml: line X:" prefix.
func yamlMessage(msg string) string {
	if !strings.HasPrefix(msg, "yaml:") {
		return msg
	}
	if idx := strings.LastIndex(msg, ": "); idx > 0 {
		return msg[idx+2:]
	}
	return msg
}
