package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PatchAction is the mutation applied to a patch target.
type PatchAction string

// Supported patch actions.
const (
	ActionReplace PatchAction = "replace"
	ActionAppend  PatchAction = "append"
	ActionPrepend PatchAction = "prepend"
	ActionInsert  PatchAction = "insert"
	ActionDelete  PatchAction = "delete"
)

// PatchPosition places inserted content relative to the target element.
type PatchPosition string

// Supported insert positions.
const (
	PositionBefore PatchPosition = "before"
	PositionAfter  PatchPosition = "after"
)

// Well-known patch targets.
const (
	TargetBody  = "body"
	TargetTitle = "title"
)

// PatchOperation is a single targeted mutation of page content.
// Target is "body", "title", or "#elementId".
type PatchOperation struct {
	Target   string        `json:"target"`
	Action   PatchAction   `json:"action"`
	Position PatchPosition `json:"position,omitempty"`
	Content  string        `json:"content,omitempty"`
}

// PatchResult describes an accepted patch.
// ETag is the new content version when the server reports one.
type PatchResult struct {
	StatusCode int
	ETag       string
}

// ElementTarget returns the patch target for an element ID, adding the
// leading '#' when missing.
func ElementTarget(elementID string) string {
	if strings.HasPrefix(elementID, "#") {
		return elementID
	}
	return "#" + elementID
}

// ParsePosition validates an insert position.
func ParsePosition(s string) (PatchPosition, error) {
	switch p := PatchPosition(s); p {
	case PositionBefore, PositionAfter:
		return p, nil
	default:
		return "", &ValidationError{
			Field:   "position",
			Message: fmt.Sprintf("must be %q or %q, got %q", PositionBefore, PositionAfter, s),
		}
	}
}

// Validate checks the operation without contacting the server.
func (op *PatchOperation) Validate() error {
	if strings.TrimSpace(op.Target) == "" {
		return &ValidationError{Field: "target", Message: "required"}
	}
	if op.Target != TargetBody && op.Target != TargetTitle && !strings.HasPrefix(op.Target, "#") {
		return &ValidationError{
			Field:   "target",
			Message: fmt.Sprintf("must be %q, %q or #elementId, got %q", TargetBody, TargetTitle, op.Target),
		}
	}
	if op.Target == "#" {
		return &ValidationError{Field: "target", Message: "element id is empty"}
	}

	switch op.Action {
	case ActionReplace, ActionAppend, ActionPrepend:
		if op.Position != "" {
			return &ValidationError{Field: "position", Message: "only valid for insert"}
		}
	case ActionInsert:
		if _, err := ParsePosition(string(op.Position)); err != nil {
			return err
		}
		if op.Target == TargetBody || op.Target == TargetTitle {
			return &ValidationError{Field: "target", Message: "insert requires an element target"}
		}
	case ActionDelete:
		if op.Content != "" {
			return &ValidationError{Field: "content", Message: "must be empty for delete"}
		}
		if op.Target == TargetBody || op.Target == TargetTitle {
			return &ValidationError{Field: "target", Message: "delete requires an element target"}
		}
		return nil
	default:
		return &ValidationError{Field: "action", Message: fmt.Sprintf("unsupported action %q", op.Action)}
	}

	if op.Content == "" {
		return &ValidationError{Field: "content", Message: fmt.Sprintf("required for %s", op.Action)}
	}
	return nil
}

// ValidateOperations checks an ordered operation list.
func ValidateOperations(ops []PatchOperation) error {
	if len(ops) == 0 {
		return &ValidationError{Field: "operations", Message: "at least one operation is required"}
	}
	for i := range ops {
		if err := ops[i].Validate(); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

// EncodeOperations renders the operation list as the JSON array the content
// endpoint expects. HTML in content is left unescaped.
func EncodeOperations(ops []PatchOperation) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ops); err != nil {
		return nil, fmt.Errorf("encode patch operations: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeOperations parses a JSON operation list.
func DecodeOperations(data []byte) ([]PatchOperation, error) {
	var ops []PatchOperation
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, &ValidationError{Field: "operations", Message: err.Error()}
	}
	return ops, nil
}
