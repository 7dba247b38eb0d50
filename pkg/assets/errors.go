package assets

import "fmt"

// Missing marks a file that is absent from a root. The resolver recovers
// from it with a placeholder; it never propagates past the Store.
var Missing = fmt.Errorf("asset not present in any root")

// SchemaError reports malformed manifest or scene data. It is fatal for the
// load or reload that produced it.
type SchemaError struct {
	Key    string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema error: %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("schema error: %s: field %q: %s", e.Key, e.Field, e.Reason)
}

// ContentError reports a spritesheet whose pixels cannot satisfy its
// declared frame geometry. A partially sliced animation would be visibly
// wrong, so this is fatal rather than truncated.
type ContentError struct {
	Key    string
	Reason string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content error: %s: %s", e.Key, e.Reason)
}
