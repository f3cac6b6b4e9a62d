package syncml

import "fmt"

// ParseError reports XML that isn't well-formed, or a required element
// (SyncHdr, SyncBody) missing from an otherwise well-formed document.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syncml: parse error: %s", e.Reason)
}
