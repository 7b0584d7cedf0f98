package core

import "fmt"

// Position is a point in a source document.
type Position struct {
	Line   int32
	Column int32
	Offset int32
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a span in a source document. Ranges are diagnostic only.
type Range struct {
	Start  Position
	End    Position
	Source *string
}

// String returns "source:line:column-line:column", omitting the source when unknown.
func (r *Range) String() string {
	if r == nil {
		return ""
	}
	span := fmt.Sprintf("%s-%s", r.Start, r.End)
	if r.Source != nil && *r.Source != "" {
		return *r.Source + ":" + span
	}
	return span
}
