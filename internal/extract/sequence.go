// Package extract implements the Statement Extractor (spec.md §4.1): for
// every code container, it slides a window across top-level statements and
// emits StatementSequence candidates for the similarity engine to compare.
package extract

import "clonecraft/internal/astmodel"

// Sequence is spec.md §3's StatementSequence: an ordered list of statements
// from one container, immutable once created. Trimming/extending (the
// Boundary Refiner) produces a new Sequence sharing references to the same
// underlying statements rather than mutating this one.
type Sequence struct {
	Statements    []astmodel.Statement
	Container     astmodel.Container
	ContainerKind astmodel.ContainerKind
	SourceRange   astmodel.Range
	// StartIndex is this sequence's offset within Container.Body().
	StartIndex int
	Unit        astmodel.CompilationUnit
	FilePath    string
}

// Len is the number of statements in the sequence.
func (s Sequence) Len() int { return len(s.Statements) }

// EndIndex is the exclusive end offset within Container.Body(): the first
// index past this sequence.
func (s Sequence) EndIndex() int { return s.StartIndex + len(s.Statements) }

// WithStatements returns a new Sequence over a sub-slice of s.Statements,
// recomputing StartIndex/SourceRange/EndIndex accordingly. offset is
// relative to s.StartIndex. Used by the Boundary Refiner and the Sequence
// Truncator, both of which only ever narrow or shift within the original
// container body.
func (s Sequence) WithStatements(stmts []astmodel.Statement, offset int) Sequence {
	out := s
	out.Statements = stmts
	out.StartIndex = s.StartIndex + offset
	if len(stmts) > 0 {
		out.SourceRange = astmodel.Range{Start: stmts[0].Range().Start, End: stmts[len(stmts)-1].Range().End}
	}
	return out
}

// Less orders sequences lexicographically by (file path, start line, start
// column) — the deterministic primary-selection key of spec.md §3/§5.
func Less(a, b Sequence) bool {
	if a.FilePath != b.FilePath {
		return a.FilePath < b.FilePath
	}
	if a.SourceRange.Start.Line != b.SourceRange.Start.Line {
		return a.SourceRange.Start.Line < b.SourceRange.Start.Line
	}
	return a.SourceRange.Start.Column < b.SourceRange.Start.Column
}
