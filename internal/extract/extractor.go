package extract

import (
	"clonecraft/internal/astmodel"
	cerrors "clonecraft/internal/errors"
	"clonecraft/internal/logging"

	"go.uber.org/zap"
)

// Options configures the sliding window (spec.md §6: min_lines,
// max_window_growth).
type Options struct {
	MinStatements   int
	MaxWindowGrowth int
}

// DefaultOptions matches spec.md §6 defaults (min_lines=5).
func DefaultOptions() Options {
	return Options{MinStatements: 5, MaxWindowGrowth: 5}
}

// Extractor is the Statement Extractor (spec.md §4.1).
type Extractor struct {
	opts Options
	log  *logging.Logger
}

// New builds an Extractor. A nil logger is replaced with a no-op one.
func New(opts Options, log *logging.Logger) *Extractor {
	if log == nil {
		log = logging.NewNop()
	}
	return &Extractor{opts: opts, log: log.For(logging.CategoryExtract)}
}

// ExtractUnit enumerates every container in unit and extracts candidate
// sequences from each, continuing past any single container's
// ExtractionError (spec.md §7: "skip container, continue").
func (e *Extractor) ExtractUnit(unit astmodel.CompilationUnit) ([]Sequence, []error) {
	var all []Sequence
	var errs []error
	for _, c := range unit.Containers() {
		seqs, err := e.ExtractContainer(c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		all = append(all, seqs...)
	}
	return all, errs
}

// ExtractContainer slides a window of length
// [MinStatements, MinStatements+MaxWindowGrowth] across container's
// top-level body, producing one Sequence per (start, length) pair that
// fits. Sequences never cross the container boundary; a nested container
// appears as a single statement in its parent's Body() (spec.md §4.1) and
// is visited separately via ExtractUnit's per-container loop.
func (e *Extractor) ExtractContainer(container astmodel.Container) ([]Sequence, error) {
	body := container.Body()
	if len(body) == 0 || container.Range().IsZero() {
		return nil, &cerrors.ExtractionError{
			Container: container.Name(),
			FilePath:  filePath(container),
			Reason:    "container body has no source range",
		}
	}

	n := len(body)
	maxLen := e.opts.MinStatements + e.opts.MaxWindowGrowth
	var seqs []Sequence
	for length := e.opts.MinStatements; length <= maxLen && length <= n; length++ {
		for start := 0; start+length <= n; start++ {
			stmts := body[start : start+length]
			seqs = append(seqs, Sequence{
				Statements:    stmts,
				Container:     container,
				ContainerKind: container.Kind(),
				SourceRange:   astmodel.Range{Start: stmts[0].Range().Start, End: stmts[len(stmts)-1].Range().End},
				StartIndex:    start,
				Unit:          container.CompilationUnit(),
				FilePath:      filePath(container),
			})
		}
	}
	e.log.Debug("extracted candidate sequences",
		zap.String("container", container.Name()),
		zap.Int("count", len(seqs)),
	)
	return seqs, nil
}

func filePath(container astmodel.Container) string {
	if u := container.CompilationUnit(); u != nil {
		return u.FilePath()
	}
	return ""
}
