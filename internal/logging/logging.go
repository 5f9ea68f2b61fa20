// Package logging provides categorized, leveled logging for clonecraft,
// modeled on the teacher's category-keyed logger but backed directly by
// go.uber.org/zap instead of a bespoke file writer: library code never
// imports zap itself, only this package, so the backend stays swappable
// without touching the pipeline.
package logging

import "go.uber.org/zap"

// Category tags which pipeline stage emitted a log line, mirroring the
// component table in SPEC_FULL.md §1.
type Category string

const (
	CategoryExtract    Category = "extract"
	CategorySimilarity Category = "similarity"
	CategoryVariation  Category = "variation"
	CategoryDataflow   Category = "dataflow"
	CategoryBoundary   Category = "boundary"
	CategoryCluster    Category = "cluster"
	CategoryTruncate   Category = "truncate"
	CategoryResolve    Category = "resolve"
	CategorySafety     Category = "safety"
	CategoryRecommend  Category = "recommend"
	CategoryPipeline   Category = "pipeline"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// Logger wraps a *zap.Logger with a fixed category field, the way the
// teacher's logging package scopes every call site to a subsystem.
type Logger struct {
	z        *zap.Logger
	category Category
}

// NewNop returns a Logger that discards everything, used by components
// exercised directly in unit tests without a CLI-provided logger.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop(), category: ""}
}

// New wraps base with category, used by each pipeline stage's constructor.
func New(base *zap.Logger, category Category) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &Logger{z: base.With(zap.String("category", string(category))), category: category}
}

// For returns a child Logger scoped to a different category but sharing
// the same backing *zap.Logger, letting the pipeline hand each stage its
// own Logger from one constructed root.
func (l *Logger) For(category Category) *Logger {
	if l == nil {
		return NewNop()
	}
	return New(l.z, category)
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Error(msg, fields...)
}
