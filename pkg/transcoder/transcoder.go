// Package transcoder round-trips Angular-style control flow through an
// external tag/attribute reformatter.
//
// A template is parsed into a control-flow tree, encoded as intermediate
// XML, handed to the reformatter, decoded from whatever the reformatter
// printed and rendered back into @if / @for / @switch syntax.
package transcoder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/grindlemire/ngflow/internal/ctrlflow"
	"github.com/grindlemire/ngflow/internal/ir"
	"github.com/grindlemire/ngflow/internal/logging"
)

// Reformatter rewrites intermediate text. *reformat.Runner implements it.
type Reformatter interface {
	Run(ctx context.Context, input string) (string, error)
}

// Transcoder runs the control-flow pipeline.
type Transcoder struct {
	runner Reformatter
	format ir.Format
	opts   ir.Options
	log    *zap.Logger
}

// Option configures a Transcoder.
type Option func(*Transcoder)

// WithRunner sets the reformatter. Without one, Restore decodes the
// encoder's own output.
func WithRunner(r Reformatter) Option {
	return func(t *Transcoder) { t.runner = r }
}

// WithFormat sets the dialect the reformatter emits.
func WithFormat(f ir.Format) Option {
	return func(t *Transcoder) { t.format = f }
}

// WithIndent sets the encoder's indentation unit.
func WithIndent(indent string) Option {
	return func(t *Transcoder) { t.opts.Indent = indent }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transcoder) { t.log = logging.OrNop(l) }
}

// New creates a Transcoder that decodes markup and has no reformatter.
func New(opts ...Option) *Transcoder {
	t := &Transcoder{
		format: ir.FormatMarkup,
		opts:   ir.DefaultOptions,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Encode parses source and returns its intermediate XML.
func (t *Transcoder) Encode(filename, source string) (string, error) {
	tmpl, err := ctrlflow.Parse(filename, source)
	if err != nil {
		return "", err
	}
	return t.opts.Encode(tmpl), nil
}

// Decode parses intermediate text in the configured dialect and returns the
// template it describes.
func (t *Transcoder) Decode(text string) (string, error) {
	tmpl, err := ir.Decode(t.format, text)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", t.format, err)
	}
	return ctrlflow.Print(tmpl), nil
}

// Restore runs the whole pipeline on source. Any failure aborts the run and
// no partial output is returned.
func (t *Transcoder) Restore(ctx context.Context, filename, source string) (string, error) {
	encoded, err := t.Encode(filename, source)
	if err != nil {
		return "", err
	}

	reformatted := encoded
	if t.runner != nil {
		reformatted, err = t.runner.Run(ctx, encoded)
		if err != nil {
			return "", err
		}
	} else if t.format != ir.FormatMarkup {
		return "", fmt.Errorf("format %s needs a reformatter", t.format)
	}

	t.log.Debug("decoding reformatter output",
		zap.String("file", filename),
		zap.Stringer("format", t.format),
		zap.Int("bytes", len(reformatted)))

	return t.Decode(reformatted)
}

// Result contains the outcome of a restore.
type Result struct {
	// Content is the restored template.
	Content string
	// Changed reports whether Content differs from the input, for example
	// because keyword headers were canonicalized.
	Changed bool
}

// RestoreWithResult restores source and reports whether it changed.
func (t *Transcoder) RestoreWithResult(ctx context.Context, filename, source string) (Result, error) {
	restored, err := t.Restore(ctx, filename, source)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Content: restored,
		Changed: restored != source,
	}, nil
}
