package borrowser

import (
	"log/slog"

	"github.com/jorisjansen/borrowser-core/atom"
	"github.com/jorisjansen/borrowser-core/css"
	"github.com/jorisjansen/borrowser-core/docid"
	"github.com/jorisjansen/borrowser-core/dompatch"
	"github.com/jorisjansen/borrowser-core/forms"
	"github.com/jorisjansen/borrowser-core/html5"
	"github.com/jorisjansen/borrowser-core/input"
)

// Session owns one document's worth of pipeline state: a growing byte stream
// is fed in through Write/Finish, and the materialized DOM, computed styles,
// form-control state, and counters are available at any point in between
// (spec.md §2's component chain, end to end).
type Session struct {
	id string

	atoms   *atom.Table
	buf     *input.Buffer
	decoder *input.Decoder
	tok     *html5.Tokenizer
	tb      *html5.TreeBuilder
	mat     *dompatch.Materializer

	sheet css.Stylesheet

	logger *slog.Logger

	tokensFed       int
	patchesApplied  int
	decodeErrors    int
	invariantErrors int
}

// NewSession returns a ready-to-use Session. sheet is the stylesheet applied
// to the document once styling is requested; logger may be nil (a discarding
// logger is used in that case, matching pages.go's Handler.init pattern).
func NewSession(sheet css.Stylesheet, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(discardWriter{}, nil))
	}

	id := docid.String()
	atoms := atom.New()
	buf := input.NewBuffer(atoms.ID())

	s := &Session{
		id:      id,
		atoms:   atoms,
		buf:     buf,
		decoder: input.NewDecoder(),
		tok:     html5.NewTokenizer(atoms, buf.ID()),
		tb:      html5.NewTreeBuilder(atoms, buf),
		mat:     dompatch.NewMaterializer(),
		sheet:   sheet,
		logger:  logger.With("session", id),
	}
	return s
}

// Write decodes chunk, advances the tokenizer and tree builder as far as the
// newly available bytes allow, and applies any newly emitted patches to the
// materialized DOM.
func (s *Session) Write(chunk []byte) error {
	if s.decoder.Write(chunk, s.buf) == input.NeedMoreInput {
		// No new decoded text yet (mid-scalar chunk boundary); nothing to
		// tokenize until the next Write/Finish supplies the rest.
		return nil
	}
	return s.pump()
}

// Finish signals that no further bytes will ever arrive, flushes any carried
// partial UTF-8 scalar, and drains the pipeline to completion.
func (s *Session) Finish() error {
	s.decoder.Finish(s.buf)
	if err := s.pump(); err != nil {
		return err
	}
	s.tok.Finish(s.buf)
	return s.pump()
}

// pump drives tokens through the tree builder and patches through the
// materializer until no further progress is possible with the bytes decoded
// so far.
func (s *Session) pump() error {
	for {
		progress := s.tok.Push(s.buf)
		if err := s.drainTokens(); err != nil {
			return err
		}
		if err := s.drainPatches(); err != nil {
			return err
		}
		if progress != html5.Advanced {
			return nil
		}
	}
}

func (s *Session) drainTokens() error {
	for s.tokensFed < len(s.tok.Tokens) {
		s.tb.Feed(s.tok.Tokens[s.tokensFed])
		s.tokensFed++
	}
	return nil
}

func (s *Session) drainPatches() error {
	pending := s.tb.Patches[s.patchesApplied:]
	if len(pending) == 0 {
		return nil
	}
	if err := s.mat.Apply(pending); err != nil {
		s.invariantErrors++
		s.logger.Error("apply patch batch", "error", err)
		return &InvariantError{Op: "Materializer.Apply", Err: err}
	}
	s.patchesApplied = len(s.tb.Patches)
	return nil
}

// Document returns the materialized document node. Valid at any point; it
// reflects every patch applied so far.
func (s *Session) Document() *dompatch.Node { return s.mat.Root() }

// Styles builds and returns the computed style tree for the document as it
// stands right now (spec.md §4.6). Cheap enough to call per frame for a
// preview consumer; callers needing incremental recomputation should build
// their own cache keyed on Counters().PatchesEmitted.
func (s *Session) Styles() *css.StyledNode {
	root := s.mat.Root()
	if root == nil {
		return nil
	}
	return css.BuildStyleTree(root, s.sheet)
}

// SeedForms walks the current document and seeds a fresh form-control store
// from it (spec.md §4.7). Call once the document (or the portion of it
// containing forms) is stable; re-seeding after further Writes is safe but
// will not preserve in-flight edits made through the returned store.
func (s *Session) SeedForms() (*forms.ValueStore, *forms.FormControlIndex) {
	store := forms.NewValueStore()
	root := s.mat.Root()
	if root == nil {
		return store, nil
	}
	idx := forms.SeedFromDOM(store, root)
	return store, idx
}

// Counters reports the observability state accumulated so far (spec.md §7,
// SUPPLEMENTED FEATURES #4).
func (s *Session) Counters() Counters {
	return Counters{
		TokensProcessed:      s.tokensFed,
		PatchesEmitted:       len(s.tb.Patches),
		DecodeErrors:         s.decodeErrors,
		ParseErrors:          s.tb.ParseErrors,
		InvariantErrors:      s.invariantErrors,
		MaxOpenElementsDepth: s.tb.PeakOpenElementDepth(),
	}
}

// ID returns the session's identifier (a ULID minted by docid in NewSession),
// which every log line from this Session carries under the "session" key. The
// atom table and input buffer are bound by atom.Table's own numeric id, not
// by this one.
func (s *Session) ID() string { return s.id }

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
