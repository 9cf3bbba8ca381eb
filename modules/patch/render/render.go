// Package render exposes read-only views of parsed patch records and
// diffs sufficient for a caller to render colored/annotated output
// without re-parsing the underlying lines (§6 exposed collaborator
// interface). It holds no parsing or application logic of its own.
package render

import "github.com/antgroup/patchkit/modules/patch"

// Hunk is a read-only view of one hunk's raw lines, its ante/post lines and
// whether it adds trailing whitespace, independent of its unified/context
// dialect.
type Hunk struct {
	Lines      []string
	AnteLines  []string
	PostLines  []string
	AddsWhiteSpace bool
}

// DiffView is a read-only view of one parsed diff body, sufficient to
// walk and colorize its lines without touching the application engine.
type DiffView struct {
	Kind      patch.DiffKind
	AntePath  string
	PostPath  string
	Hunks     []Hunk
	AllLines  []string
}

// RecordView is a read-only view of one parsed PatchRecord: its preamble
// extras and, when present, its diff body.
type RecordView struct {
	HasPreamble   bool
	PreambleLines []string
	IsVCS         bool
	Extras        map[string]patch.PreambleExtra
	Diff          *DiffView
}

// NewRecordView builds a read-only view of r for rendering.
func NewRecordView(r *patch.PatchRecord) RecordView {
	view := RecordView{}
	if r.Preamble != nil {
		view.HasPreamble = true
		view.PreambleLines = append([]string(nil), r.Preamble.Lines()...)
		view.IsVCS = r.Preamble.IsVCS()
		view.Extras = r.Preamble.Extras()
	}
	if r.Diff != nil {
		view.Diff = newDiffView(r.Diff)
	}
	return view
}

func newDiffView(d *patch.Diff) *DiffView {
	view := &DiffView{Kind: d.Kind, AllLines: append([]string(nil), d.AllLines()...)}
	switch d.Kind {
	case patch.DiffKindUnified:
		view.AntePath = d.Unified.AntePath()
		view.PostPath = d.Unified.PostPath()
		for _, h := range d.Unified.Hunks() {
			view.Hunks = append(view.Hunks, hunkView(h.RawLines(), h.AnteLines(), h.PostLines(), h.AddsTrailingWhitespace()))
		}
	case patch.DiffKindContext:
		view.AntePath = d.Context.AntePath()
		view.PostPath = d.Context.PostPath()
		for _, h := range d.Context.Hunks() {
			view.Hunks = append(view.Hunks, hunkView(h.RawLines(), h.AnteLines(), h.PostLines(), h.AddsTrailingWhitespace()))
		}
	}
	return view
}

func hunkView(lines, ante, post []string, addsWS bool) Hunk {
	return Hunk{
		Lines:          append([]string(nil), lines...),
		AnteLines:      append([]string(nil), ante...),
		PostLines:      append([]string(nil), post...),
		AddsWhiteSpace: addsWS,
	}
}
