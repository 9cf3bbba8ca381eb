package patch

import (
	"io"

	"github.com/antgroup/patchkit/modules/patch/internal/strip"
)

// PatchRecordKind distinguishes a patch record carrying a diff body from
// one consisting solely of a VCS preamble (a pure rename/mode-change
// record with no hunks; §3).
type PatchRecordKind int8

const (
	PatchKindDiff PatchRecordKind = iota
	PatchKindPreambleOnly
)

// PatchRecord is an optional preamble paired with a diff body, or a
// preamble on its own when the VCS preamble describes a change with no
// hunks (a pure rename, copy, or mode change; §3).
type PatchRecord struct {
	Kind     PatchRecordKind
	Preamble Preamble
	Diff     *Diff
}

// Len returns the number of lines this record consumed.
func (r *PatchRecord) Len() int {
	n := 0
	if r.Preamble != nil {
		n += r.Preamble.Len()
	}
	if r.Diff != nil {
		n += r.Diff.Len()
	}
	return n
}

// Lines returns every line belonging to this record: preamble lines
// followed by diff-body lines, in order.
func (r *PatchRecord) Lines() Lines {
	var out Lines
	if r.Preamble != nil {
		out = append(out, r.Preamble.Lines()...)
	}
	if r.Diff != nil {
		out = append(out, r.Diff.AllLines()...)
	}
	return out
}

// FilePath returns the record's post path, preferring the diff body's
// header when present and falling back to the preamble.
func (r *PatchRecord) FilePath() string {
	switch {
	case r.Diff != nil && r.Diff.Kind == DiffKindUnified:
		return r.Diff.Unified.FilePath()
	case r.Diff != nil && r.Diff.Kind == DiffKindContext:
		return r.Diff.Context.FilePath()
	case r.Preamble != nil:
		return r.Preamble.FilePath()
	default:
		return ""
	}
}

// FilePathStripped is FilePath with its leading stripLevel path components
// dropped, mirroring `patch -pN`.
func (r *PatchRecord) FilePathStripped(stripLevel int) string {
	return strip.NLevels(r.FilePath(), stripLevel)
}

// Equal reports whether r and other carry identical preamble and body
// content, regardless of how many times each has been re-parsed.
func (r *PatchRecord) Equal(other *PatchRecord) bool {
	if other == nil {
		return false
	}
	return r.Digest() == other.Digest()
}

// Digest returns a stable content hash of the record's preamble and body
// lines (§4.9), usable to detect equality of records across parses.
func (r *PatchRecord) Digest() Digest {
	var preambleLines Lines
	var bodyLines Lines
	if r.Preamble != nil {
		preambleLines = r.Preamble.Lines()
	}
	if r.Diff != nil {
		bodyLines = r.Diff.AllLines()
	}
	return DigestLines(preambleLines, bodyLines)
}

// AbstractHunks derives the application engine's IR from this record's
// diff body. A preamble-only record or a binary diff carries none.
func (r *PatchRecord) AbstractHunks() []AbstractHunk {
	if r.Diff == nil {
		return nil
	}
	return r.Diff.AbstractHunks()
}

// Apply applies this record's hunks to text using the application engine
// (§4.8). Binary and preamble-only records have no text hunks to apply.
func (r *PatchRecord) Apply(text string, opts ApplyOptions, errSink io.Writer) AppliedResult {
	return Apply(r.AbstractHunks(), text, opts, errSink)
}

// GetPatchRecordAt recognizes a patch record (optional preamble, then a
// diff body dispatched per §4.7) starting at lines[startIndex]. It
// returns nil, nil when nothing recognizable starts there.
func GetPatchRecordAt(lines Lines, startIndex int) (*PatchRecord, error) {
	preamble, err := ParsePreambleAt(lines, startIndex)
	if err != nil {
		return nil, err
	}
	index := startIndex
	if preamble != nil {
		index += preamble.Len()
	}

	diff, err := GetDiffAt(lines, index)
	if err != nil {
		return nil, err
	}
	if diff == nil {
		if preamble == nil || !preamble.IsVCS() {
			return nil, nil
		}
		return &PatchRecord{Kind: PatchKindPreambleOnly, Preamble: preamble}, nil
	}
	if diff.Kind == DiffKindGitBinary && (preamble == nil || !preamble.IsVCS()) {
		return nil, errUnexpectedInput(FormatGitBinary, "a binary diff requires a VCS-flavored preamble")
	}
	return &PatchRecord{Kind: PatchKindDiff, Preamble: preamble, Diff: diff}, nil
}

// ParseRecords recognizes every patch record in lines, advancing the
// cursor by one line whenever nothing matches there (§4.7, lifted to the
// whole stream).
func ParseRecords(lines Lines) ([]*PatchRecord, error) {
	var records []*PatchRecord
	index := 0
	for index < len(lines) {
		record, err := GetPatchRecordAt(lines, index)
		if err != nil {
			return records, err
		}
		if record == nil {
			index++
			continue
		}
		index += record.Len()
		records = append(records, record)
	}
	return records, nil
}

// ParsePatchText splits text into lines and recognizes every patch record
// in it.
func ParsePatchText(text string) ([]*PatchRecord, error) {
	return ParseRecords(CompleteLines(text))
}
