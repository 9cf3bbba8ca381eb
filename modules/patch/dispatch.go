package patch

// DiffKind identifies which of the three diff-body dialects a Diff holds.
type DiffKind int8

const (
	DiffKindUnified DiffKind = iota
	DiffKindContext
	DiffKindGitBinary
)

// Diff is the tagged union of the three diff-body dialects recognized
// after a preamble (§4.7): exactly one of Unified, Context, or GitBinary
// is non-nil, matching Kind.
type Diff struct {
	Kind      DiffKind
	Unified   *UnifiedDiff
	Context   *ContextDiff
	GitBinary *GitBinaryDiff
}

func (d *Diff) Len() int {
	switch d.Kind {
	case DiffKindUnified:
		return d.Unified.Len()
	case DiffKindContext:
		return d.Context.Len()
	default:
		return d.GitBinary.Len()
	}
}

// AllLines returns every line belonging to this diff body, in order.
func (d *Diff) AllLines() Lines {
	switch d.Kind {
	case DiffKindUnified:
		return d.Unified.AllLines()
	case DiffKindContext:
		return d.Context.AllLines()
	default:
		return d.GitBinary.RawLines()
	}
}

// AbstractHunks derives the application engine's IR from this diff's
// hunks. A git binary diff carries no text hunks and returns nil.
func (d *Diff) AbstractHunks() []AbstractHunk {
	switch d.Kind {
	case DiffKindUnified:
		return d.Unified.AbstractHunks()
	case DiffKindContext:
		return d.Context.AbstractHunks()
	default:
		return nil
	}
}

var defaultUnifiedParser = NewUnifiedDiffParser()
var defaultContextParser = NewContextDiffParser()

// GetDiffAt tries, in the strict order required by §4.7, the unified,
// git-binary, and context dialects at lines[startIndex]. It returns nil,
// nil when none of them matches.
func GetDiffAt(lines Lines, startIndex int) (*Diff, error) {
	if unified, err := getTextDiffAt[*UnifiedDiffHunk](defaultUnifiedParser, lines, startIndex); err != nil {
		return nil, err
	} else if unified != nil {
		return &Diff{Kind: DiffKindUnified, Unified: unified}, nil
	}
	if binary, err := GetBinaryDiffAt(lines, startIndex); err != nil {
		return nil, err
	} else if binary != nil {
		return &Diff{Kind: DiffKindGitBinary, GitBinary: binary}, nil
	}
	if context, err := getTextDiffAt[*ContextDiffHunk](defaultContextParser, lines, startIndex); err != nil {
		return nil, err
	} else if context != nil {
		return &Diff{Kind: DiffKindContext, Context: context}, nil
	}
	return nil, nil
}
