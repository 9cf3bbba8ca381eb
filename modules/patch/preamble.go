package patch

import (
	"regexp"
	"strings"
)

const pathPattern = `"([^"]+)"|(\S+)`

// PreambleExtra is one VCS-preamble attribute: its value as captured
// verbatim and the 0-based offset of the line it was found on, relative to
// the start of the preamble.
type PreambleExtra struct {
	Value      string
	LineOffset int
}

// Preamble is the meta-header preceding a diff body: either the one-line
// generic form or the VCS-flavored form carrying an attribute map (§3).
type Preamble interface {
	Len() int
	Lines() Lines
	AnteFilePath() string
	PostFilePath() string
	// FilePath returns the post path, or the ante path when the post path
	// is the reserved "/dev/null".
	FilePath() string
	IsVCS() bool
	Extras() map[string]PreambleExtra
	Extra(name string) (PreambleExtra, bool)
}

type basePreamble struct {
	lines    Lines
	antePath string
	postPath string
}

func (p *basePreamble) Len() int              { return len(p.lines) }
func (p *basePreamble) Lines() Lines           { return p.lines }
func (p *basePreamble) AnteFilePath() string   { return p.antePath }
func (p *basePreamble) PostFilePath() string   { return p.postPath }
func (p *basePreamble) FilePath() string {
	if p.postPath == "/dev/null" {
		return p.antePath
	}
	return p.postPath
}

// GenericPreamble is the single "diff <options> a b" line preamble with no
// attribute extras.
type GenericPreamble struct {
	basePreamble
}

func (p *GenericPreamble) IsVCS() bool                         { return false }
func (p *GenericPreamble) Extras() map[string]PreambleExtra    { return nil }
func (p *GenericPreamble) Extra(string) (PreambleExtra, bool)  { return PreambleExtra{}, false }

// VCSPreamble is the "diff --git a b" preamble, with zero or more extra
// attribute lines absorbed into it (§4.4).
type VCSPreamble struct {
	basePreamble
	extras map[string]PreambleExtra
}

func (p *VCSPreamble) IsVCS() bool                      { return true }
func (p *VCSPreamble) Extras() map[string]PreambleExtra { return p.extras }
func (p *VCSPreamble) Extra(name string) (PreambleExtra, bool) {
	e, ok := p.extras[name]
	return e, ok
}

var vcsHeaderRE = regexp.MustCompile(`^diff\s+--git\s+(?:"([^"]+)"|(\S+))\s+(?:"([^"]+)"|(\S+))(\n)?$`)

var genericHeaderRE = regexp.MustCompile(`^diff(\s.+)\s+(?:"([^"]+)"|(\S+))\s+(?:"([^"]+)"|(\S+))(\n)?$`)

type extraPattern struct {
	name string
	re   *regexp.Regexp
	path bool // true if group 1/2 are the quoted/bare path alternation
}

var extraPatterns = []extraPattern{
	{name: "old mode", re: regexp.MustCompile(`^old mode\s+(\d*)(\n)?$`)},
	{name: "new mode", re: regexp.MustCompile(`^new mode\s+(\d*)(\n)?$`)},
	{name: "deleted file mode", re: regexp.MustCompile(`^deleted file mode\s+(\d*)(\n)?$`)},
	{name: "new file mode", re: regexp.MustCompile(`^new file mode\s+(\d*)(\n)?$`)},
	{name: "similarity index", re: regexp.MustCompile(`^similarity index\s+(\d*%)(\n)?$`)},
	{name: "dissimilarity index", re: regexp.MustCompile(`^dissimilarity index\s+(\d*%)(\n)?$`)},
	{name: "index", re: regexp.MustCompile(`^index\s+([a-fA-F0-9]+\.\.[a-fA-F0-9]+(?: \d*)?)(\n)?$`)},
	{name: "copy from", re: regexp.MustCompile(`^copy from\s+(?:"([^"]+)"|(\S+))(\n)?$`), path: true},
	{name: "copy to", re: regexp.MustCompile(`^copy to\s+(?:"([^"]+)"|(\S+))(\n)?$`), path: true},
	{name: "rename from", re: regexp.MustCompile(`^rename from\s+(?:"([^"]+)"|(\S+))(\n)?$`), path: true},
	{name: "rename to", re: regexp.MustCompile(`^rename to\s+(?:"([^"]+)"|(\S+))(\n)?$`), path: true},
}

func pathFromGroups(quoted, bare string) string {
	if quoted != "" {
		return quoted
	}
	return bare
}

// ParsePreambleAt recognizes a preamble (VCS-flavored, tried first, else
// generic) starting at lines[startIndex]. It returns nil, nil when neither
// dialect matches.
func ParsePreambleAt(lines Lines, startIndex int) (Preamble, error) {
	if preamble := parseVCSPreambleAt(lines, startIndex); preamble != nil {
		return preamble, nil
	}
	if preamble := parseGenericPreambleAt(lines, startIndex); preamble != nil {
		return preamble, nil
	}
	return nil, nil
}

func parseVCSPreambleAt(lines Lines, startIndex int) *VCSPreamble {
	if startIndex >= len(lines) {
		return nil
	}
	m := vcsHeaderRE.FindStringSubmatch(lines[startIndex])
	if m == nil {
		return nil
	}
	antePath := pathFromGroups(m[1], m[2])
	postPath := pathFromGroups(m[3], m[4])

	extras := make(map[string]PreambleExtra)
	end := startIndex
	for index := startIndex + 1; index < len(lines); index++ {
		matched := false
		for _, ep := range extraPatterns {
			em := ep.re.FindStringSubmatch(lines[index])
			if em == nil {
				continue
			}
			var value string
			if ep.path {
				value = pathFromGroups(em[1], em[2])
			} else {
				value = em[1]
			}
			extras[ep.name] = PreambleExtra{Value: value, LineOffset: index - startIndex}
			matched = true
			break
		}
		if !matched {
			break
		}
		end = index
	}
	return &VCSPreamble{
		basePreamble: basePreamble{
			lines:    append(Lines(nil), lines[startIndex:end+1]...),
			antePath: antePath,
			postPath: postPath,
		},
		extras: extras,
	}
}

func parseGenericPreambleAt(lines Lines, startIndex int) *GenericPreamble {
	if startIndex >= len(lines) {
		return nil
	}
	m := genericHeaderRE.FindStringSubmatch(lines[startIndex])
	if m == nil {
		return nil
	}
	if strings.Contains(m[1], "--git") {
		return nil
	}
	antePath := pathFromGroups(m[2], m[3])
	postPath := pathFromGroups(m[4], m[5])
	return &GenericPreamble{
		basePreamble: basePreamble{
			lines:    append(Lines(nil), lines[startIndex]),
			antePath: antePath,
			postPath: postPath,
		},
	}
}
