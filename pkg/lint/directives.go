package lint

import (
	"maps"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

var (
	blockDirectivePattern = regexp.MustCompile(`^# (?:yamllint|goyamllint) (disable|enable)((?: rule:\S+)*)\s*$`)
	lineDirectivePattern  = regexp.MustCompile(`^# (?:yamllint|goyamllint) disable-line((?: rule:\S+)*)\s*$`)
	fileDirectivePattern  = regexp.MustCompile(`^#\s*(?:yamllint|goyamllint) disable-file\s*$`)
)

// IsFileDisabled reports whether the first line of src disables linting of
// the whole input.
func IsFileDisabled(src string) bool {
	first, _, _ := strings.Cut(src, "\n")
	return fileDirectivePattern.MatchString(strings.TrimSuffix(first, "\r"))
}

// directives holds the rule suppressions declared by comments.
type directives struct {
	// blocks records the disabled set in effect at the end of each line
	// carrying a disable or enable comment, in line order.
	blocks []blockState

	// lines holds the rules disabled by disable-line for single lines.
	lines map[int]map[string]bool
}

type blockState struct {
	line     int
	disabled map[string]bool
}

// parseDirectives reads the directive comments of snap. known lists the
// rule IDs that a bare "disable" turns off; rule names outside it are
// ignored.
func parseDirectives(snap *yamlast.FileSnapshot, known []string) *directives {
	d := &directives{}
	current := make(map[string]bool)

	for i := range snap.Comments {
		c := &snap.Comments[i]
		text := c.Text()

		if m := blockDirectivePattern.FindStringSubmatch(text); m != nil {
			ids := directiveRules(m[2])
			switch {
			case m[1] == "disable" && len(ids) == 0:
				current = setOf(known)
			case m[1] == "disable":
				for _, id := range ids {
					if slices.Contains(known, id) {
						current[id] = true
					}
				}
			case len(ids) == 0:
				current = make(map[string]bool)
			default:
				for _, id := range ids {
					delete(current, id)
				}
			}
			d.record(c.Line(), current)
			continue
		}

		if m := lineDirectivePattern.FindStringSubmatch(text); m != nil {
			target := c.Line() + 1
			if c.IsInline() {
				target = c.Line()
			}
			ids := directiveRules(m[1])
			if len(ids) == 0 {
				ids = known
			}
			for _, id := range ids {
				if slices.Contains(known, id) {
					d.disableLine(target, id)
				}
			}
		}
	}

	return d
}

func (d *directives) record(line int, disabled map[string]bool) {
	state := blockState{line: line, disabled: maps.Clone(disabled)}
	if n := len(d.blocks); n > 0 && d.blocks[n-1].line == line {
		d.blocks[n-1] = state
		return
	}
	d.blocks = append(d.blocks, state)
}

func (d *directives) disableLine(line int, id string) {
	if d.lines == nil {
		d.lines = make(map[int]map[string]bool)
	}
	if d.lines[line] == nil {
		d.lines[line] = make(map[string]bool)
	}
	d.lines[line][id] = true
}

// suppressed reports whether p is disabled by a directive.
func (d *directives) suppressed(p Problem) bool {
	if d.lines[p.Line][p.RuleID] {
		return true
	}

	idx := sort.Search(len(d.blocks), func(i int) bool {
		return d.blocks[i].line > p.Line
	})
	if idx == 0 {
		return false
	}
	return d.blocks[idx-1].disabled[p.RuleID]
}

// filter removes suppressed problems in place.
func (d *directives) filter(problems []Problem) []Problem {
	if len(d.blocks) == 0 && len(d.lines) == 0 {
		return problems
	}
	out := problems[:0]
	for _, p := range problems {
		if !d.suppressed(p) {
			out = append(out, p)
		}
	}
	return out
}

func directiveRules(list string) []string {
	fields := strings.Fields(list)
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		ids = append(ids, strings.TrimPrefix(f, "rule:"))
	}
	return ids
}

func setOf(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
