package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects checks by their path, such as "albums/delete".
//
// A -run pattern is matched one level at a time, the way "go test -run" does it: the pattern is
// split at slashes and each part must match the corresponding element of the path. Levels past
// the end of either side are not compared, so "albums/del" selects the "albums" group and then
// only "albums/delete" inside it. A -skip pattern is matched against the whole path.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

func (r RegexFilters) AsFilter(id TestID) bool {
	name := id.String()
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatchLevels(id.Path)) &&
		!r.MustNotMatch.AnyMatch(name)
}

type RegexList struct {
	patterns []*regexp.Regexp
	levels   [][]*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	var levels []*regexp.Regexp
	for _, part := range strings.Split(value, "/") {
		partRx, err := regexp.Compile(part)
		if err != nil {
			return fmt.Errorf("invalid regex %q: %w", part, err)
		}
		levels = append(levels, partRx)
	}
	r.patterns = append(r.patterns, rx)
	r.levels = append(r.levels, levels)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func (r RegexList) AnyMatchLevels(path []string) bool {
	for _, levels := range r.levels {
		if matchLevels(levels, path) {
			return true
		}
	}
	return false
}

func matchLevels(levels []*regexp.Regexp, path []string) bool {
	for i, name := range path {
		if i >= len(levels) {
			break
		}
		if !levels[i].MatchString(name) {
			return false
		}
	}
	return true
}

// PrintFilterDescription tells the user which checks will be skipped because of -run/-skip.
func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if !filters.IsDefined() {
		return
	}
	fmt.Fprintln(out, "Some checks will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(out)
}
