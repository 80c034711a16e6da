package bridge

import (
	"fmt"
	"regexp"
	"strings"
)

// Group is a compiled symbol filter: comma separated patterns with * and ?
// wildcards, a leading ! excludes. Empty means all symbols.
// Wildcards match any character, '/' included, so "*" covers BTC/USD.
type Group struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
	all     bool
}

func ParseGroup(group string) (*Group, error) {
	g := &Group{}
	universal := false
	for _, part := range strings.Split(group, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		negate := strings.HasPrefix(part, "!")
		pattern := strings.TrimPrefix(part, "!")
		if pattern == "" {
			return nil, fmt.Errorf("%w: empty pattern in group %q", ErrInvalidParams, group)
		}
		re, err := compileGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q: %v", ErrInvalidParams, pattern, err)
		}
		if negate {
			g.exclude = append(g.exclude, re)
			continue
		}
		g.include = append(g.include, re)
		if strings.Trim(pattern, "*") == "" {
			universal = true
		}
	}
	if len(g.include) == 0 {
		g.include = []*regexp.Regexp{matchAny}
		universal = true
	}
	g.all = universal && len(g.exclude) == 0
	return g, nil
}

var matchAny = regexp.MustCompile(`^(?s:.*)$`)

// compileGlob turns a glob into an anchored regexp. Supported: *, ? and
// [...] classes with ! or ^ negation.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	runes := []rune(pattern)
	var sb strings.Builder
	sb.WriteString("^(?s:")
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		case '[':
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == ']' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, fmt.Errorf("unclosed [")
			}
			class := string(runes[i+1 : end])
			negate := strings.HasPrefix(class, "!") || strings.HasPrefix(class, "^")
			if negate {
				class = class[1:]
			}
			if class == "" {
				return nil, fmt.Errorf("empty character class")
			}
			sb.WriteString("[")
			if negate {
				sb.WriteString("^")
			}
			sb.WriteString(strings.ReplaceAll(class, `\`, `\\`))
			sb.WriteString("]")
			i = end
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString(")$")
	return regexp.Compile(sb.String())
}

func (g *Group) Match(symbol string) bool {
	if g.all {
		return true
	}
	for _, re := range g.exclude {
		if re.MatchString(symbol) {
			return false
		}
	}
	for _, re := range g.include {
		if re.MatchString(symbol) {
			return true
		}
	}
	return false
}

// All reports whether the group lets every symbol through.
func (g *Group) All() bool {
	return g.all
}

// FilterBySymbol keeps the items whose symbol matches g. A universal group
// returns items as is.
func FilterBySymbol[T any](items []T, g *Group, symbol func(T) string) []T {
	if g.All() && items != nil {
		return items
	}
	result := make([]T, 0, len(items))
	for _, item := range items {
		if g.Match(symbol(item)) {
			result = append(result, item)
		}
	}
	return result
}
