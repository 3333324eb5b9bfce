package css

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ziadkadry99/archdoc/internal/model"
)

// Selector classes, decided by the selector's leading token.
const (
	SelectorID            = "id"
	SelectorClass         = "class"
	SelectorAttribute     = "attribute"
	SelectorPseudoClass   = "pseudo-class"
	SelectorPseudoElement = "pseudo-element"
	SelectorType          = "type"
	SelectorUniversal     = "universal"
	SelectorCombinator    = "combinator"
)

// Media query classes.
const (
	ResponsiveBreakpoint = "responsive-breakpoint"
	MediaType            = "media-type"
	FeatureQuery         = "feature-query"
	OtherQuery           = "other"
)

// Custom property value classes.
const (
	ValueColor     = "color"
	ValueLength    = "length"
	ValueReference = "reference"
	ValueKeyword   = "keyword"
	ValueOther     = "other"
)

// Property categories.
const (
	CategoryLayout     = "layout"
	CategoryTypography = "typography"
	CategoryColor      = "color"
	CategoryAnimation  = "animation"
	CategoryOther      = "other"
)

// legacyPseudoElements may be written with a single colon.
var legacyPseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
}

// SplitSelectors splits a selector group on top-level commas. Commas inside
// brackets or parentheses, e.g. :is(a, b), do not split.
func SplitSelectors(group string) []string {
	var out []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(group); i++ {
		c := group[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if sel := collapseSpace(group[start:i]); sel != "" {
					out = append(out, sel)
				}
				start = i + 1
			}
		}
	}
	if sel := collapseSpace(group[start:]); sel != "" {
		out = append(out, sel)
	}
	return out
}

// ClassifySelector returns the selector class of sel's leading token.
func ClassifySelector(sel string) string {
	sel = strings.TrimLeft(strings.TrimSpace(sel), "&")
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return SelectorType
	}
	switch sel[0] {
	case '>', '+', '~':
		return SelectorCombinator
	case '#':
		return SelectorID
	case '.':
		return SelectorClass
	case '[':
		return SelectorAttribute
	case '*':
		return SelectorUniversal
	case ':':
		if strings.HasPrefix(sel, "::") {
			return SelectorPseudoElement
		}
		if legacyPseudoElements[strings.ToLower(readIdent(sel, 1))] {
			return SelectorPseudoElement
		}
		return SelectorPseudoClass
	}
	return SelectorType
}

// Specificity computes the (id, class, type) weight of a single complex
// selector by summing over all of its compound parts.
func Specificity(sel string) model.Specificity {
	var spec model.Specificity
	for i := 0; i < len(sel); {
		c := sel[i]
		switch {
		case c == '#':
			name := readIdent(sel, i+1)
			i += 1 + len(name)
			spec.A++
		case c == '.':
			name := readIdent(sel, i+1)
			i += 1 + len(name)
			spec.B++
		case c == '[':
			i = skipBalanced(sel, i, '[', ']')
			spec.B++
		case c == ':' && i+1 < len(sel) && sel[i+1] == ':':
			name := readIdent(sel, i+2)
			i += 2 + len(name)
			if i < len(sel) && sel[i] == '(' {
				i = skipBalanced(sel, i, '(', ')')
			}
			spec.C++
		case c == ':':
			name := strings.ToLower(readIdent(sel, i+1))
			i += 1 + len(name)
			if i < len(sel) && sel[i] == '(' {
				end := skipBalanced(sel, i, '(', ')')
				arg := sel[i+1 : max(i+1, end-1)]
				i = end
				switch name {
				case "not", "is", "has", "matches":
					spec = spec.Add(maxSpecificity(arg))
				case "where":
				default:
					spec.B++
				}
				continue
			}
			if legacyPseudoElements[name] {
				spec.C++
			} else {
				spec.B++
			}
		case c == '*':
			i++
		case isIdentStart(c):
			name := readIdent(sel, i)
			i += len(name)
			spec.C++
		default:
			i++
		}
	}
	return spec
}

func maxSpecificity(list string) model.Specificity {
	var best model.Specificity
	for _, sel := range SplitSelectors(list) {
		if s := Specificity(sel); s.Compare(best) > 0 {
			best = s
		}
	}
	return best
}

func readIdent(s string, from int) string {
	if from >= len(s) {
		return ""
	}
	i := from
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i += 2
			continue
		}
		if isIdentStart(c) || (c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	if i > len(s) {
		i = len(s)
	}
	return s[from:i]
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '-' || c >= 0x80
}

// skipBalanced returns the index just past the bracket that closes the one
// at s[i]. Unbalanced input runs to the end of s.
func skipBalanced(s string, i int, open, close byte) int {
	depth := 0
	var quote byte
	for ; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

var (
	breakpointFeatures = []string{"width", "height", "orientation", "aspect-ratio"}
	queryFeatures      = []string{"prefers-", "hover", "pointer", "display-mode", "color-gamut", "resolution", "forced-colors", "inverted-colors", "scripting", "update"}
	mediaTypes         = map[string]bool{"all": true, "print": true, "screen": true, "speech": true}
)

// ClassifyMedia buckets a media query condition by keyword heuristics.
func ClassifyMedia(cond string) string {
	c := strings.ToLower(cond)
	for _, f := range breakpointFeatures {
		if strings.Contains(c, f) {
			return ResponsiveBreakpoint
		}
	}
	for _, f := range queryFeatures {
		if strings.Contains(c, f) {
			return FeatureQuery
		}
	}
	if strings.Contains(c, "(") {
		return FeatureQuery
	}

	sawType := false
	for _, tok := range strings.FieldsFunc(c, func(r rune) bool { return r == ' ' || r == ',' }) {
		switch tok {
		case "only", "not", "and":
			continue
		}
		if !mediaTypes[tok] {
			return OtherQuery
		}
		sawType = true
	}
	if sawType {
		return MediaType
	}
	return OtherQuery
}

var (
	hexColor    = regexp.MustCompile(`^#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	dimension   = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)(px|em|rem|%|vh|vw|vmin|vmax|svh|lvh|dvh|ch|ex|pt|pc|cm|mm|in|q|fr|s|ms|deg|rad|turn)$`)
	identifier  = regexp.MustCompile(`^-?[a-zA-Z_][a-zA-Z0-9_-]*$`)
	colorFuncs  = []string{"rgb(", "rgba(", "hsl(", "hsla(", "hwb(", "lab(", "lch(", "oklab(", "oklch(", "color(", "color-mix("}
	namedColors = map[string]bool{
		"black": true, "white": true, "red": true, "green": true, "blue": true, "yellow": true,
		"orange": true, "purple": true, "pink": true, "gray": true, "grey": true, "brown": true,
		"cyan": true, "magenta": true, "navy": true, "teal": true, "olive": true, "maroon": true,
		"silver": true, "lime": true, "aqua": true, "fuchsia": true, "transparent": true,
		"currentcolor": true, "rebeccapurple": true,
	}
)

// ClassifyValue buckets a custom property value.
func ClassifyValue(value string) string {
	v := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important")))
	switch {
	case strings.Contains(v, "var("):
		return ValueReference
	case hexColor.MatchString(v) || namedColors[v] || hasPrefixAny(v, colorFuncs):
		return ValueColor
	case v == "0" || dimension.MatchString(v) || strings.HasPrefix(v, "calc("):
		return ValueLength
	case identifier.MatchString(v):
		return ValueKeyword
	}
	return ValueOther
}

var propertyCategories = map[string]string{
	"display": CategoryLayout, "position": CategoryLayout, "top": CategoryLayout,
	"right": CategoryLayout, "bottom": CategoryLayout, "left": CategoryLayout,
	"float": CategoryLayout, "clear": CategoryLayout, "width": CategoryLayout,
	"height": CategoryLayout, "min-width": CategoryLayout, "max-width": CategoryLayout,
	"min-height": CategoryLayout, "max-height": CategoryLayout, "z-index": CategoryLayout,
	"box-sizing": CategoryLayout, "inset": CategoryLayout, "gap": CategoryLayout,
	"row-gap": CategoryLayout, "column-gap": CategoryLayout, "order": CategoryLayout,
	"columns": CategoryLayout, "aspect-ratio": CategoryLayout, "visibility": CategoryLayout,
	"vertical-align": CategoryLayout, "contain": CategoryLayout,

	"line-height": CategoryTypography, "letter-spacing": CategoryTypography,
	"word-spacing": CategoryTypography, "white-space": CategoryTypography,
	"word-break": CategoryTypography, "overflow-wrap": CategoryTypography,
	"hyphens": CategoryTypography, "direction": CategoryTypography,
	"writing-mode": CategoryTypography, "tab-size": CategoryTypography,

	"color": CategoryColor, "background": CategoryColor, "opacity": CategoryColor,
	"fill": CategoryColor, "stroke": CategoryColor, "box-shadow": CategoryColor,
	"filter": CategoryColor, "mix-blend-mode": CategoryColor,

	"will-change": CategoryAnimation, "offset-path": CategoryAnimation,
}

var categoryPrefixes = []struct {
	prefix   string
	category string
}{
	{"margin", CategoryLayout},
	{"padding", CategoryLayout},
	{"flex", CategoryLayout},
	{"grid", CategoryLayout},
	{"align-", CategoryLayout},
	{"justify-", CategoryLayout},
	{"place-", CategoryLayout},
	{"overflow", CategoryLayout},
	{"inset-", CategoryLayout},
	{"font", CategoryTypography},
	{"text-", CategoryTypography},
	{"background-", CategoryColor},
	{"animation", CategoryAnimation},
	{"transition", CategoryAnimation},
	{"transform", CategoryAnimation},
}

// PropertyCategory buckets a property name into layout, typography, color,
// animation or other.
func PropertyCategory(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := propertyCategories[name]; ok {
		return c
	}
	if strings.HasSuffix(name, "-color") {
		return CategoryColor
	}
	for _, p := range categoryPrefixes {
		if strings.HasPrefix(name, p.prefix) {
			return p.category
		}
	}
	return CategoryOther
}

// categorySummary renders "color=1 layout=2" in category name order.
func categorySummary(props []model.Property) string {
	if len(props) == 0 {
		return ""
	}
	counts := make(map[string]int)
	for _, p := range props {
		counts[p.Category]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

func hasPrefixAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func itoa(n int) string { return strconv.Itoa(n) }
