package gen

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words the default inflect rules truncate ("status" -> "statu").
// Singular forms map to themselves, plural forms to their singular.
var inflections = []struct{ singular, plural string }{
	{"alias", "aliases"},
	{"bus", "buses"},
	{"status", "statuses"},
}

func init() {
	for _, w := range inflections {
		inflect.AddPlural(w.singular, w.plural)
		inflect.AddSingular(w.plural, w.singular)
		inflect.AddSingular(w.singular, w.singular)
	}
}

// Recase converts val to the given casing rule, singularizing it first when
// singular is set. CaseOriginal returns val unchanged.
func Recase(c Case, val string, singular bool) string {
	if singular && val != "" {
		val = Singularize(val)
	}
	if val == "" {
		return ""
	}
	switch c {
	case CaseCamel:
		return camel(val)
	case CaseSnake:
		return snake(val)
	case CasePascal:
		return pascal(val)
	case CaseUpper:
		return cases.Upper(language.Und).String(snake(val))
	case CaseKebab:
		return strings.Join(lowerWords(val), "-")
	default:
		return val
	}
}

// Pluralize returns the plural form of s. Words whose plural equals their
// singular (uncountables) get an "s" appended.
func Pluralize(s string) string {
	p := inflect.Pluralize(s)
	if p == inflect.Singularize(s) {
		p += "s"
	}
	return p
}

// Singularize returns the singular form of s.
func Singularize(s string) string {
	return inflect.Singularize(s)
}

// ModelName returns the identifier of the model generated for table.
// Reserved words, and for TypeScript the names imported from sequelize,
// get an underscore suffix.
func ModelName(c Case, table string, singular bool, lang Lang) string {
	name := Recase(c, table, singular)
	if _, ok := reservedWords[name]; ok {
		return name + "_"
	}
	if _, ok := tsNames[name]; ok && lang == LangTS {
		return name + "_"
	}
	return name
}

// words splits s into words: runs of letters and digits, broken at
// lower-to-upper transitions, at the end of acronyms ("HTTPCode" is
// "HTTP", "Code") and between letters and digits.
func words(s string) []string {
	var (
		out []string
		cur []rune
		rs  = []rune(s)
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

func lowerWords(s string) []string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return ws
}

func camel(s string) string {
	title := cases.Title(language.Und)
	ws := lowerWords(s)
	for i := 1; i < len(ws); i++ {
		ws[i] = title.String(ws[i])
	}
	return strings.Join(ws, "")
}

func pascal(s string) string {
	c := camel(s)
	r, n := utf8.DecodeRuneInString(c)
	if n == 0 {
		return c
	}
	return string(unicode.ToUpper(r)) + c[n:]
}

func snake(s string) string {
	return strings.Join(lowerWords(s), "_")
}

func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{})
	for i := range ids {
		m[ids[i]] = struct{}{}
	}
	return m
}

var (
	// JavaScript reserved words and literals.
	reservedWords = names(
		"abstract", "arguments", "await", "boolean", "break", "byte", "case", "catch",
		"char", "class", "const", "continue", "debugger", "default", "delete", "do",
		"double", "else", "enum", "eval", "export", "extends", "false", "final",
		"finally", "float", "for", "function", "goto", "if", "implements", "import",
		"in", "instanceof", "int", "interface", "let", "long", "native", "new",
		"null", "package", "private", "protected", "public", "return", "short", "static",
		"super", "switch", "synchronized", "this", "throw", "throws", "transient", "true",
		"try", "typeof", "var", "void", "volatile", "while", "with", "yield",
		"undefined", "NaN", "Infinity",
	)
	// identifiers imported from sequelize by TypeScript models.
	tsNames = names("DataTypes", "Model", "Optional", "Sequelize")
)
