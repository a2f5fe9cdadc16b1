package printing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"maps"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine compiles HTML templates with the catalogue function set.
// It uses Go's html/template package, so substituted values are escaped
// according to their context.
type TemplateEngine struct {
	funcMap        template.FuncMap
	currencySymbol string
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithCurrencySymbol sets the symbol prepended by formatPrice
func WithCurrencySymbol(symbol string) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.currencySymbol = symbol
	}
}

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{}

	e.funcMap = template.FuncMap{
		// Number formatting
		"formatPrice": func(v interface{}) string {
			return formatPrice(e.currencySymbol, v)
		},
		"formatDecimal": formatDecimal,

		// String utilities
		"truncate": truncate,
		"title":    titleCase,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"trim":     strings.TrimSpace,

		// Arithmetic and sequences
		"add": add,
		"seq": seq,

		// Conditional
		"default": defaultFunc,
		"empty":   empty,

		// Safe CSS
		"safeCSS": safeCSS,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CompiledTemplate is a parsed template ready to be executed many times
type CompiledTemplate struct {
	tmpl *template.Template
}

// Compile parses a template once. Parse errors are returned as produced by
// html/template.
func (e *TemplateEngine) Compile(name, content string) (*CompiledTemplate, error) {
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return nil, err
	}
	return &CompiledTemplate{tmpl: tmpl}, nil
}

// Name returns the template name
func (t *CompiledTemplate) Name() string {
	return t.tmpl.Name()
}

// Execute renders the template with the provided data.
// Execution errors are returned as produced by html/template.
func (t *CompiledTemplate) Execute(data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// =============================================================================
// Template Functions - Number Formatting
// =============================================================================

// formatPrice formats a price with two decimals and thousand separators.
// Example: 1234.5 -> "$1,234.50"
func formatPrice(symbol string, v interface{}) string {
	if v == nil {
		return ""
	}
	d := toDecimal(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	return sign + symbol + result.String() + "." + decPart
}

// formatDecimal formats a decimal with specified precision
func formatDecimal(v interface{}, precision int) string {
	return toDecimal(v).StringFixed(int32(precision))
}

// =============================================================================
// Template Functions - String Utilities
// =============================================================================

// truncate truncates a value to max runes, appending "..." when shortened
func truncate(v interface{}, max int) string {
	s := toString(v)
	const suffix = "..."
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= len(suffix) {
		return suffix[:max]
	}
	return string(runes[:max-len(suffix)]) + suffix
}

// titleCase converts a value to title case using proper Unicode handling
func titleCase(v interface{}) string {
	caser := cases.Title(language.English)
	return caser.String(toString(v))
}

// =============================================================================
// Template Functions - Arithmetic
// =============================================================================

func add(a, b interface{}) decimal.Decimal {
	return toDecimal(a).Add(toDecimal(b))
}

// seq generates a sequence of integers from 0 to n-1
func seq(n int) []int {
	if n <= 0 {
		return []int{}
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// =============================================================================
// Template Functions - Conditional
// =============================================================================

func empty(v interface{}) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	case int:
		return val == 0
	case float64:
		return val == 0
	case bool:
		return !val
	}
	return false
}

func defaultFunc(def, val interface{}) interface{} {
	if empty(val) {
		return def
	}
	return val
}

// safeCSS marks a string as safe CSS, bypassing automatic escaping.
// Only use with trusted content.
func safeCSS(v interface{}) template.CSS {
	return template.CSS(toString(v))
}

// =============================================================================
// Helper Functions
// =============================================================================

// toDecimal converts various types to decimal.Decimal
func toDecimal(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int32:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float32:
		return decimal.NewFromFloat(float64(val))
	case float64:
		return decimal.NewFromFloat(val)
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// toString renders a template value as plain text, nil becomes ""
func toString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
