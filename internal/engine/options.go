package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Option validation errors.
var (
	ErrInvalidTarget = errors.New("invalid target")
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidJSX    = errors.New("invalid jsx mode")
)

// Options configures an Engine.
type Options struct {
	// Target is the language level to down-level to (esnext, es5, es2015..es2022)
	Target string
	// Format is the module format (preserve, esm, cjs, iife)
	Format string
	// JSX selects how JSX is emitted (transform, preserve, automatic)
	JSX string
	// KeepNames preserves function and class names under renaming
	KeepNames bool
	// SourcesContent embeds the original source in emitted maps
	SourcesContent bool
	// TsconfigRaw is an inline tsconfig.json used for compiler options
	TsconfigRaw string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Target:         "esnext",
		Format:         "preserve",
		JSX:            "transform",
		SourcesContent: true,
	}
}

var targets = map[string]api.Target{
	"esnext": api.ESNext,
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
}

var formats = map[string]api.Format{
	"preserve": api.FormatDefault,
	"esm":      api.FormatESModule,
	"cjs":      api.FormatCommonJS,
	"iife":     api.FormatIIFE,
}

var jsxModes = map[string]api.JSX{
	"transform": api.JSXTransform,
	"preserve":  api.JSXPreserve,
	"automatic": api.JSXAutomatic,
}

// ParseTarget maps a target name to the engine's target. Empty means esnext.
func ParseTarget(name string) (api.Target, error) {
	if name == "" {
		return api.ESNext, nil
	}
	t, ok := targets[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTarget, name)
	}
	return t, nil
}

// Targets returns the accepted target names.
func Targets() []string {
	return []string{"esnext", "es5", "es2015", "es2016", "es2017", "es2018", "es2019", "es2020", "es2021", "es2022"}
}

// Validate checks that every enumerated option is known.
func (o Options) Validate() error {
	_, err := o.transformOptions()
	return err
}

func (o Options) transformOptions() (api.TransformOptions, error) {
	target, err := ParseTarget(o.Target)
	if err != nil {
		return api.TransformOptions{}, err
	}

	format := api.FormatDefault
	if o.Format != "" {
		f, ok := formats[strings.ToLower(o.Format)]
		if !ok {
			return api.TransformOptions{}, fmt.Errorf("%w: %q", ErrInvalidFormat, o.Format)
		}
		format = f
	}

	jsx := api.JSXTransform
	if o.JSX != "" {
		j, ok := jsxModes[strings.ToLower(o.JSX)]
		if !ok {
			return api.TransformOptions{}, fmt.Errorf("%w: %q", ErrInvalidJSX, o.JSX)
		}
		jsx = j
	}

	sourcesContent := api.SourcesContentExclude
	if o.SourcesContent {
		sourcesContent = api.SourcesContentInclude
	}

	return api.TransformOptions{
		Target:         target,
		Format:         format,
		JSX:            jsx,
		KeepNames:      o.KeepNames,
		SourcesContent: sourcesContent,
		TsconfigRaw:    o.TsconfigRaw,
		LogLevel:       api.LogLevelSilent,
		LogOverride:    LintOverrides(),
	}, nil
}

// lintMessages are esbuild's code-quality checks. They fire on valid code
// that transpiles fine, so they are not transform diagnostics.
var lintMessages = []string{
	"assign-to-constant",
	"assign-to-define",
	"assign-to-import",
	"call-import-namespace",
	"class-name-will-throw",
	"commonjs-variable-in-esm",
	"delete-super-property",
	"direct-eval",
	"duplicate-case",
	"duplicate-class-member",
	"duplicate-object-key",
	"empty-import-meta",
	"equals-nan",
	"equals-negative-zero",
	"equals-new-object",
	"html-comment-in-js",
	"impossible-typeof",
	"indirect-require",
	"private-name-will-throw",
	"semicolon-after-return",
	"suspicious-boolean-not",
	"suspicious-define",
	"suspicious-logical-operator",
	"suspicious-nullish-coalescing",
	"this-is-undefined-in-esm",
}

// LintOverrides returns a fresh LogOverride map silencing every lint check.
// Messages about constructs the target cannot express are left alone.
func LintOverrides() map[string]api.LogLevel {
	overrides := make(map[string]api.LogLevel, len(lintMessages))
	for _, id := range lintMessages {
		overrides[id] = api.LogLevelSilent
	}
	return overrides
}

// LoaderFor picks the loader from a logical file name's extension.
// Unknown or missing extensions are treated as TypeScript.
func LoaderFor(name string) api.Loader {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ts", ".mts", ".cts":
		return api.LoaderTS
	case ".tsx":
		return api.LoaderTSX
	case ".js", ".mjs", ".cjs":
		return api.LoaderJS
	case ".jsx":
		return api.LoaderJSX
	default:
		return api.LoaderTS
	}
}
