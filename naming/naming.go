// Package naming computes the identifiers of generated declarations.
//
// Each rule is an expr-lang expression evaluated against an [Env]:
//
//	variant:       Subset + trimPrefix(Variant, Enum)
//	from_original: "As" + Subset
//
// so that Boxer and CanisBoxer both become DogBoxer in subset Dog of Canis.
package naming

import (
	"fmt"
	"go/token"
	"reflect"

	"github.com/signadot/subenum/debug"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the environment of a naming rule. Variant is empty for rules that
// name per-subset declarations.
type Env struct {
	Enum    string
	Subset  string
	Variant string
}

// Config holds the source of each rule. Empty fields take the default.
type Config struct {
	Variant       string `yaml:"variant,omitempty"`
	ToOriginal    string `yaml:"to_original,omitempty"`
	FromOriginal  string `yaml:"from_original,omitempty"`
	EqualSubset   string `yaml:"equal_subset,omitempty"`
	EqualOriginal string `yaml:"equal_original,omitempty"`
	Member        string `yaml:"member,omitempty"`
	Values        string `yaml:"values,omitempty"`
}

// DefaultConfig returns the default rules.
func DefaultConfig() Config {
	return Config{
		Variant:       `Subset + trimPrefix(Variant, Enum)`,
		ToOriginal:    `Enum`,
		FromOriginal:  `"As" + Subset`,
		EqualSubset:   `"Equal" + Enum`,
		EqualOriginal: `"Equal" + Subset`,
		Member:        `"Is" + Subset`,
		Values:        `Subset + "Values"`,
	}
}

// Rule identifies one naming rule.
type Rule int

const (
	VariantRule Rule = iota
	ToOriginalRule
	FromOriginalRule
	EqualSubsetRule
	EqualOriginalRule
	MemberRule
	ValuesRule
	numRules
)

var ruleNames = [numRules]string{
	"variant",
	"to_original",
	"from_original",
	"equal_subset",
	"equal_original",
	"member",
	"values",
}

func (r Rule) String() string {
	if r < 0 || r >= numRules {
		return fmt.Sprintf("Rule(%d)", int(r))
	}
	return ruleNames[r]
}

// Rules are compiled naming rules. They hold no mutable state and may be
// shared between concurrent expansions.
type Rules struct {
	src   [numRules]string
	progs [numRules]*vm.Program
}

// Compile compiles cfg, filling empty fields from DefaultConfig.
func Compile(cfg Config) (*Rules, error) {
	def := DefaultConfig()
	srcs := [numRules]string{
		or(cfg.Variant, def.Variant),
		or(cfg.ToOriginal, def.ToOriginal),
		or(cfg.FromOriginal, def.FromOriginal),
		or(cfg.EqualSubset, def.EqualSubset),
		or(cfg.EqualOriginal, def.EqualOriginal),
		or(cfg.Member, def.Member),
		or(cfg.Values, def.Values),
	}
	r := &Rules{src: srcs}
	for i, src := range srcs {
		prg, err := expr.Compile(src, expr.Env(Env{}), expr.AsKind(reflect.String))
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s naming rule %q: %w", Rule(i), src, err)
		}
		r.progs[i] = prg
	}
	return r, nil
}

// Default returns the compiled default rules.
func Default() *Rules {
	r, err := Compile(Config{})
	if err != nil {
		panic(err)
	}
	return r
}

func or(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Name evaluates rule against env. The result must be a Go identifier.
func (r *Rules) Name(rule Rule, env Env) (string, error) {
	if rule < 0 || rule >= numRules {
		return "", fmt.Errorf("unknown naming rule %d", rule)
	}
	out, err := expr.Run(r.progs[rule], env)
	if err != nil {
		return "", fmt.Errorf("%s naming rule %q: %w", rule, r.src[rule], err)
	}
	name, _ := out.(string)
	if debug.Naming() {
		debug.Logf("naming: %s %+v -> %q\n", rule, env, name)
	}
	if !token.IsIdentifier(name) {
		return "", fmt.Errorf("%s naming rule %q produced %q, which is not an identifier", rule, r.src[rule], name)
	}
	return name, nil
}

// Variant names the constant of variant in subset.
func (r *Rules) Variant(enum, subset, variant string) (string, error) {
	return r.Name(VariantRule, Env{Enum: enum, Subset: subset, Variant: variant})
}
