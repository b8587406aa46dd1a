package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/weekplan/internal/domain"
)

// enumValue is a flag restricted to a fixed set of string values, so a typo
// fails at parse time with the allowed list.
type enumValue[T ~string] struct {
	target  *T
	allowed []T
}

var _ pflag.Value = (*enumValue[domain.Category])(nil)

func (e *enumValue[T]) String() string {
	if e.target == nil {
		return ""
	}
	return string(*e.target)
}

func (e *enumValue[T]) Set(s string) error {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(e.allowed, v) {
		return fmt.Errorf("must be one of %s", joinKeys(e.allowed))
	}
	*e.target = v
	return nil
}

func (e *enumValue[T]) Type() string { return "string" }

func enumVar[T ~string](fs *pflag.FlagSet, p *T, name string, allowed []T, usage string) {
	fs.Var(&enumValue[T]{target: p, allowed: allowed}, name, usage+": "+joinKeys(allowed))
}
