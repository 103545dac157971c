package engine

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/mcauth/internal/core"
)

// AccountView is what a filter expression sees of an account, as `account`.
type AccountView struct {
	Username string
	Provider string
	Status   string
	State    string
	Profile  string
	Profiles []string
	Active   bool
	LoggedIn bool
}

// NewAccountView snapshots acc.
func NewAccountView(acc core.Account, active bool) AccountView {
	view := AccountView{
		Username: acc.LoginUsername(),
		Provider: acc.Type().ID(),
		Status:   acc.Status().String(),
		State:    acc.State().String(),
		Active:   active,
		LoggedIn: acc.Status() == core.StatusVerified,
	}
	if p, ok := acc.CurrentProfile(); ok {
		view.Profile = p.Name()
	}
	for _, p := range acc.Profiles() {
		view.Profiles = append(view.Profiles, p.Name())
	}
	return view
}

// Filter is a compiled boolean expression over an account.
type Filter struct {
	source  string
	program *vm.Program
}

// Compile compiles code, e.g. `account.LoggedIn && "Notch" in account.Profiles`.
func Compile(code string) (*Filter, error) {
	program, err := expr.Compile(code,
		expr.Env(map[string]any{
			"account": AccountView{},
		}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compiling filter '%s': %w", code, err)
	}
	return &Filter{source: code, program: program}, nil
}

func (f *Filter) String() string {
	return f.source
}

// Match reports whether the view satisfies the filter. Evaluation errors never match.
func (f *Filter) Match(view AccountView) bool {
	ok, err := expr.Run(f.program, map[string]any{
		"account": view,
	})
	if err != nil {
		log.Warn().Err(err).Msgf("error evaluating filter '%s'", f.source)
		return false
	}
	b, bOk := ok.(bool)
	return bOk && b
}
