package procedure

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Var is a single template variable. Value is converted with fmt.Sprint
// when it is substituted.
type Var struct {
	Name  string
	Value any
}

// Vars is an ordered list of template variables. Substitution replaces
// variables in list order.
type Vars []Var

// VarsFromMap builds Vars from m, sorted by name.
func VarsFromMap(m map[string]any) Vars {
	vars := make(Vars, 0, len(m))
	for k, v := range m {
		vars = append(vars, Var{Name: k, Value: v})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}

// Lookup returns the value of the first variable called name.
func (v Vars) Lookup(name string) (any, bool) {
	for _, e := range v {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// Names returns the variable names in order.
func (v Vars) Names() []string {
	names := make([]string, len(v))
	for i, e := range v {
		names[i] = e.Name
	}
	return names
}

func (v Vars) clone() Vars {
	if v == nil {
		return nil
	}
	return append(Vars(nil), v...)
}

// MissingVariablesError reports placeholders that have no variable.
type MissingVariablesError struct {
	Names []string // sorted
}

func (e *MissingVariablesError) Error() string {
	return "Missing required template variables: " + strings.Join(e.Names, ", ")
}

var placeholderRe = regexp.MustCompile(`\{([A-Z_][A-Z0-9_]*)\}`)

// Placeholders returns the distinct placeholder names in text, sorted.
func Placeholders(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	sort.Strings(names)
	return names
}

// MissingVariables returns the placeholder names in text that vars does not define.
func MissingVariables(text string, vars Vars) []string {
	var missing []string
	for _, name := range Placeholders(text) {
		if _, ok := vars.Lookup(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Substitute replaces every {NAME} placeholder in text. If any placeholder
// has no variable, text is left untouched and a *MissingVariablesError is
// returned.
//
// Every variable in vars is replaced literally, in order, even ones text
// never mentions. A value that itself contains "{OTHER}" can be rewritten
// by a later variable.
func Substitute(text string, vars Vars) (string, error) {
	if missing := MissingVariables(text, vars); len(missing) > 0 {
		return "", &MissingVariablesError{Names: missing}
	}
	result := text
	for _, v := range vars {
		result = strings.ReplaceAll(result, "{"+v.Name+"}", fmt.Sprint(v.Value))
	}
	return result, nil
}
