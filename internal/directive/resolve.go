package directive

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// Resolver turns raw directive lines into Arguments. Help and version
// output goes to Out; resolution itself has no other side effects.
type Resolver struct {
	Out io.Writer
}

// NewResolver creates a Resolver writing help/version text to out.
func NewResolver(out io.Writer) *Resolver {
	return &Resolver{Out: out}
}

// Resolve parses rawLine into a fully-defaulted Arguments value.
//
// A (nil, nil) return means "nothing to submit": the line asked for help or
// the version, both of which are answered on Out and are not errors. A
// *ParseError return means the line was malformed and no job may be
// submitted.
//
// NumEngines defaults from the final NumNodes value only when the user did
// not supply --num_engines, so "--num_nodes 4" alone yields 4 engines.
func (r *Resolver) Resolve(rawLine string) (*Arguments, error) {
	fields, err := shell.Fields(rawLine, nil)
	if err != nil {
		return nil, NewParseError("", err.Error())
	}

	args := &Arguments{
		Name:       DefaultName,
		NumNodes:   DefaultNumNodes,
		Queue:      DefaultQueue,
		Time:       DefaultTime,
		Constraint: DefaultConstraint,
	}
	enginesSet := false

	i := 0
	for i < len(fields) {
		tok := fields[i]
		i++

		switch tok {
		case "--help", "-h":
			fmt.Fprint(r.Out, usageText)
			return nil, nil

		case "--version", "-v":
			fmt.Fprintln(r.Out, Version)
			return nil, nil

		case "--name", "-J":
			v, err := takeValue(tok, fields, &i)
			if err != nil {
				return nil, err
			}
			args.Name = v

		case "--num_nodes", "-N":
			n, err := takeInt(tok, fields, &i)
			if err != nil {
				return nil, err
			}
			args.NumNodes = n

		case "--num_engines", "-n":
			n, err := takeInt(tok, fields, &i)
			if err != nil {
				return nil, err
			}
			args.NumEngines = n
			enginesSet = true

		case "--modules", "-m":
			mods := takeList(fields, &i)
			if len(mods) == 0 {
				return nil, NewParseError(tok, "expects at least one module name")
			}
			args.Modules = append(args.Modules, mods...)

		case "--env", "-e":
			v, err := takeValue(tok, fields, &i)
			if err != nil {
				return nil, err
			}
			args.Env = v

		case "--time", "-t":
			v, err := takeValue(tok, fields, &i)
			if err != nil {
				return nil, err
			}
			args.Time = v

		case "--dir", "-d":
			v, err := takeValue(tok, fields, &i)
			if err != nil {
				return nil, err
			}
			args.Dir = v

		case "--const", "-C":
			v, err := takeValue(tok, fields, &i)
			if err != nil {
				return nil, err
			}
			args.Constraint = v

		case "--queue", "-q":
			v, err := takeValue(tok, fields, &i)
			if err != nil {
				return nil, err
			}
			args.Queue = v

		default:
			return nil, NewParseError(tok, "unknown option")
		}
	}

	// Derived after default-merging: engines track the final node count.
	if !enginesSet {
		args.NumEngines = args.NumNodes
	}

	return args, nil
}

// takeValue consumes the value token following flag, advancing *i.
func takeValue(flag string, fields []string, i *int) (string, error) {
	if *i >= len(fields) || isFlag(fields[*i]) {
		return "", NewParseError(flag, "missing value")
	}
	v := fields[*i]
	*i++
	return v, nil
}

// takeInt consumes a positive integer value following flag.
func takeInt(flag string, fields []string, i *int) (int, error) {
	v, err := takeValue(flag, fields, i)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(v)
	if convErr != nil {
		return 0, NewParseError(flag, fmt.Sprintf("expects an integer, got %q", v))
	}
	if n < 1 {
		return 0, NewParseError(flag, fmt.Sprintf("expects a positive integer, got %d", n))
	}
	return n, nil
}

// takeList consumes every token up to the next flag, advancing *i.
func takeList(fields []string, i *int) []string {
	var out []string
	for *i < len(fields) && !isFlag(fields[*i]) {
		out = append(out, fields[*i])
		*i++
	}
	return out
}

func isFlag(tok string) bool {
	return strings.HasPrefix(tok, "-") && tok != "-"
}
