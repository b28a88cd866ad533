// Package directive parses notebook-style cluster directives into a
// validated argument set ready for script generation and submission.
package directive

// Version is the string printed by the directive's --version flag.
const Version = "ipclaunch 0.1.0"

// Defaults applied to options the user did not supply.
const (
	DefaultName       = "ipyparallel"
	DefaultNumNodes   = 1
	DefaultQueue      = "interactive"
	DefaultTime       = "30:00"
	DefaultConstraint = "haswell"
)

// Arguments is the resolved option set of one directive. Every field has a
// defined value after Resolve; Modules and Env/Dir may be empty (absent).
type Arguments struct {
	Name       string   // job name
	NumNodes   int      // nodes in the allocation
	NumEngines int      // engine processes; defaults to NumNodes
	Modules    []string // modules to load, in user order
	Env        string   // conda env to activate ("" = none)
	Queue      string   // SLURM queue
	Time       string   // wall-clock limit, scheduler format
	Constraint string   // SLURM constraint
	Dir        string   // launch directory ("" = scheduler default)
}

const usageText = `Launch an IPyParallel cluster on SLURM.

Usage:
  ipclaunch submit [options]
  ipclaunch submit [options] -m <modules>...
  ipclaunch submit (-h | --help)
  ipclaunch submit --version

Options:
  -h --help                Show this screen.
  -v --version             Show version.
  -N --num_nodes <int>     Number of nodes (default 1).
  -n --num_engines <int>   Number of engines (default 1 per node).
  -m --modules <str>...    Modules to load (default none).
  -e --env <str>           Conda env to activate (default none).
  -t --time <time>         Time limit (default 30:00).
  -d --dir <path>          Directory to launch engines (default $HOME).
  -C --const <str>         SLURM constraint (default haswell).
  -q --queue <str>         SLURM queue (default interactive).
  -J --name <str>          Job name (default ipyparallel).
`

// Usage returns the directive's usage text.
func Usage() string {
	return usageText
}
