package script

import "text/template"

// The shell fragments below are opaque format strings keyed by named
// fields. Every user-supplied value is shell-quoted before substitution,
// so a field never splits into additional words or commands.

// headerTemplate is the #SBATCH preamble used in sbatch mode.
const headerTemplate = `#!/bin/bash -l
#SBATCH -J {{.Name}}
#SBATCH -q {{.Queue}}
#SBATCH -N {{.NumNodes}}
#SBATCH -t {{.Time}}
#SBATCH -C {{.Constraint}}
#SBATCH -L SCRATCH
`

// sallocTemplate is the interactive-allocation command line.
const sallocTemplate = `salloc -J {{.Job.Name}} -q {{.Job.Queue}} -N {{.Job.NumNodes}} -t {{.Job.Time}} -C {{.Job.Constraint}} bash {{.Script}}`

// sbatchTemplate is the batch-queue command line. --wait holds the command
// open until the job finishes; a bare sbatch returns at queue acceptance,
// before the spooled script has read the launch script it references.
const sbatchTemplate = `sbatch --wait {{.Script}}`

// moduleTemplate loads one module per fill.
const moduleTemplate = `
# Load modules
mod={{.Module}}
module load "$mod"
echo "Loaded module $mod"
export PATH=$PYTHONUSERBASE/bin:$PATH
`

// envTemplate activates one conda environment.
const envTemplate = `
# Load conda env
env={{.Env}}
source activate "$env"
echo "Loaded env $env"
`

// engineTemplate starts a single cluster engine.
const engineTemplate = `
ipengine
echo "Started engine."
`

// clusterTemplate discovers the allocation-local address, starts the
// controller bound to it, and fans the launch script out across the
// allocation with srun.
const clusterTemplate = `
# Start controller
myip=$(ip addr show {{.Interface}} | grep '10\.' | awk '{print $2}' | awk -F'/' '{print $1}')
echo "My ip is '$myip'."
ipcontroller --ip="$myip" &
echo "Started controller"

# Start engines
srun -n {{.NumEngines}} bash {{.LaunchScript}}
echo "Started engines."
`

var (
	headerTpl  = template.Must(template.New("header").Parse(headerTemplate))
	sallocTpl  = template.Must(template.New("salloc").Parse(sallocTemplate))
	sbatchTpl  = template.Must(template.New("sbatch").Parse(sbatchTemplate))
	moduleTpl  = template.Must(template.New("module").Parse(moduleTemplate))
	envTpl     = template.Must(template.New("env").Parse(envTemplate))
	engineTpl  = template.Must(template.New("engine").Parse(engineTemplate))
	clusterTpl = template.Must(template.New("cluster").Parse(clusterTemplate))
)
