// Package script renders the launch script, the batch script, and the
// scheduler command line from a fixed set of shell templates. Output is
// deterministic for identical inputs; the package performs no I/O beyond
// writing to the sinks it is handed.
package script

import (
	"io"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// DefaultInterface is the interconnect interface the controller binds to
// when none is configured.
const DefaultInterface = "ipogif0"

// JobFields carries the scheduler-facing job parameters for the #SBATCH
// header and the allocation command line.
type JobFields struct {
	Name       string
	Queue      string
	NumNodes   int
	Time       string
	Constraint string
}

// Composer renders script fragments in a strict order. The zero value
// uses DefaultInterface.
type Composer struct {
	Interface string // interface for controller address discovery
}

// NewComposer creates a Composer resolving the controller address on iface
// (DefaultInterface when empty).
func NewComposer(iface string) *Composer {
	if iface == "" {
		iface = DefaultInterface
	}
	return &Composer{Interface: iface}
}

func (c *Composer) iface() string {
	if c.Interface == "" {
		return DefaultInterface
	}
	return c.Interface
}

// LaunchScript writes the per-engine startup script: module loads in user
// order, then the environment activation, then one engine start.
func (c *Composer) LaunchScript(w io.Writer, modules []string, env string) error {
	if err := writeModules(w, modules); err != nil {
		return err
	}
	if err := writeEnv(w, env); err != nil {
		return err
	}
	return engineTpl.Execute(w, nil)
}

// BatchScript writes the allocation-level script: the same module/env
// preamble, then the cluster-launch fragment that starts one controller
// and numEngines engines via the launch script at launchScript.
func (c *Composer) BatchScript(w io.Writer, modules []string, env string, numEngines int, launchScript string) error {
	if err := writeModules(w, modules); err != nil {
		return err
	}
	if err := writeEnv(w, env); err != nil {
		return err
	}
	return clusterTpl.Execute(w, struct {
		Interface    string
		NumEngines   int
		LaunchScript string
	}{
		Interface:    Quote(c.iface()),
		NumEngines:   numEngines,
		LaunchScript: Quote(launchScript),
	})
}

// BatchHeader writes the #SBATCH preamble used in sbatch mode. It must be
// the first write into the batch script so the shebang stays on line one.
func (c *Composer) BatchHeader(w io.Writer, job JobFields) error {
	return headerTpl.Execute(w, quotedJob(job))
}

func writeModules(w io.Writer, modules []string) error {
	for _, mod := range modules {
		err := moduleTpl.Execute(w, struct{ Module string }{Module: Quote(mod)})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeEnv(w io.Writer, env string) error {
	if env == "" {
		return nil
	}
	return envTpl.Execute(w, struct{ Env string }{Env: Quote(env)})
}

// SallocLine renders the interactive-allocation command referencing the
// batch script at batchScript.
func SallocLine(job JobFields, batchScript string) string {
	var b strings.Builder
	_ = sallocTpl.Execute(&b, struct {
		Job    quotedJobFields
		Script string
	}{
		Job:    quotedJob(job),
		Script: Quote(batchScript),
	})
	return b.String()
}

// SbatchLine renders the batch-queue submission command. The rendered line
// blocks until the job completes, so the scripts it references stay on disk
// for the whole run.
func SbatchLine(batchScript string) string {
	var b strings.Builder
	_ = sbatchTpl.Execute(&b, struct{ Script string }{Script: Quote(batchScript)})
	return b.String()
}

type quotedJobFields struct {
	Name       string
	Queue      string
	NumNodes   int
	Time       string
	Constraint string
}

func quotedJob(job JobFields) quotedJobFields {
	return quotedJobFields{
		Name:       Quote(job.Name),
		Queue:      Quote(job.Queue),
		NumNodes:   job.NumNodes,
		Time:       Quote(job.Time),
		Constraint: Quote(job.Constraint),
	}
}

// Quote shell-quotes s for safe use as a single word in generated
// scripts and command lines.
func Quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Only null bytes are unrepresentable; they cannot survive a shell
		// word anyway, so drop them.
		q, _ = syntax.Quote(strings.ReplaceAll(s, "\x00", ""), syntax.LangBash)
	}
	return q
}
