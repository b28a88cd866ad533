package config

import (
	"errors"
	"os"
	"os/exec"
)

const VERSION = "0.1.0"

// Submit modes. Salloc runs the batch script inside an interactive
// allocation; Sbatch hands it to the batch queue with an #SBATCH header.
const (
	ModeSalloc = "salloc"
	ModeSbatch = "sbatch"
)

// ErrScratchUnset indicates no scratch directory is configured for
// transient job scripts. Submission aborts before any artifact is created.
var ErrScratchUnset = errors.New("scratch directory not set (set $SCRATCH or scratch_dir in the config file)")

// Config holds global application settings
type Config struct {
	Debug            bool
	ScratchDir       string // root for transient launch/batch scripts
	SubmitMode       string // ModeSalloc or ModeSbatch
	NetworkInterface string // interface the controller binds to inside the allocation
	ShellBin         string // shell used to run the scheduler command line

	SallocBin string
	SbatchBin string
	SrunBin   string
}

// Global holds the singleton configuration instance
var Global Config

func LoadDefaults() {
	Global = Config{
		Debug:            false,
		ScratchDir:       os.Getenv("SCRATCH"),
		SubmitMode:       ModeSalloc,
		NetworkInterface: "ipogif0", // Cray Aries interconnect
		ShellBin:         "bash",
	}
}

// DetectSchedulerBins looks up the SLURM client binaries on PATH and
// records their full paths. Missing binaries leave the fields empty;
// submission itself only shells out, so detection is informational.
func DetectSchedulerBins() {
	if path, err := exec.LookPath("salloc"); err == nil {
		Global.SallocBin = path
	}
	if path, err := exec.LookPath("sbatch"); err == nil {
		Global.SbatchBin = path
	}
	if path, err := exec.LookPath("srun"); err == nil {
		Global.SrunBin = path
	}
}

// IsInsideJob checks if we're currently running inside a SLURM allocation.
// Submitting from inside a job would nest allocations.
func IsInsideJob() bool {
	_, ok := os.LookupEnv("SLURM_JOB_ID")
	return ok
}
