package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/rtlsim/sim"
	"github.com/inference-sim/rtlsim/sim/trace"
)

var (
	// CLI flags for the simulation run
	designPath    string  // YAML design description
	numModels     int     // Number of independent model instances traced into one stream
	numCycles     int     // Number of evaluation cycles
	seed          int64   // Seed for stimulus generation
	ticksPerCycle uint64  // Simulation ticks advanced per cycle
	toggleProb    float64 // Per-signal probability of a new value each cycle
	periods       []uint  // Optional per-model clock periods in ticks
	traceLevel    string  // Trace verbosity
	codeAlign     uint32  // Alignment of each model's trace identifier range
	logLevel      string  // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rtlsim",
	Short: "Driver for compiled hardware model state containers",
}

// runCmd builds models from a design, drives them with random stimulus and traces them
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run models of a design and trace them into one stream",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		if designPath == "" {
			logrus.Fatalf("Design file not provided. Exiting simulation.")
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}
		design, err := sim.LoadDesign(designPath)
		if err != nil {
			logrus.Fatalf("unable to read design; %v", err)
		}
		if err := design.Validate(); err != nil {
			logrus.Fatalf("invalid design: %v", err)
		}

		logrus.Infof("Starting simulation of %q: %d models, %d cycles, seed=%d",
			design.Top, numModels, numCycles, seed)

		result, err := RunSimulation(design, RunConfig{
			Models:            numModels,
			Cycles:            numCycles,
			Seed:              seed,
			TicksPerCycle:     ticksPerCycle,
			ToggleProbability: toggleProb,
			Periods:           toUint64s(periods),
			Trace:             trace.TraceConfig{Level: trace.TraceLevel(traceLevel), Alignment: codeAlign},
		})
		if err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}
		result.Print(os.Stdout)

		logrus.Info("Simulation complete.")
	},
}

// validateCmd checks a design file without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a design file",
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevel()
		design, err := sim.LoadDesign(designPath)
		if err != nil {
			return err
		}
		if err := design.Validate(); err != nil {
			return err
		}
		root := design.Build("")
		fmt.Fprintf(cmd.OutOrStdout(), "design %q is valid: %d signals\n", root.Name(), root.SignalCount())
		return nil
	},
}

func toUint64s(in []uint) []uint64 {
	out := make([]uint64, len(in))
	for i, v := range in {
		out[i] = uint64(v)
	}
	return out
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&designPath, "design", "", "Path to YAML design description")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().IntVar(&numModels, "models", 1, "Number of model instances sharing one trace stream")
	runCmd.Flags().IntVar(&numCycles, "cycles", 100, "Number of evaluation cycles")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random stimulus generation")
	runCmd.Flags().Uint64Var(&ticksPerCycle, "ticks-per-cycle", 10, "Simulation ticks per evaluation cycle")
	runCmd.Flags().Float64Var(&toggleProb, "toggle-prob", 0.25, "Per-signal probability of a new value each cycle")
	runCmd.Flags().UintSliceVar(&periods, "periods", nil, "Comma-separated clock period per model in ticks (default: ticks-per-cycle)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "changes", "Trace level (none, changes)")
	runCmd.Flags().Uint32Var(&codeAlign, "align", 0, "Align each model's trace identifier range to this power of two")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
