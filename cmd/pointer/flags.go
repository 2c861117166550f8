package main

import "github.com/urfave/cli/v2"

const (
	globalConfig     = "config"
	globalLogLevel   = "log-level"
	globalCPUProfile = "cpuprofile"

	analyzeSensitivity = "sensitivity"
	analyzeHeap        = "heap"
	analyzeEntry       = "entry"
	analyzeMetrics     = "metrics"
	analyzeCHA         = "cha"
)

var (
	globalFlags = []cli.Flag{
		&cli.StringFlag{
			Name:  globalConfig,
			Usage: "YAML file with analysis options. Flags override its values.",
		},
		&cli.StringFlag{
			Name:  globalLogLevel,
			Usage: "Log level (trace, debug, info, warn, error).",
		},
		&cli.StringFlag{
			Name:  globalCPUProfile,
			Usage: "Write a CPU profile to `FILE`.",
		},
	}

	commonFlags = []cli.Flag{
		&cli.StringSliceFlag{
			Name:  analyzeEntry,
			Usage: "Additional entry method, e.g. \"Handler.run(Request)\". May be repeated.",
		},
	}

	analyzeFlags = mergeFlags(commonFlags, []cli.Flag{
		&cli.StringFlag{
			Name:  analyzeSensitivity,
			Usage: "Context sensitivity: ci, k-call, k-obj or k-type.",
		},
		&cli.StringFlag{
			Name:  analyzeHeap,
			Usage: "Heap model: site or type.",
		},
		&cli.BoolFlag{
			Name:  analyzeMetrics,
			Usage: "Print solver metrics in Prometheus text format.",
		},
		&cli.BoolFlag{
			Name:  analyzeCHA,
			Usage: "Also build the CHA call graph and report the methods it adds.",
		},
	})
)

func mergeFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}
