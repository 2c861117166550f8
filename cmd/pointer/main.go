package main

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	pointer "github.com/BarrensZeppelin/pta"
	"github.com/BarrensZeppelin/pta/cha"
	"github.com/BarrensZeppelin/pta/config"
	"github.com/BarrensZeppelin/pta/internal/slices"
	"github.com/BarrensZeppelin/pta/ir"
	"github.com/BarrensZeppelin/pta/irload"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "pointer",
		Usage:     "Pointer analysis and call graph construction",
		ArgsUsage: "PROGRAM.yaml",
		Flags:     globalFlags,
		Before:    setupLogging,
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Run the pointer analysis",
				ArgsUsage: "PROGRAM.yaml",
				Flags:     analyzeFlags,
				Action:    withProfile(runAnalyze),
			},
			{
				Name:      "cha",
				Usage:     "Build the call graph by class hierarchy analysis",
				ArgsUsage: "PROGRAM.yaml",
				Flags:     commonFlags,
				Action:    withProfile(runCHA),
			},
		},
	}
}

func setupLogging(c *cli.Context) error {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	opts, err := loadOptions(c)
	if err != nil {
		return err
	}
	lvl, err := opts.Level()
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	return nil
}

// loadOptions reads the config file, if any, and applies the flags set on
// the command line on top of it.
func loadOptions(c *cli.Context) (*config.Options, error) {
	opts := config.Default()
	if path := c.String(globalConfig); path != "" {
		var err error
		if opts, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if c.IsSet(globalLogLevel) {
		opts.LogLevel = c.String(globalLogLevel)
	}
	if c.IsSet(analyzeSensitivity) {
		opts.Sensitivity = c.String(analyzeSensitivity)
	}
	if c.IsSet(analyzeHeap) {
		opts.HeapModel = c.String(analyzeHeap)
	}
	opts.Entries = append(opts.Entries, c.StringSlice(analyzeEntry)...)
	return opts, opts.Validate()
}

func withProfile(action cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		path := c.String(globalCPUProfile)
		if path == "" {
			return action(c)
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logrus.Errorf("Failed to close %s: %v", path, err)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		return action(c)
	}
}

// loadProgram loads the program named by the first argument and resolves
// the entry methods of opts in it.
func loadProgram(c *cli.Context, opts *config.Options) (*ir.Program, []*ir.Method, error) {
	if c.NArg() != 1 {
		return nil, nil, fmt.Errorf("expected exactly one program file, got %d arguments", c.NArg())
	}

	prog, err := irload.LoadProgramFile(c.Args().First())
	if err != nil {
		return nil, nil, err
	}
	logrus.Infof("Loaded %d classes and %d methods",
		len(prog.Hierarchy.Classes()), len(prog.Methods()))

	if opts.Entry != "" {
		if prog.Main = prog.Method(opts.Entry); prog.Main == nil {
			return nil, nil, fmt.Errorf("entry method %s not found", opts.Entry)
		}
	}

	var entries []*ir.Method
	for _, sig := range opts.Entries {
		m := prog.Method(sig)
		if m == nil {
			return nil, nil, fmt.Errorf("entry method %s not found", sig)
		}
		entries = append(entries, m)
	}
	return prog, entries, nil
}

func runAnalyze(c *cli.Context) error {
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}
	prog, entries, err := loadProgram(c, opts)
	if err != nil {
		return err
	}

	sel, err := opts.Selector()
	if err != nil {
		return err
	}
	h, err := opts.Heap()
	if err != nil {
		return err
	}

	res, err := pointer.Analyze(pointer.AnalysisConfig{
		Program:  prog,
		Entries:  entries,
		Heap:     h,
		Selector: sel,
		Logger:   logrus.StandardLogger(),
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out := c.App.Writer
	cg := res.CallGraph()
	fmt.Fprintf(out, "%d reachable methods (%d under contexts)\n",
		cg.NumReachable(), res.CSCallGraph().NumReachable())
	fmt.Fprintf(out, "%d call edges (%d under contexts)\n",
		cg.NumEdges(), res.CSCallGraph().NumEdges())
	fmt.Fprintf(out, "%d abstract objects\n", len(res.Objects()))
	fmt.Fprintf(out, "digest %016x\n", res.Digest())
	printGroups(out, cg.RecursiveGroups())

	if c.Bool(analyzeCHA) {
		chaGraph := cha.Build(prog, entries...)
		var extra []*ir.Method
		for _, m := range chaGraph.Reachable() {
			if !cg.Contains(m) {
				extra = append(extra, m)
			}
		}
		fmt.Fprintf(out, "CHA: %d reachable methods, %d call edges, %d not reached by the pointer analysis\n",
			chaGraph.NumReachable(), chaGraph.NumEdges(), len(extra))
		for _, m := range extra {
			fmt.Fprintf(out, "  %v\n", m)
		}
	}

	if c.Bool(analyzeMetrics) {
		res.Metrics().WritePrometheus(out)
	}
	return nil
}

func runCHA(c *cli.Context) error {
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}
	prog, entries, err := loadProgram(c, opts)
	if err != nil {
		return err
	}

	g := cha.Build(prog, entries...)
	out := c.App.Writer
	fmt.Fprintf(out, "%d reachable methods\n", g.NumReachable())
	fmt.Fprintf(out, "%d call edges\n", g.NumEdges())
	printGroups(out, g.RecursiveGroups())
	return nil
}

func printGroups(w io.Writer, groups [][]*ir.Method) {
	for _, g := range groups {
		fmt.Fprintf(w, "recursive: %s\n", strings.Join(slices.Map(g, (*ir.Method).String), ", "))
	}
}
