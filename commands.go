package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"qtermopt/circuit"
	"qtermopt/compile"
	"qtermopt/fidelity"
	"qtermopt/gen"
	"qtermopt/route"
)

// compileFlags are the pass options shared by optimize and view.
type compileFlags struct {
	configPath   string
	fidelityPath string
	noCancel     bool
	noRoute      bool
	order        string
	strategy     string
}

func (f *compileFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML config file with pass options")
	fl.StringVarP(&f.fidelityPath, "fidelity", "f", "", "fidelity model (YAML or JSON); routing is skipped without one")
	fl.BoolVar(&f.noCancel, "no-cancel", false, "disable gate cancellation")
	fl.BoolVar(&f.noRoute, "no-route", false, "disable qubit routing")
	fl.StringVar(&f.order, "order", "", "pass order: cancel-first or route-first")
	fl.StringVar(&f.strategy, "strategy", "", "routing strategy: greedy or rank")
}

// resolve merges the config file and flags into compile options and loads
// the fidelity model, if any. Routing without a model is switched off with
// a warning.
func (f *compileFlags) resolve(cmd *cobra.Command) (compile.Options, *route.FidelityModel, compile.Config, error) {
	cfg := compile.DefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = compile.LoadConfig(f.configPath); err != nil {
			return compile.Options{}, nil, cfg, err
		}
	}
	if f.noCancel {
		cfg.Passes.Cancel = false
	}
	if f.noRoute {
		cfg.Passes.Route = false
	}
	if cmd.Flags().Changed("order") {
		cfg.Order = f.order
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy = f.strategy
	}
	if f.fidelityPath != "" {
		cfg.Fidelity = f.fidelityPath
	}

	opts, err := cfg.Options()
	if err != nil {
		return opts, nil, cfg, err
	}

	var model *route.FidelityModel
	if cfg.Fidelity != "" {
		if model, err = route.LoadFidelity(cfg.Fidelity); err != nil {
			return opts, nil, cfg, err
		}
	} else if opts.Route {
		slog.Warn("no fidelity model given, routing disabled")
		opts.Route = false
	}
	return opts, model, cfg, nil
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "qtermopt",
		Short:         "Gate cancellation and fidelity-aware qubit routing for QASM circuits",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pass details to stderr")

	root.AddCommand(
		newOptimizeCmd(),
		newViewCmd(),
		newGenerateCmd(),
		newScheduleCmd(),
		newCalibrateCmd(),
	)
	return root
}

func readCircuit(path string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := circuit.ParseQASM(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ──────────────────────────── optimize ────────────────────────────

// optimizeReport is the JSON form of one compiled file.
type optimizeReport struct {
	File        string  `json:"file"`
	Qubits      int     `json:"qubits"`
	Permutation []int   `json:"permutation"`
	Dropped     int     `json:"dropped"`
	ScoreBefore float64 `json:"score_before"`
	ScoreAfter  float64 `json:"score_after"`
	QASM        string  `json:"qasm"`
}

func newOptimizeCmd() *cobra.Command {
	var (
		flags   compileFlags
		asJSON  bool
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "optimize <file.qasm>...",
		Short: "Cancel redundant gates and remap qubits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, model, cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if outPath != "" && len(args) > 1 {
				return fmt.Errorf("--output takes a single input file, got %d", len(args))
			}

			jobs := make([]compile.Job, len(args))
			for i, path := range args {
				c, err := readCircuit(path)
				if err != nil {
					return err
				}
				jobs[i] = compile.Job{Name: path, Circuit: c, Model: model}
			}
			results, err := compile.Batch(cmd.Context(), jobs, opts, cfg.Concurrency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				reports := make([]optimizeReport, len(results))
				for i, res := range results {
					reports[i] = optimizeReport{
						File:        jobs[i].Name,
						Qubits:      res.Circuit.NumQubits(),
						Permutation: res.Permutation,
						Dropped:     res.Dropped,
						ScoreBefore: res.ScoreBefore,
						ScoreAfter:  res.ScoreAfter,
						QASM:        res.Circuit.QASM(),
					}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(results[0].Circuit.QASM()), 0o644); err != nil {
					return err
				}
			}
			for i, res := range results {
				if len(results) > 1 {
					fmt.Fprintf(out, "// %s\n", jobs[i].Name)
				}
				fmt.Fprintf(out, "// dropped %d, permutation %s\n", res.Dropped, res.Permutation)
				if outPath == "" {
					fmt.Fprint(out, res.Circuit.QASM())
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON report instead of QASM")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the optimised QASM to this file")
	return cmd
}

// ──────────────────────────── view ────────────────────────────

func newViewCmd() *cobra.Command {
	var (
		flags    compileFlags
		savePath string
	)
	cmd := &cobra.Command{
		Use:   "view <file.qasm>",
		Short: "Browse a circuit before and after optimisation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, model, _, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			c, err := readCircuit(args[0])
			if err != nil {
				return err
			}
			if savePath == "" {
				savePath = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".opt.qasm"
			}
			p := tea.NewProgram(newModel(c, model, opts, savePath), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&savePath, "save", "", "where ctrl+s writes the optimised QASM (default <file>.opt.qasm)")
	return cmd
}

// ──────────────────────────── generate ────────────────────────────

func newGenerateCmd() *cobra.Command {
	var qubits int
	cmd := &cobra.Command{
		Use:       "generate <" + strings.Join(gen.Names, "|") + ">",
		Short:     "Print a sample circuit as QASM",
		Args:      cobra.ExactArgs(1),
		ValidArgs: gen.Names,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := gen.ByName(args[0], qubits)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), c.QASM())
			return nil
		},
	}
	cmd.Flags().IntVarP(&qubits, "qubits", "n", 4, "number of qubits")
	return cmd
}

// ──────────────────────────── schedule ────────────────────────────

func newScheduleCmd() *cobra.Command {
	var (
		qubits  int
		reps    int
		emitDir string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Plan the characterization circuits that measure qubit fidelities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if qubits < 1 {
				return fmt.Errorf("need at least one qubit, got %d", qubits)
			}
			rounds := fidelity.RoundRobin(qubits)
			out := cmd.OutOrStdout()
			for i, round := range rounds {
				pairs := make([]string, len(round))
				for j, p := range round {
					pairs[j] = fmt.Sprintf("%d-%d", p[0], p[1])
				}
				fmt.Fprintf(out, "round %d: %s\n", i, strings.Join(pairs, " "))
			}
			if emitDir == "" {
				return nil
			}

			if err := os.MkdirAll(emitDir, 0o755); err != nil {
				return err
			}
			single, err := fidelity.SingleQubitCircuit(qubits, reps)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(emitDir, "single.qasm"), []byte(single.QASM()), 0o644); err != nil {
				return err
			}
			for i, round := range rounds {
				c, err := fidelity.PairCircuit(qubits, round)
				if err != nil {
					return err
				}
				name := filepath.Join(emitDir, fmt.Sprintf("round-%d.qasm", i))
				if err := os.WriteFile(name, []byte(c.QASM()), 0o644); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "wrote %d circuits to %s\n", len(rounds)+1, emitDir)
			return nil
		},
	}
	cmd.Flags().IntVarP(&qubits, "qubits", "n", 4, "number of qubits")
	cmd.Flags().IntVar(&reps, "reps", 2, "Hadamards per qubit in the single-qubit circuit")
	cmd.Flags().StringVar(&emitDir, "emit", "", "write the characterization circuits as QASM into this directory")
	return cmd
}

// ──────────────────────────── calibrate ────────────────────────────

func readCounts(path string) (fidelity.Counts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	counts, err := fidelity.ParseCounts(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return counts, nil
}

func newCalibrateCmd() *cobra.Command {
	var (
		qubits     int
		singlePath string
		pairPaths  []string
	)
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Build a fidelity model from characterization histograms",
		Long: `calibrate reads the measurement histograms (JSON objects mapping
bitstrings, qubit 0 first, to counts) of the circuits written by
"schedule --emit" and prints the resulting fidelity model as YAML.
--pair takes one histogram per round, in round order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			singleCounts, err := readCounts(singlePath)
			if err != nil {
				return err
			}
			single, err := fidelity.EstimateSingle(qubits, singleCounts)
			if err != nil {
				return err
			}

			pairCounts := make([]fidelity.Counts, len(pairPaths))
			for i, path := range pairPaths {
				if pairCounts[i], err = readCounts(path); err != nil {
					return err
				}
			}
			pair, err := fidelity.EstimatePairs(qubits, fidelity.RoundRobin(qubits), pairCounts)
			if err != nil {
				return err
			}

			model, err := fidelity.Model(single, pair)
			if err != nil {
				return err
			}
			data, err := model.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().IntVarP(&qubits, "qubits", "n", 4, "number of qubits")
	cmd.Flags().StringVar(&singlePath, "single", "", "histogram of the single-qubit circuit")
	cmd.Flags().StringSliceVar(&pairPaths, "pair", nil, "histograms of the pair rounds, in order")
	_ = cmd.MarkFlagRequired("single")
	return cmd
}
