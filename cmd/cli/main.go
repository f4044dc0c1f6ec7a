package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gotyche/adapters/excel"
	"gotyche/app"
	"gotyche/domain/dataset"
	"gotyche/domain/stats"
	"gotyche/internal/errors"
	"gotyche/internal/generators"
	"gotyche/internal/nist"
	"gotyche/internal/report"
	"gotyche/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gotyche",
		Short: "Encode numeric series into bit streams and run the NIST randomness battery",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newFixturesCmd(),
		newSweepCmd(),
		newSelfTestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	var format, output string
	var includeStreams bool

	cmd := &cobra.Command{
		Use:   "run [file | id=file ...]",
		Short: "Analyze every column of one or more CSV or Excel files",
		Long: `Encode every column of a price file, run the five tests on each stream and
aggregate the results per column. Several files are joined on their dates and
their columns are renamed <id>_<column>; the id defaults to the file name.

Example: gotyche run prices.xlsx --sheet Prices --method "basis point" --years-per-block 5 --format markdown
         gotyche run spx=spx.csv ndx=ndx.csv --format json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd, &flags)
			if err != nil {
				return err
			}
			paths, err := inputPaths(env, args)
			if err != nil {
				return err
			}
			return runAnalysis(cmd.Context(), env, paths, format, output, includeStreams)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: json, markdown or html")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&includeStreams, "include-streams", false, "Include per-stream outcomes in the report")
	return cmd
}

func newFixturesCmd() *cobra.Command {
	var flags runFlags
	var crypto bool

	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Run the battery on the pseudo-random and deterministic comparison sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd, &flags)
			if err != nil {
				return err
			}
			return runFixtures(cmd.Context(), env, crypto)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&crypto, "crypto", false, "Also run a crypto-grade integer series")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var flags runFlags
	var intervals []float64
	var withFixtures bool

	cmd := &cobra.Command{
		Use:   "sweep [file | id=file ...]",
		Short: "Repeat the analysis over several stream lengths",
		Long: `Analyze the file once per years-per-block interval and report the interval
at which the data looks least random.

Example: gotyche sweep prices.csv --intervals 1,2,5,10 --fixtures`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd, &flags)
			if err != nil {
				return err
			}
			paths, err := inputPaths(env, args)
			if err != nil {
				return err
			}
			return runSweep(cmd.Context(), env, paths, intervals, withFixtures)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64SliceVar(&intervals, "intervals", []float64{1, 2, 5}, "Years per block to try")
	cmd.Flags().BoolVar(&withFixtures, "fixtures", false, "Analyze the comparison sets at every interval")
	return cmd
}

func newSelfTestCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Check the tests against the published reference vectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			results := nist.SelfTest()
			if err := report.Write(cmd.OutOrStdout(), f, results); err != nil {
				return err
			}
			return selfTestError(results)
		},
	}

	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: json, markdown or html")
	return cmd
}

// selfTestError names every reference vector that drifted
func selfTestError(results []nist.SelfTestResult) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r.Name)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return errors.InternalError(fmt.Sprintf("self-test mismatch: %s", strings.Join(failed, ", ")))
}

func runAnalysis(ctx context.Context, env *runEnv, paths []string, format, output string, includeStreams bool) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	ds, err := readDatasets(env, paths)
	if err != nil {
		return err
	}
	svc, err := env.pipeline()
	if err != nil {
		return err
	}

	startTime := time.Now()
	result, err := svc.Analyze(ctx, app.AnalyzeRequest{Dataset: ds, Params: env.params, IncludeStreams: includeStreams})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	env.logger.Info("analyzed %d columns in %v", len(result.Columns), time.Since(startTime))

	return writeOutput(output, func(w io.Writer) error {
		return report.Write(w, f, result)
	})
}

func runFixtures(ctx context.Context, env *runEnv, crypto bool) error {
	gen := generators.New(env.cfg.GeneratorConfig())
	fixtures, err := gen.Fixtures()
	if err != nil {
		return err
	}
	if crypto {
		fx, err := gen.CryptoFixture()
		if err != nil {
			return err
		}
		fixtures = append(fixtures, fx)
	}
	svc, err := env.pipeline()
	if err != nil {
		return err
	}

	fmt.Printf("🔬 Running %d comparison sets (%s)\n", len(fixtures), env.params)
	for _, fx := range fixtures {
		params := env.params
		params.ScaleBasisPoints = fx.ScaleBasisPoints
		result, err := svc.Analyze(ctx, app.AnalyzeRequest{Dataset: fx.Data, Params: params})
		if err != nil {
			return fmt.Errorf("fixture %s: %w", fx.Name, err)
		}
		printSummary(result)
	}
	return nil
}

func runSweep(ctx context.Context, env *runEnv, paths []string, intervals []float64, withFixtures bool) error {
	ds, err := readDatasets(env, paths)
	if err != nil {
		return err
	}
	svc, err := env.pipeline()
	if err != nil {
		return err
	}

	req := app.SweepRequest{Dataset: ds, Params: env.params, YearsPerBlock: intervals}
	if withFixtures {
		req.Fixtures, err = generators.New(env.cfg.GeneratorConfig()).Fixtures()
		if err != nil {
			return err
		}
	}

	result, err := app.NewSweepService(svc).Run(ctx, req)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("\n📊 SWEEP RESULTS (%s)\n", ds.Name)
	for _, step := range result.Intervals {
		fmt.Printf("• %.2f years per block: mean passed %.2f\n", step.YearsPerBlock, step.MeanPassed)
		for _, fx := range step.Fixtures {
			fmt.Printf("   %s: %v\n", fx.Dataset, fx.PassedCounts())
		}
	}
	fmt.Printf("\n🎯 Least random interval: %.2f years (mean passed %.2f)\n", result.LeastRandom, result.LeastRandomFit)
	return nil
}

func inputPaths(env *runEnv, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if env.cfg.Data.File == "" {
		return nil, fmt.Errorf("no input file: pass one or set DATA_FILE")
	}
	return []string{env.cfg.Data.File}, nil
}

// splitSource reads an "id=path" argument; a bare path uses the file name as id
func splitSource(arg string) (id, path string) {
	if i := strings.Index(arg, "="); i > 0 {
		return arg[:i], arg[i+1:]
	}
	return strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg)), arg
}

// readDatasets loads one file as is, or joins several with dataset.Merge
func readDatasets(env *runEnv, args []string) (*dataset.Dataset, error) {
	if len(args) == 1 {
		_, path := splitSource(args[0])
		return readDataset(env, path)
	}

	sources := make([]dataset.Source, 0, len(args))
	ids := make([]string, 0, len(args))
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		id, path := splitSource(arg)
		if seen[id] {
			return nil, errors.InvalidInput(fmt.Sprintf("duplicate source id %q", id))
		}
		seen[id] = true
		ds, err := readDataset(env, path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, dataset.Source{ID: id, Data: ds})
		ids = append(ids, id)
	}

	merged, err := dataset.Merge(strings.Join(ids, "+"), sources...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to merge input files")
	}
	env.logger.Info("merged %d files: %d rows, %d columns", len(sources), merged.Rows(), len(merged.Columns))
	return merged, nil
}

func readDataset(env *runEnv, path string) (*dataset.Dataset, error) {
	var reader ports.DatasetReader = excel.NewDataReader(path, excel.ReaderConfigFrom(env.cfg.Data))
	ds, err := reader.ReadDataset()
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	env.logger.Debug("loaded %s: %d rows, %d columns", path, ds.Rows(), len(ds.Columns))
	return ds, nil
}

func printSummary(r *stats.Report) {
	for _, col := range r.Columns {
		fmt.Printf("\n%s / %s: %d streams, %d tests passed\n", r.Dataset, col.Column, col.Streams, col.PassedCount())
		for _, agg := range col.Aggregates {
			fmt.Printf("   %-5s %-28s p=%.6f pass=%.3f\n",
				report.Verdict(agg), agg.Test.Title(), agg.AggregatePValue, agg.PassFraction)
		}
	}
}

func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Report saved to: %s\n", path)
	return nil
}
