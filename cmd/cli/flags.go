package main

import (
	"github.com/spf13/cobra"

	"gotyche/app"
	"gotyche/domain/encoding"
	"gotyche/internal"
	"gotyche/internal/config"
)

// runFlags override the environment configuration for one invocation.
// Only flags set on the command line are applied.
type runFlags struct {
	envFile string
	sheet   string

	method        string
	mode          string
	startYear     int
	endYear       int
	yearsPerBlock float64
	streamSize    int
	scale         bool
	floatWidth    int

	condition  float64
	passBar    float64
	blockSize  int
	matrixSize int
	rankMethod string

	workers  int
	seed     uint64
	logLevel string
}

func (f *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.envFile, "env-file", ".env", "Load variables from this file before reading the environment")
	fs.StringVar(&f.sheet, "sheet", "", "Excel sheet to read (default: first sheet)")

	fs.StringVar(&f.method, "method", "", "Encoding method: discretize, basis point or floating point")
	fs.StringVar(&f.mode, "mode", "", "Partition mode: independent or forward-overlapping")
	fs.IntVar(&f.startYear, "start-year", 0, "First calendar year covered by the data")
	fs.IntVar(&f.endYear, "end-year", 0, "Last calendar year covered by the data")
	fs.Float64Var(&f.yearsPerBlock, "years-per-block", 0, "Stream length in years")
	fs.IntVar(&f.streamSize, "stream-size", 0, "Fixed number of values per stream, overrides years-per-block")
	fs.BoolVar(&f.scale, "scale", false, "Multiply values by 100 before basis point encoding")
	fs.IntVar(&f.floatWidth, "float-width", 0, "Floating point encoding width: 32 or 64")

	fs.Float64Var(&f.condition, "condition", 0, "Significance level for a single test")
	fs.Float64Var(&f.passBar, "pass-bar", 0, "Minimum fraction of passing streams")
	fs.IntVar(&f.blockSize, "block-size", 0, "Block frequency block length M")
	fs.IntVar(&f.matrixSize, "matrix-size", 0, "Binary matrix rank side length Q")
	fs.StringVar(&f.rankMethod, "rank-method", "", "Matrix rank method: gf2 or real")

	fs.IntVar(&f.workers, "workers", 0, "Columns analyzed concurrently")
	fs.Uint64Var(&f.seed, "seed", 0, "Seed for the comparison generators")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: error, warn, info, debug or trace")
}

// apply copies the flags the user set onto cfg
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("sheet") {
		cfg.Data.Sheet = f.sheet
	}
	if changed("method") {
		cfg.Encoding.Method = f.method
	}
	if changed("mode") {
		cfg.Encoding.PartitionMode = f.mode
	}
	if changed("start-year") {
		cfg.Encoding.StartYear = f.startYear
	}
	if changed("end-year") {
		cfg.Encoding.EndYear = f.endYear
	}
	if changed("years-per-block") {
		cfg.Encoding.YearsPerBlock = f.yearsPerBlock
	}
	if changed("stream-size") {
		cfg.Encoding.StreamSize = f.streamSize
	}
	if changed("scale") {
		cfg.Encoding.ScaleBasisPoints = f.scale
	}
	if changed("float-width") {
		cfg.Encoding.FloatWidth = f.floatWidth
	}
	if changed("condition") {
		cfg.Battery.Condition = f.condition
	}
	if changed("pass-bar") {
		cfg.Battery.PassBar = f.passBar
	}
	if changed("block-size") {
		cfg.Battery.BlockSize = f.blockSize
	}
	if changed("matrix-size") {
		cfg.Battery.MatrixSize = f.matrixSize
	}
	if changed("rank-method") {
		cfg.Battery.RankMethod = f.rankMethod
	}
	if changed("workers") {
		cfg.Runtime.Workers = f.workers
	}
	if changed("seed") {
		cfg.Runtime.Seed = f.seed
	}
	if changed("log-level") {
		cfg.Runtime.LogLevel = f.logLevel
	}
}

// runEnv is the resolved configuration shared by every command
type runEnv struct {
	cfg    *config.Config
	params encoding.Params
	logger *internal.Logger
}

func loadEnv(cmd *cobra.Command, flags *runFlags) (*runEnv, error) {
	config.LoadDotEnv(flags.envFile)
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags.apply(cmd, cfg)

	params, err := cfg.EncodingParams()
	if err != nil {
		return nil, err
	}
	return &runEnv{
		cfg:    cfg,
		params: params,
		logger: internal.NewLogger(internal.ParseLogLevel(cfg.Runtime.LogLevel)),
	}, nil
}

func (e *runEnv) pipeline() (*app.RandomnessService, error) {
	return app.NewPipeline(e.cfg.NistConfig(), e.cfg.AggregateConfig(), e.cfg.Runtime.Workers, e.logger)
}
