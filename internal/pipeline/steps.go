package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/proxyscope/internal/aggregate"
	"github.com/nao1215/proxyscope/internal/chart"
	"github.com/nao1215/proxyscope/internal/model"
)

// LoaderFunc loads the cleaned dataset of a CSV file.
// Both dataset.Loader.Load and dataset.Cache.Get have this shape.
type LoaderFunc func(path string) (*model.Dataset, error)

// LoadStep loads and cleans the analysis source.
type LoadStep struct {
	load   LoaderFunc
	logger *slog.Logger

	// exporting adds the chart export banner to the done message.
	exporting bool
}

// ExportBanner is printed once the data is loaded and charts will be saved.
const ExportBanner = "Generating and saving charts..."

// NewLoadStep creates a step that loads analysis.Source with load.
func NewLoadStep(load LoaderFunc, logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{load: load, logger: logger}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// StartMessage implements Announcer.
func (s *LoadStep) StartMessage() string {
	return "Loading and preprocessing data..."
}

// DoneMessage implements Announcer.
func (s *LoadStep) DoneMessage() string {
	if s.exporting {
		return "Data loaded and preprocessed successfully.\n\n" + ExportBanner
	}
	return "Data loaded and preprocessed successfully."
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, analysis *model.Analysis) error {
	if s.load == nil {
		return errors.New("load step has no loader")
	}
	ds, err := s.load(analysis.Source)
	if err != nil {
		return err
	}

	analysis.Dataset = ds
	analysis.RecordCount = ds.Len()
	analysis.DroppedCount = ds.Dropped
	if ds.Dropped > 0 {
		s.logger.Info("rows dropped during cleaning",
			"source", analysis.Source,
			"dropped", ds.Dropped,
		)
	}
	return nil
}

// aggregateStep runs one aggregation over the loaded dataset.
type aggregateStep struct {
	name  string
	start string
	done  string
	apply func(a *model.Analysis)
}

// Name returns the step name.
func (s *aggregateStep) Name() string {
	return s.name
}

// StartMessage implements Announcer.
func (s *aggregateStep) StartMessage() string {
	return s.start
}

// DoneMessage implements Announcer.
func (s *aggregateStep) DoneMessage() string {
	return s.done
}

// Do executes the aggregation.
func (s *aggregateStep) Do(_ context.Context, analysis *model.Analysis) error {
	if analysis.Dataset == nil {
		return fmt.Errorf("%s: no dataset loaded", s.name)
	}
	s.apply(analysis)
	return nil
}

// NewScoreDistributionStep creates the step that bins fraud scores of 70
// and above into 70-79, 80-89 and 90-100.
func NewScoreDistributionStep() Step {
	return &aggregateStep{
		name:  "score_distribution",
		start: "Step 1: Generating Fraud Score Distribution Chart...",
		done:  "  - Chart 1: Binned Fraud Score Distribution... [GENERATED]",
		apply: func(a *model.Analysis) {
			a.ScoreDistribution = aggregate.ScoreDistribution(a.Dataset)
		},
	}
}

// NewTopCountriesStep creates the step that ranks high-risk countries.
func NewTopCountriesStep() Step {
	return &aggregateStep{
		name:  "top_countries",
		start: "Step 2: Generating High-Risk Countries Chart...",
		done:  "  - Chart 2: Top 10 High-Risk Countries... [GENERATED]",
		apply: func(a *model.Analysis) {
			ranking := aggregate.TopCountries(a.Dataset)
			a.TopCountries = ranking.Top
			a.LeadingCountries = ranking.Leading
		},
	}
}

// NewTopISPsStep creates the step that ranks high-risk ISPs.
func NewTopISPsStep() Step {
	return &aggregateStep{
		name:  "top_isps",
		start: "Step 3: Generating High-Risk ISPs Chart...",
		done:  "  - Chart 3: Top 5 High-Risk ISPs... [GENERATED]",
		apply: func(a *model.Analysis) {
			a.TopISPs = aggregate.TopISPs(a.Dataset)
		},
	}
}

// NewGeographicStep creates the step that counts high-risk records per country.
func NewGeographicStep() Step {
	return &aggregateStep{
		name:  "geographic",
		start: "Step 4: Generating Geographic Heatmap of High-Risk Proxies...",
		done:  "  - Chart 4: Geographic Heatmap... [GENERATED]",
		apply: func(a *model.Analysis) {
			a.CountryTotals = aggregate.CountryTotals(a.Dataset)
		},
	}
}

// ChartSettings supplies per-chart export settings. config.Config implements it.
type ChartSettings interface {
	ChartSpec(kind model.ChartKind) model.ChartSpec
	Highlight() []string
}

// ChartExportStep renders the charts of an analysis to image files.
// The figures are rendered concurrently.
type ChartExportStep struct {
	// outputDir is the directory the chart files are written to.
	outputDir string

	// settings supplies file names, sizes and overrides.
	settings ChartSettings

	// kinds lists the charts to export.
	kinds []model.ChartKind

	// sourceDirs maps a source path to its output subdirectory. When nil,
	// every chart is written directly into outputDir.
	sourceDirs map[string]string

	logger *slog.Logger
}

// ChartExportStepOption configures a ChartExportStep.
type ChartExportStepOption func(*ChartExportStep)

// WithExportKinds limits the exported charts.
func WithExportKinds(kinds ...model.ChartKind) ChartExportStepOption {
	return func(s *ChartExportStep) {
		s.kinds = kinds
	}
}

// WithSourceDirs writes the charts of each source into its own
// subdirectory, as assigned by SourceDirs.
func WithSourceDirs(dirs map[string]string) ChartExportStepOption {
	return func(s *ChartExportStep) {
		s.sourceDirs = dirs
	}
}

// WithExportLogger sets a custom logger for the export step.
func WithExportLogger(logger *slog.Logger) ChartExportStepOption {
	return func(s *ChartExportStep) {
		s.logger = logger
	}
}

// NewChartExportStep creates a chart export step.
func NewChartExportStep(outputDir string, settings ChartSettings, opts ...ChartExportStepOption) *ChartExportStep {
	s := &ChartExportStep{
		outputDir: outputDir,
		settings:  settings,
		kinds:     model.ChartKinds(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ChartExportStep) Name() string {
	return "chart_export"
}

// OutputPath returns where the chart of the given kind is written for a source.
func (s *ChartExportStep) OutputPath(source string, kind model.ChartKind) string {
	file := s.settings.ChartSpec(kind).File
	if filepath.IsAbs(file) {
		return file
	}
	dir := s.outputDir
	if s.sourceDirs != nil {
		name, ok := s.sourceDirs[source]
		if !ok {
			name = sourceDirName(source)
		}
		dir = filepath.Join(dir, name)
	}
	return filepath.Join(dir, file)
}

// Do renders every configured chart and records the written paths.
func (s *ChartExportStep) Do(ctx context.Context, analysis *model.Analysis) error {
	paths := make([]string, len(s.kinds))
	highlight := s.settings.Highlight()

	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range s.kinds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			spec := s.settings.ChartSpec(kind)
			fig, err := chart.Build(kind, analysis, highlight, spec)
			if err != nil {
				return err
			}

			path := s.OutputPath(analysis.Source, kind)
			if err := fig.Save(path, spec.Width, spec.Height); err != nil {
				return fmt.Errorf("export %s chart: %w", kind, err)
			}
			s.logger.Debug("chart written",
				"kind", string(kind),
				"path", path,
				"width", spec.Width,
				"height", spec.Height,
			)
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, kind := range s.kinds {
		analysis.AddChart(kind, paths[i])
	}
	return nil
}

// SourceDirs assigns every source a distinct output subdirectory named after
// its base name. Sources sharing a base name get a numeric suffix in input
// order: a/x.csv -> x, b/x.csv -> x-2. Names are compared case-insensitively.
func SourceDirs(sources []string) map[string]string {
	dirs := make(map[string]string, len(sources))
	used := make(map[string]bool, len(sources))
	for _, source := range sources {
		if _, ok := dirs[source]; ok {
			continue
		}
		base := sourceDirName(source)
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[strings.ToLower(name)] = true
		dirs[source] = name
	}
	return dirs
}

// sourceDirName derives a directory name from a source path.
func sourceDirName(source string) string {
	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "source"
	}
	return name
}

// HistoryStore persists analysis summaries. database.HistoryDB implements it.
type HistoryStore interface {
	SaveAnalysis(ctx context.Context, analysis *model.Analysis) (int64, error)
}

// HistoryStep records the analysis in the history database.
type HistoryStep struct {
	store  HistoryStore
	logger *slog.Logger
}

// NewHistoryStep creates a step that saves the analysis to store.
func NewHistoryStep(store HistoryStore, logger *slog.Logger) *HistoryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return "save_history"
}

// Do executes the history step.
func (s *HistoryStep) Do(ctx context.Context, analysis *model.Analysis) error {
	id, err := s.store.SaveAnalysis(ctx, analysis)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	s.logger.Debug("analysis saved", "source", analysis.Source, "id", id)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// OutputDir is where charts are written. Export is skipped when empty.
	OutputDir string

	// Settings supplies the chart export settings.
	Settings ChartSettings

	// SourceDirs maps sources to output subdirectories. Nil writes every
	// chart into OutputDir.
	SourceDirs map[string]string

	// History receives the analysis after export. Nil disables it.
	History HistoryStore

	// Logger is passed to the load, export and history steps.
	Logger *slog.Logger
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineExport enables chart export into dir.
func WithPipelineExport(dir string, settings ChartSettings) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.OutputDir = dir
		c.Settings = settings
	}
}

// WithPipelineSourceDirs writes each source's charts into the subdirectory
// assigned in dirs.
func WithPipelineSourceDirs(dirs map[string]string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SourceDirs = dirs
	}
}

// WithPipelineHistory enables saving the analysis to store.
func WithPipelineHistory(store HistoryStore) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.History = store
	}
}

// WithPipelineStepLogger sets the logger of the individual steps.
func WithPipelineStepLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Logger = logger
	}
}

// DefaultPipeline creates a pipeline with the standard steps: load, the four
// aggregations, and optionally chart export and history recording.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineExport, etc).
func DefaultPipeline(load LoaderFunc, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{}
	for _, opt := range configOpts {
		opt(cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loadStep := NewLoadStep(load, logger)
	loadStep.exporting = cfg.OutputDir != "" && cfg.Settings != nil
	p.AddSteps(
		loadStep,
		NewScoreDistributionStep(),
		NewTopCountriesStep(),
		NewTopISPsStep(),
		NewGeographicStep(),
	)

	if cfg.OutputDir != "" && cfg.Settings != nil {
		p.AddStep(NewChartExportStep(cfg.OutputDir, cfg.Settings,
			WithSourceDirs(cfg.SourceDirs),
			WithExportLogger(logger),
		))
	}

	if cfg.History != nil {
		p.AddStep(NewHistoryStep(cfg.History, logger))
	}

	return p
}
