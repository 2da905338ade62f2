package network

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-textnet/pkg/algorithms"
	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
	"github.com/dd0wney/cluso-textnet/pkg/frequency"
	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/metrics"
	"github.com/dd0wney/cluso-textnet/pkg/parallel"
	"github.com/dd0wney/cluso-textnet/pkg/tokens"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
	"github.com/dd0wney/cluso-textnet/pkg/visualization"
)

// Stage names used in logs and metrics
const (
	StageBuild      = "build"
	StageSelect     = "select"
	StageDetect     = "detect"
	StageCentrality = "centrality"
	StageLayout     = "layout"
	StageAssemble   = "assemble"
)

// Pipeline runs the co-occurrence network analysis. A Pipeline holds no
// per-run state and is safe for concurrent use.
type Pipeline struct {
	cfg       Config
	stopwords tokens.StopwordSet
	adapter   *tokens.Adapter
	detector  algorithms.Detector
	layout    *visualization.FallbackLayout
	assembler Assembler
	logger    logging.Logger
	metrics   *metrics.Registry

	detectorSet bool
	primary     visualization.Layout
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger. The default is logging.DefaultLogger.
func WithLogger(logger logging.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics records runs, stages and fallbacks in registry.
func WithMetrics(registry *metrics.Registry) Option {
	return func(p *Pipeline) { p.metrics = registry }
}

// WithDetector replaces the configured community detector. A nil detector
// means detection is unavailable and every run reports a single group.
func WithDetector(d algorithms.Detector) Option {
	return func(p *Pipeline) {
		p.detector = d
		p.detectorSet = true
	}
}

// WithLayout replaces the primary layout. The spring and circular
// fallbacks stay in place.
func WithLayout(l visualization.Layout) Option {
	return func(p *Pipeline) { p.primary = l }
}

// WithAdapter replaces the token adapter used by RunTokens and RunCategories.
func WithAdapter(a *tokens.Adapter) Option {
	return func(p *Pipeline) { p.adapter = a }
}

// New validates cfg and returns a pipeline. Configuration errors wrap
// validation.ErrInvalidConfiguration.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}

	p := &Pipeline{
		cfg:       cfg,
		stopwords: cfg.StopwordSet(),
		adapter:   tokens.NewAdapter(tokens.WithMinRunes(cfg.MinWordRunes)),
		assembler: NewAssembler(cfg),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrDefault(p.logger).With(logging.Component("pipeline"))

	if !p.detectorSet && cfg.DetectCommunities {
		d, err := algorithms.NewDetector(cfg.CommunityMethod)
		if err != nil {
			return nil, fmt.Errorf("pipeline config: %w: %w", validation.ErrInvalidConfiguration, err)
		}
		p.detector = d
	}

	lc := cfg.LayoutConfig()
	if p.primary == nil {
		primary, err := visualization.NewLayout(cfg.LayoutMethod, lc)
		if err != nil {
			return nil, fmt.Errorf("pipeline config: %w: %w", validation.ErrInvalidConfiguration, err)
		}
		p.primary = primary
	}
	p.layout = visualization.NewFallbackLayout(lc, p.logger).WithPrimary(p.primary)

	return p, nil
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run analyses word-list documents.
func (p *Pipeline) Run(ctx context.Context, docs [][]string) (*Result, error) {
	return p.Analyze(ctx, Input{Documents: docs})
}

// RunTokens analyses tokenized documents, keeping the words the adapter selects.
func (p *Pipeline) RunTokens(ctx context.Context, docs []tokens.Document) (*Result, error) {
	return p.Analyze(ctx, Input{Documents: p.adapter.Normalize(docs)})
}

// Analyze runs every stage on in. Too little data to draw a network is not
// an error: the result carries StatusInsufficientData and no nodes or edges.
// Errors are input limit violations and context cancellation.
func (p *Pipeline) Analyze(ctx context.Context, in Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	in.Documents = p.adapter.FilterDocuments(in.Documents)

	runID := uuid.NewString()
	logger := p.logger.With(logging.RunID(runID), logging.Category(in.Category))
	start := time.Now()

	result, err := p.analyze(ctx, in, logger)
	elapsed := time.Since(start)

	status := "error"
	if err == nil {
		status = string(result.Status)
		result.ID = runID
		result.Category = in.Category
		result.CreatedAt = start.UTC()
	}
	if p.metrics != nil {
		p.metrics.RecordRun(status, elapsed, len(in.Documents))
	}

	if err != nil {
		logger.Error("analysis failed", logging.Documents(len(in.Documents)), logging.Latency(elapsed), logging.Error(err))
		return nil, err
	}
	logger.Info("analysis complete",
		logging.String("status", status),
		logging.Documents(len(in.Documents)),
		logging.Nodes(len(result.Nodes)),
		logging.Edges(len(result.Edges)),
		logging.Latency(elapsed))
	return result, nil
}

func (p *Pipeline) analyze(ctx context.Context, in Input, logger logging.Logger) (*Result, error) {
	table := frequency.Count(in.Documents, p.stopwords)

	excluded := in.DerivedStopwords
	if excluded == nil {
		excluded = table.Stopwords(p.cfg.StopwordTopN, p.cfg.StopwordMinFreq)
	}
	stopwords := p.stopwords
	if len(excluded) > 0 {
		stopwords = stopwords.Merge(tokens.NewStopwordSet(excluded...))
		logger.Debug("derived stopwords", logging.Count(len(excluded)))
	}

	timer := logging.StartTimer(logger, "stage complete", logging.Stage(StageBuild))
	g, err := cooccurrence.BuildContext(ctx, in.Documents, cooccurrence.BuildOptions{
		MinEdgeFrequency: p.cfg.MinEdgeFrequency,
		Stopwords:        stopwords,
	})
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	p.recordStage(StageBuild, timer.End(logging.Nodes(g.NodeCount()), logging.Edges(g.EdgeCount())))

	timer = logging.StartTimer(logger, "stage complete", logging.Stage(StageSelect))
	sg, err := cooccurrence.SelectTopEdges(g, p.cfg.TopEdges)
	if errors.Is(err, cooccurrence.ErrInsufficientData) {
		p.recordStage(StageSelect, timer.End())
		logger.Info("not enough co-occurrences for a network", logging.Documents(len(in.Documents)))
		result := p.insufficient(table)
		result.ExcludedWords = excluded
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select edges: %w", err)
	}
	p.recordStage(StageSelect, timer.End(logging.Nodes(sg.Len()), logging.Edges(sg.EdgeCount())))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("select edges: %w", err)
	}

	timer = logging.StartTimer(logger, "stage complete", logging.Stage(StageDetect))
	communities := algorithms.DetectCommunities(sg, p.detector, logger)
	if communities.Fallback && p.detector != nil {
		p.recordFallback(StageDetect, communities.Method)
	}
	p.recordStage(StageDetect, timer.End(logging.Method(communities.Method), logging.Count(len(communities.Communities))))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("detect communities: %w", err)
	}

	timer = logging.StartTimer(logger, "stage complete", logging.Stage(StageCentrality))
	centrality := algorithms.DegreeCentrality(sg)
	p.recordStage(StageCentrality, timer.End())

	timer = logging.StartTimer(logger, "stage complete", logging.Stage(StageLayout))
	layout, err := p.layout.Compute(ctx, sg)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if layout.Fallback {
		p.recordFallback(StageLayout, layout.Method)
	}
	p.recordStage(StageLayout, timer.End(logging.Method(layout.Method), logging.Bool("fallback", layout.Fallback)))

	timer = logging.StartTimer(logger, "stage complete", logging.Stage(StageAssemble))
	result := p.assembler.Assemble(sg, communities, centrality, layout, in.Dictionary)
	result.TopWords = table.Top(p.cfg.TopWords)
	result.Summary = table.Summary()
	result.ExcludedWords = excluded
	p.recordStage(StageAssemble, timer.End())

	if p.metrics != nil {
		p.metrics.RecordNetwork(len(result.Nodes), len(result.Edges), len(result.Groups), result.Modularity)
	}
	return result, nil
}

func (p *Pipeline) insufficient(table *frequency.Table) *Result {
	return &Result{
		Status:   StatusInsufficientData,
		Nodes:    []RenderNode{},
		Edges:    []RenderEdge{},
		Groups:   []Group{},
		TopWords: table.Top(p.cfg.TopWords),
		Summary:  table.Summary(),
	}
}

// RunCategories analyses every record together, then each category's
// records on their own. Runs execute concurrently on a worker pool; the
// overall result comes first, followed by categories sorted by name.
// Records without a category count only towards the overall result.
func (p *Pipeline) RunCategories(ctx context.Context, records []Record, dictionary map[string]string) ([]*Result, error) {
	overall := make([][]string, 0, len(records))
	byCategory := make(map[string][][]string)
	for i, r := range records {
		if err := validation.ValidateCategory(r.Category); err != nil {
			return nil, fmt.Errorf("%w: records[%d]: %w", ErrInvalidInput, i, err)
		}
		words := p.recordWords(r)
		overall = append(overall, words)
		if r.Category != "" {
			byCategory[r.Category] = append(byCategory[r.Category], words)
		}
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	// category runs exclude the stopwords derived from the whole corpus
	derived := frequency.Count(overall, p.stopwords).Stopwords(p.cfg.StopwordTopN, p.cfg.StopwordMinFreq)
	if derived == nil {
		derived = []string{}
	}

	inputs := make([]Input, 0, len(names)+1)
	inputs = append(inputs, Input{Documents: overall, Dictionary: dictionary, DerivedStopwords: derived})
	for _, name := range names {
		inputs = append(inputs, Input{Category: name, Documents: byCategory[name], Dictionary: dictionary, DerivedStopwords: derived})
	}

	pool, err := parallel.NewWorkerPool(min(p.cfg.Workers, len(inputs)), parallel.WithLogger(p.logger))
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(inputs))
	errs := make([]error, len(inputs))
	for i, in := range inputs {
		if !pool.Submit(func() { results[i], errs[i] = p.Analyze(ctx, in) }) {
			errs[i] = errors.New("worker pool closed")
		}
	}
	pool.Wait()

	var failed []error
	for i, in := range inputs {
		if errs[i] == nil && results[i] == nil {
			errs[i] = errors.New("analysis aborted")
		}
		if errs[i] != nil {
			failed = append(failed, fmt.Errorf("category %q: %w", in.Category, errs[i]))
		}
	}
	if err := errors.Join(failed...); err != nil {
		return nil, err
	}

	if p.metrics != nil {
		p.metrics.CategoriesProcessed.Add(float64(len(names)))
	}
	p.logger.Debug("category analysis complete", logging.Count(len(names)))
	return results, nil
}

func (p *Pipeline) recordWords(r Record) []string {
	if len(r.Tokens) > 0 {
		return p.adapter.Words(r.Tokens)
	}
	return p.adapter.FilterWords(r.Words)
}

func (p *Pipeline) recordStage(stage string, d time.Duration) {
	if p.metrics != nil {
		p.metrics.RecordStage(stage, d)
	}
}

func (p *Pipeline) recordFallback(stage, method string) {
	if p.metrics != nil {
		p.metrics.RecordFallback(stage, method)
	}
}

func validateInput(in Input) error {
	if err := validation.ValidateDocuments(in.Documents); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := validation.ValidateCategory(in.Category); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := validation.ValidateDictionary(in.Dictionary); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}
