package network

import (
	"github.com/dd0wney/cluso-textnet/pkg/algorithms"
	"github.com/dd0wney/cluso-textnet/pkg/tokens"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
	"github.com/dd0wney/cluso-textnet/pkg/visualization"
)

const (
	maxIterations = 100000
	maxWorkers    = 256
)

// Config is the pipeline's configuration surface. Zero values are not
// defaults; start from DefaultConfig and override.
type Config struct {
	MinEdgeFrequency  int    `yaml:"min_edge_frequency" json:"min_edge_frequency"`
	TopEdges          int    `yaml:"top_edges" json:"top_edges"`
	DetectCommunities bool   `yaml:"detect_communities" json:"detect_communities"`
	CommunityMethod   string `yaml:"community_method" json:"community_method" validate:"omitempty,oneof=greedy_modularity label_propagation connected_components"`

	LayoutMethod     string  `yaml:"layout_method" json:"layout_method" validate:"omitempty,oneof=kamada_kawai spring circular"`
	LayoutIterations int     `yaml:"layout_iterations" json:"layout_iterations"`
	StressIterations int     `yaml:"stress_iterations" json:"stress_iterations"`
	Repulsion        float64 `yaml:"repulsion" json:"repulsion"`
	Seed             int64   `yaml:"seed" json:"seed"`
	Width            float64 `yaml:"width" json:"width"`
	Height           float64 `yaml:"height" json:"height"`
	Padding          float64 `yaml:"padding" json:"padding"`

	Stopwords           []string `yaml:"stopwords" json:"stopwords"`
	UseDefaultStopwords bool     `yaml:"use_default_stopwords" json:"use_default_stopwords"`
	MinWordRunes        int      `yaml:"min_word_runes" json:"min_word_runes"`
	TopWords            int      `yaml:"top_words" json:"top_words"`

	// StopwordTopN excludes the N most frequent words of the corpus from the
	// graph; StopwordMinFreq excludes words seen at most that many times.
	// Zero disables each.
	StopwordTopN    int `yaml:"stopword_top_n" json:"stopword_top_n"`
	StopwordMinFreq int `yaml:"stopword_min_freq" json:"stopword_min_freq"`

	PaletteSize    int     `yaml:"palette_size" json:"palette_size"`
	NodeSizeBase   float64 `yaml:"node_size_base" json:"node_size_base"`
	NodeSizeScale  float64 `yaml:"node_size_scale" json:"node_size_scale"`
	EdgeWidthBase  float64 `yaml:"edge_width_base" json:"edge_width_base"`
	EdgeWidthScale float64 `yaml:"edge_width_scale" json:"edge_width_scale"`

	Workers int `yaml:"workers" json:"workers"`
}

// DefaultConfig returns the settings of the classic co-occurrence network:
// every pair counts, the 60 heaviest edges, greedy modularity groups and a
// Kamada-Kawai layout with a k=1, 50-iteration spring fallback.
func DefaultConfig() Config {
	layout := visualization.DefaultLayoutConfig()
	return Config{
		MinEdgeFrequency:  1,
		TopEdges:          60,
		DetectCommunities: true,
		CommunityMethod:   algorithms.MethodGreedyModularity,
		LayoutMethod:      visualization.MethodKamadaKawai,
		LayoutIterations:  layout.Iterations,
		StressIterations:  layout.StressIterations,
		Repulsion:         layout.Repulsion,
		Seed:              layout.Seed,
		Width:             layout.Width,
		Height:            layout.Height,
		Padding:           layout.Padding,
		MinWordRunes:      1,
		TopWords:          20,
		PaletteSize:       12,
		NodeSizeBase:      20,
		NodeSizeScale:     100,
		EdgeWidthBase:     0.5,
		EdgeWidthScale:    0.5,
		Workers:           4,
	}
}

// Validate rejects non-positive thresholds, caps and budgets. Errors wrap
// validation.ErrInvalidConfiguration.
func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	return validation.NewConfigValidator("Config").
		Positive("MinEdgeFrequency", c.MinEdgeFrequency).
		Positive("TopEdges", c.TopEdges).
		RangeInt("LayoutIterations", c.LayoutIterations, 1, maxIterations).
		RangeInt("StressIterations", c.StressIterations, 1, maxIterations).
		PositiveFloat("Repulsion", c.Repulsion).
		PositiveFloat("Width", c.Width).
		PositiveFloat("Height", c.Height).
		NonNegativeFloat("Padding", c.Padding).
		Custom("Padding", func() error {
			if 2*c.Padding >= c.Width || 2*c.Padding >= c.Height {
				return errPaddingTooLarge
			}
			return nil
		}).
		Positive("MinWordRunes", c.MinWordRunes).
		MinInt("TopWords", c.TopWords, 0).
		MinInt("StopwordTopN", c.StopwordTopN, 0).
		MinInt("StopwordMinFreq", c.StopwordMinFreq, 0).
		Positive("PaletteSize", c.PaletteSize).
		PositiveFloat("NodeSizeBase", c.NodeSizeBase).
		NonNegativeFloat("NodeSizeScale", c.NodeSizeScale).
		PositiveFloat("EdgeWidthBase", c.EdgeWidthBase).
		NonNegativeFloat("EdgeWidthScale", c.EdgeWidthScale).
		RangeInt("Workers", c.Workers, 1, maxWorkers).
		Validate()
}

// LayoutConfig extracts the layout settings.
func (c Config) LayoutConfig() visualization.LayoutConfig {
	return visualization.LayoutConfig{
		Width:            c.Width,
		Height:           c.Height,
		Padding:          c.Padding,
		Iterations:       c.LayoutIterations,
		StressIterations: c.StressIterations,
		Repulsion:        c.Repulsion,
		Seed:             c.Seed,
	}
}

// StopwordSet merges the configured stopwords with the defaults when enabled.
func (c Config) StopwordSet() tokens.StopwordSet {
	set := tokens.NewStopwordSet(c.Stopwords...)
	if c.UseDefaultStopwords {
		set = set.Merge(tokens.DefaultStopwords())
	}
	return set
}
