package algorithms

import (
	"errors"

	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
)

// ErrDetectionUnavailable is the cause recorded when no detector is
// configured or the configured detector failed. It never reaches callers of
// DetectCommunities, which fall back to a single community.
var ErrDetectionUnavailable = errors.New("community detection unavailable")

// Detection method names
const (
	MethodGreedyModularity    = "greedy_modularity"
	MethodLabelPropagation    = "label_propagation"
	MethodConnectedComponents = "connected_components"
	MethodSingle              = "single"
)

// Community represents a detected community
type Community struct {
	ID      int      `json:"id"`
	Nodes   []string `json:"nodes"`
	Size    int      `json:"size"`
	Density float64  `json:"density"` // Edge density within community
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Communities   []*Community
	Modularity    float64        // Quality measure of the partitioning
	NodeCommunity map[string]int // Word -> Community ID
	Method        string
	Fallback      bool
}

// Detector partitions a subgraph into communities.
type Detector interface {
	Name() string
	Detect(sg *cooccurrence.Subgraph) (*CommunityDetectionResult, error)
}
