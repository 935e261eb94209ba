// internal/service/network/builder.go

package network

import (
	"math"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
)

// BuilderConfig contains configuration for the similarity graph builder
type BuilderConfig struct {
	// SimilarityThreshold is the combined similarity a video pair must exceed
	SimilarityThreshold float64

	// CategoryWeightFactor scales the video to category engagement weight
	CategoryWeightFactor float64
}

// DefaultBuilderConfig returns the default builder configuration
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		SimilarityThreshold:  0.3,
		CategoryWeightFactor: 0.5,
	}
}

// Builder constructs similarity graphs from channel videos
type Builder struct {
	config BuilderConfig
}

// NewBuilder creates a new similarity graph builder
func NewBuilder(config BuilderConfig) *Builder {
	return &Builder{
		config: config,
	}
}

// Build returns the similarity graph of the videos, or nil when there are none.
// Every video is linked to its category node; video pairs are linked when
// their combined title and description similarity exceeds the threshold.
func (b *Builder) Build(videos []channel.Video) *analytics.SimilarityGraph {
	videos = uniqueVideos(videos)
	if len(videos) == 0 {
		return nil
	}

	g := &analytics.SimilarityGraph{}
	seen := make(map[string]bool)
	addNode := func(name string) {
		if !seen[name] {
			seen[name] = true
			g.Nodes = append(g.Nodes, name)
		}
	}

	for _, v := range videos {
		videoNode := v.NodeID()
		categoryNode := "category_" + v.CategoryLabel()
		addNode(videoNode)
		addNode(categoryNode)

		g.Edges = append(g.Edges, analytics.Edge{
			From:   videoNode,
			To:     categoryNode,
			Weight: b.categoryWeight(v),
		})
	}

	if len(videos) < 2 {
		return g
	}

	sim := CombinedSimilarity(videos)
	for i := 0; i < len(videos); i++ {
		for j := i + 1; j < len(videos); j++ {
			if sim[i][j] > b.config.SimilarityThreshold {
				g.Edges = append(g.Edges, analytics.Edge{
					From:   videos[i].NodeID(),
					To:     videos[j].NodeID(),
					Weight: sim[i][j],
				})
			}
		}
	}

	return g
}

// categoryWeight is the engagement weight of a video's category edge
func (b *Builder) categoryWeight(v channel.Video) float64 {
	engagement := float64(v.Likes) + float64(v.CommentCount) + float64(v.Views)/1000
	return math.Max(0, engagement*b.config.CategoryWeightFactor)
}

// CombinedSimilarity returns the pairwise mean of title and description
// TF-IDF cosine similarities, each fit on its own corpus.
func CombinedSimilarity(videos []channel.Video) [][]float64 {
	titles := make([]string, len(videos))
	descriptions := make([]string, len(videos))
	for i, v := range videos {
		titles[i] = v.Title
		descriptions[i] = v.Description
	}

	titleSim := similarityMatrix(titles)
	descSim := similarityMatrix(descriptions)

	combined := make([][]float64, len(videos))
	for i := range combined {
		combined[i] = make([]float64, len(videos))
		for j := range combined[i] {
			combined[i][j] = (titleSim[i][j] + descSim[i][j]) / 2
		}
	}

	return combined
}

// uniqueVideos drops repeated video IDs, keeping the first occurrence
func uniqueVideos(videos []channel.Video) []channel.Video {
	seen := make(map[string]bool, len(videos))
	out := make([]channel.Video, 0, len(videos))
	for _, v := range videos {
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		out = append(out, v)
	}
	return out
}
