// Package report turns ranking scores into the node list written next to the
// trust graph.
package report

import (
	"math"
	"strconv"

	"github.com/montanaflynn/stats"

	"fbasgraph/internal/fbas"
)

// NodeListHeader is the first line of every node list file.
const NodeListHeader = "Id,Label,weight"

// NodeRanking is one row of the report.
type NodeRanking struct {
	ID    fbas.NodeID
	Label string
	Score float64
}

// Report is index-aligned: entry i always describes NodeID i.
type Report []NodeRanking

// Labeler resolves node ids to public keys.
type Labeler interface {
	PublicKey(id fbas.NodeID) string
}

// Assemble pairs scores with node ids in their given order. Labels are only
// resolved when withLabels is set; otherwise they are empty.
func Assemble(scores []float64, labeler Labeler, withLabels bool) Report {
	r := make(Report, len(scores))
	for id, score := range scores {
		r[id] = NodeRanking{ID: id, Score: score}
		if withLabels && labeler != nil {
			r[id].Label = labeler.PublicKey(id)
		}
	}
	return r
}

// NormalizeNodeRank scales scores to sum to one and truncates each to three
// decimals. Truncation, not rounding, keeps output identical across versions.
func NormalizeNodeRank(scores []float64) []float64 {
	total := 0.0
	for _, s := range scores {
		total += s
	}

	out := make([]float64, len(scores))
	if total == 0 {
		return out
	}
	for i, s := range scores {
		out[i] = math.Trunc(s/total*1000) / 1000
	}
	return out
}

// Lines renders each ranking as "id,label,score\n".
func (r Report) Lines() []string {
	lines := make([]string, len(r))
	for i, n := range r {
		lines[i] = strconv.Itoa(n.ID) + "," + n.Label + "," + FormatScore(n.Score) + "\n"
	}
	return lines
}

// FormatScore prints the shortest decimal form without an exponent.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r Report) Scores() []float64 {
	scores := make([]float64, len(r))
	for i, n := range r {
		scores[i] = n.Score
	}
	return scores
}

// Summary describes the score distribution for logging.
type Summary struct {
	Count int
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
}

func (r Report) Summary() Summary {
	if len(r) == 0 {
		return Summary{}
	}
	data := stats.Float64Data(r.Scores())
	s := Summary{Count: len(r)}
	// stats only errors on empty input, which is handled above.
	s.Sum, _ = data.Sum()
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	s.Mean, _ = data.Mean()
	return s
}
