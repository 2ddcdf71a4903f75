package qdrantDB

import (
	"sort"
	"strconv"

	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
)

// tieSlack extra points are fetched so ties at the k-th place can be settled by position.
const tieSlack = 16

// sortTies orders equal scores by insertion position, which qdrant does not guarantee.
// The position key is removed from the metadata afterwards.
func sortTies(hits []commonModels.Hit) {
	pos := func(h commonModels.Hit) int {
		n, _ := strconv.Atoi(h.Chunk.Metadata[payloadPosition])
		return n
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return pos(hits[i]) < pos(hits[j])
	})
	for _, h := range hits {
		delete(h.Chunk.Metadata, payloadPosition)
	}
}

// tieAtCut reports whether the score at the k-th place may continue past the fetched window.
func tieAtCut(hits []commonModels.Hit, k int, limit int) bool {
	if k <= 0 || len(hits) < limit || len(hits) <= k {
		return false
	}
	return hits[k-1].Score == hits[len(hits)-1].Score
}

// topK settles ties by position and keeps the best k.
func topK(hits []commonModels.Hit, k int) []commonModels.Hit {
	sortTies(hits)
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
