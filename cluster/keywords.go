// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cluster

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/poiesic/semscan/core"
)

// keywordsPerLabel is how many top terms make up a derived cluster name.
const keywordsPerLabel = 3

// minTokenLength filters out short function words before scoring.
const minTokenLength = 3

// LabelClusters derives a human-readable name for every cluster that does
// not already have one, from the vocabulary most distinctive for its member
// statements. Terms are scored per cluster with TF-IDF, treating each
// cluster's concatenated text as one document so shared vocabulary scores
// low everywhere. Names are written into result.ClusterNames.
func LabelClusters(statements []core.Statement, result *core.ClusterResult) {
	if result.ClusterNames == nil {
		result.ClusterNames = make(map[int]string)
	}

	// One token bag per cluster label.
	bags := make([][]string, result.NClusters)
	for i, label := range result.Labels {
		if label < 0 || label >= result.NClusters {
			continue
		}
		bags[label] = append(bags[label], tokenize(statements[i].Text)...)
	}

	// Document frequency over cluster-documents.
	df := make(map[string]int)
	for _, bag := range bags {
		seen := make(map[string]bool)
		for _, tok := range bag {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	nDocs := float64(result.NClusters)
	for label, bag := range bags {
		if _, ok := result.ClusterNames[label]; ok {
			continue
		}

		tf := make(map[string]int)
		for _, tok := range bag {
			tf[tok]++
		}

		type scored struct {
			term  string
			score float64
		}
		terms := make([]scored, 0, len(tf))
		for term, count := range tf {
			// Smoothed IDF keeps single-cluster corpora from zeroing out.
			idf := math.Log((1+nDocs)/(1+float64(df[term]))) + 1
			terms = append(terms, scored{term: term, score: float64(count) * idf})
		}
		sort.Slice(terms, func(i, j int) bool {
			if terms[i].score != terms[j].score {
				return terms[i].score > terms[j].score
			}
			return terms[i].term < terms[j].term
		})

		top := make([]string, 0, keywordsPerLabel)
		for _, t := range terms {
			top = append(top, t.term)
			if len(top) == keywordsPerLabel {
				break
			}
		}

		if len(top) == 0 {
			result.ClusterNames[label] = fmt.Sprintf("Cluster %d", label)
		} else {
			result.ClusterNames[label] = strings.Join(top, ", ")
		}
	}
}

// tokenize lowercases text and keeps alphabetic terms past the length and
// stop-word filters.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() >= minTokenLength {
			tok := current.String()
			if !stopWords[tok] {
				tokens = append(tokens, tok)
			}
		}
		current.Reset()
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "has": true,
	"have": true, "been": true, "this": true, "that": true, "with": true,
	"will": true, "your": true, "from": true, "they": true, "more": true,
	"when": true, "there": true, "what": true, "about": true, "which": true,
	"their": true, "than": true, "into": true, "also": true,
}
