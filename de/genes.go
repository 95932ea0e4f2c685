package de

import (
	"bufio"
	"io"
	"math"
	"sort"
)

// DefaultAlpha is the adjusted-significance cutoff applied to engine results.
const DefaultAlpha = 0.05

// DefaultMinConstructs is the multiplicity requirement: a gene is only called
// robustly depleted when at least this many of its distinct constructs are
// independently significant, so a single noisy guide measurement cannot call
// a gene on its own.
const DefaultMinConstructs = 2

// SignificantlyDepleted reports whether one construct passed the engine's
// multiple-testing correction with a negative effect size.
func SignificantlyDepleted(r Result, alpha float64) bool {
	return !math.IsNaN(r.AdjustedP) && r.AdjustedP < alpha && r.Log2FoldChange < 0
}

// RobustlyDepleted returns the genes with at least minConstructs distinct
// significantly depleted constructs, deduplicated and sorted.
// constructGenes maps construct ID to gene ID.
func RobustlyDepleted(results []Result, constructGenes map[string]string, alpha float64, minConstructs int) []string {
	hits := make(map[string]map[string]bool)
	for _, r := range results {
		if !SignificantlyDepleted(r, alpha) {
			continue
		}
		gene, exists := constructGenes[r.ConstructID]
		if !exists {
			continue
		}
		if hits[gene] == nil {
			hits[gene] = make(map[string]bool)
		}
		hits[gene][r.ConstructID] = true
	}

	genes := make([]string, 0, len(hits))
	for gene, constructs := range hits {
		if len(constructs) >= minConstructs {
			genes = append(genes, gene)
		}
	}
	sort.Strings(genes)

	return genes
}

// HousekeepingGenes applies the same multiplicity logic to the housekeeping
// flags: a gene is housekeeping-tagged when at least minConstructs of its
// constructs were flagged by the in-vitro baseline.
func HousekeepingGenes(geneMap map[string][]string, flags map[string]bool, minConstructs int) map[string]bool {
	out := make(map[string]bool)
	for gene, constructs := range geneMap {
		n := 0
		for _, c := range constructs {
			if flags[c] {
				n++
			}
		}
		out[gene] = n >= minConstructs
	}

	return out
}

// ExcludeGenes filters tagged genes out of a sorted gene list.
func ExcludeGenes(genes []string, tagged map[string]bool) []string {
	out := make([]string, 0, len(genes))
	for _, gene := range genes {
		if tagged[gene] {
			continue
		}
		out = append(out, gene)
	}

	return out
}

// WriteGeneList writes one gene ID per line: no header, no quoting. This is
// the flat format the downstream enrichment tooling expects.
func WriteGeneList(w io.Writer, genes []string) error {
	bw := bufio.NewWriter(w)
	for _, gene := range genes {
		if _, err := bw.WriteString(gene + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}
