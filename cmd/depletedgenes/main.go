// depletedgenes post-processes the external differential-expression engine's
// per-construct results into flat gene lists. A gene is called robustly
// depleted only when at least two of its distinct constructs are
// independently significant, so one noisy guide cannot call a gene. Two
// lists are written: the full list, and the list with housekeeping-tagged
// genes removed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"

	"github.com/leukomics/geckoclean"
	"github.com/leukomics/geckoclean/annotate"
	"github.com/leukomics/geckoclean/bundle"
	"github.com/leukomics/geckoclean/compileinfo"
	"github.com/leukomics/geckoclean/de"
	"github.com/leukomics/geckoclean/sampleid"
)

func main() {
	compileinfo.PrintToStdErr()

	var (
		resultsFile   string
		bundleDir     string
		library       string
		outDir        string
		alpha         float64
		minConstructs int
	)

	flag.StringVar(&resultsFile, "results", "", "Engine results table (construct_id, log2FoldChange, padj).")
	flag.StringVar(&bundleDir, "bundle", "", "Directory holding the cleaned bundle written by geckoclean.")
	flag.StringVar(&library, "library", "", "Gecko library the results belong to: A or B.")
	flag.StringVar(&outDir, "out", "", "Directory for the gene list files.")
	flag.Float64Var(&alpha, "alpha", de.DefaultAlpha, "Adjusted-significance cutoff.")
	flag.IntVar(&minConstructs, "min-constructs", de.DefaultMinConstructs, "Distinct significant constructs required to call a gene.")
	flag.Parse()

	if resultsFile == "" || bundleDir == "" || outDir == "" ||
		(library != string(sampleid.LibraryA) && library != string(sampleid.LibraryB)) {
		flag.PrintDefaults()
		os.Exit(1)
	}

	lib := sampleid.Library(library)

	if err := run(lib, resultsFile, bundleDir, outDir, alpha, minConstructs); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(lib sampleid.Library, resultsFile, bundleDir, outDir string, alpha float64, minConstructs int) error {
	f, err := geckoclean.OpenTable(resultsFile)
	if err != nil {
		return fmt.Errorf("library %s: open results: %w", lib, err)
	}
	defer f.Close()

	results, err := de.LoadResults(f)
	if err != nil {
		return fmt.Errorf("library %s: load results: %w", lib, err)
	}

	constructs, err := bundle.ReadConstructs(bundleDir, lib)
	if err != nil {
		return fmt.Errorf("library %s: read bundle constructs: %w", lib, err)
	}

	constructGenes := annotate.ConstructGenes(constructs)
	geneMap := annotate.GeneMap(constructs)

	flags := make(map[string]bool, len(constructs))
	for _, c := range constructs {
		flags[c.ConstructID] = c.Housekeeping
	}

	depleted := de.RobustlyDepleted(results, constructGenes, alpha, minConstructs)
	housekeeping := de.HousekeepingGenes(geneMap, flags, minConstructs)
	withoutHK := de.ExcludeGenes(depleted, housekeeping)

	log.Printf("Library %s: %d robustly depleted gene(s), %d after excluding housekeeping-tagged\n",
		lib, len(depleted), len(withoutHK))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("library %s: %w", lib, err)
	}

	if err := writeList(filepath.Join(outDir, fmt.Sprintf("depleted.%s.txt", lib)), depleted); err != nil {
		return fmt.Errorf("library %s: write gene list: %w", lib, err)
	}

	if err := writeList(filepath.Join(outDir, fmt.Sprintf("depleted_nohk.%s.txt", lib)), withoutHK); err != nil {
		return fmt.Errorf("library %s: write gene list: %w", lib, err)
	}

	return nil
}

func writeList(path string, genes []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return de.WriteGeneList(f, genes)
}
