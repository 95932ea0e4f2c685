// geckoclean runs the count-cleaning pipeline for one Gecko library arm of
// the transplantation screen: it loads the raw count exports from both
// sequencing runs, derives canonical sample identities from the free-text
// column labels, applies the hand-verified mislabeling corrections, drops
// failed sequencing runs by depth, sums technical replicates into one column
// per canonical sample, tags suspected housekeeping constructs against the
// in-vitro baseline, and writes the cleaned bundle handed to the external
// differential-expression engine. The A and B libraries are independent: run
// this tool once per library.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/leukomics/geckoclean"
	"github.com/leukomics/geckoclean/annotate"
	"github.com/leukomics/geckoclean/bundle"
	"github.com/leukomics/geckoclean/compileinfo"
	"github.com/leukomics/geckoclean/sampleid"
	"github.com/leukomics/geckoclean/screen"
)

func main() {
	compileinfo.PrintToStdErr()

	var (
		run1PreFile    string
		run1PostFile   string
		run2File       string
		constructsFile string
		library        string
		outDir         string
		depthThreshold int64
		hkThreshold    float64
		strict         bool
	)

	flag.StringVar(&run1PreFile, "run1pre", "", "First-run pre-transplant count table.")
	flag.StringVar(&run1PostFile, "run1post", "", "First-run post-transplant count table.")
	flag.StringVar(&run2File, "run2", "", "Second-run count table (all timepoints, labeled columns).")
	flag.StringVar(&constructsFile, "constructs", "", "Gecko library construct reference table.")
	flag.StringVar(&library, "library", "", "Gecko library being cleaned: A or B.")
	flag.StringVar(&outDir, "out", "", "Directory for the cleaned bundle.")
	flag.Int64Var(&depthThreshold, "depth-threshold", screen.DefaultDepthThreshold, "Minimum total reads a raw sequencing-run column must exceed to be kept.")
	flag.Float64Var(&hkThreshold, "hk-threshold", annotate.DefaultHousekeepingThreshold, "Mean in-vitro count below which a construct is tagged housekeeping.")
	flag.BoolVar(&strict, "strict", false, "Fail on any label that only a default fallback rule can classify, instead of accepting the fallback.")
	flag.Parse()

	if run1PreFile == "" || run1PostFile == "" || run2File == "" || constructsFile == "" || outDir == "" ||
		(library != string(sampleid.LibraryA) && library != string(sampleid.LibraryB)) {
		flag.PrintDefaults()
		os.Exit(1)
	}

	lib := sampleid.Library(library)

	cleaned, err := runPipeline(lib, run1PreFile, run1PostFile, run2File, constructsFile, depthThreshold, hkThreshold, strict)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}

	if err := bundle.Write(outDir, *cleaned); err != nil {
		log.Fatalln(pfx.Err(fmt.Errorf("library %s: write bundle: %w", lib, err)))
	}

	log.Printf("Library %s: wrote cleaned bundle to %s (%d constructs x %d canonical samples)\n",
		lib, outDir, len(cleaned.Counts.ConstructIDs), len(cleaned.Counts.Cols))
}

// runPipeline is the per-library pipeline. Both libraries run the identical
// sequence; nothing here is shared between invocations.
func runPipeline(lib sampleid.Library, run1PreFile, run1PostFile, run2File, constructsFile string, depthThreshold int64, hkThreshold float64, strict bool) (*bundle.Cleaned, error) {
	run1Pre, err := loadFiltered(lib, "run1 pre", run1PreFile, depthThreshold)
	if err != nil {
		return nil, err
	}

	run1Post, err := loadFiltered(lib, "run1 post", run1PostFile, depthThreshold)
	if err != nil {
		return nil, err
	}

	run2, err := loadFiltered(lib, "run2", run2File, depthThreshold)
	if err != nil {
		return nil, err
	}

	ids := make([]sampleid.Identity, 0, len(run1Pre.Cols)+len(run1Post.Cols)+len(run2.Cols))
	for _, batch := range []struct {
		cols   []string
		run    sampleid.Run
		origin sampleid.Transplant
	}{
		{run1Pre.Cols, sampleid.RunFirst, sampleid.TransplantPre},
		{run1Post.Cols, sampleid.RunFirst, sampleid.TransplantPost},
		{run2.Cols, sampleid.RunSecond, ""},
	} {
		for _, col := range batch.cols {
			if strict {
				id, err := sampleid.DeriveStrict(col, batch.run, batch.origin)
				if err != nil {
					return nil, fmt.Errorf("library %s: identity: %w", lib, err)
				}
				ids = append(ids, id)
				continue
			}
			ids = append(ids, sampleid.Derive(col, batch.run, batch.origin))
		}
	}

	ids = sampleid.ApplyCorrections(ids, sampleid.Corrections)
	for _, id := range ids {
		for _, c := range sampleid.Corrections {
			if id.RawLabel == c.RawLabel {
				log.Printf("Library %s: correction applied to %q -> %s (%s)\n", lib, id.RawLabel, id.Derived, c.Note)
			}
		}
	}

	combined, err := screen.Concat(run1Pre, run1Post)
	if err != nil {
		return nil, fmt.Errorf("library %s: combine run1 pre/post: %w", lib, err)
	}

	combined, err = screen.Concat(combined, run2)
	if err != nil {
		return nil, fmt.Errorf("library %s: append run2: %w", lib, err)
	}

	derived := make([]string, len(ids))
	unresolved := make([]string, 0)
	for i, id := range ids {
		if !id.Valid() {
			unresolved = append(unresolved, id.RawLabel)
			continue
		}
		derived[i] = id.Derived
	}

	if len(unresolved) > 0 {
		log.Printf("Library %s: WARNING: dropping %d column(s) with unresolved identity: %s\n",
			lib, len(unresolved), strings.Join(unresolved, ", "))
	}

	agg, report, err := screen.Aggregate(combined, derived)
	if err != nil {
		return nil, fmt.Errorf("library %s: aggregate: %w", lib, err)
	}

	log.Printf("Library %s: aggregated %d raw columns into %d canonical samples (%d dropped)\n",
		lib, len(combined.Cols), len(agg.Cols), len(report.Dropped))

	idByDerived := make(map[string]sampleid.Identity, len(ids))
	for _, id := range ids {
		if _, exists := idByDerived[id.Derived]; !exists {
			idByDerived[id.Derived] = id
		}
	}

	samples := make([]bundle.SampleMeta, 0, len(agg.Cols))
	vitroCols := make([]string, 0)
	for _, key := range agg.Cols {
		id := idByDerived[key]
		samples = append(samples, bundle.MetaFromIdentity(id))
		if id.Transplant == sampleid.TransplantVitro {
			vitroCols = append(vitroCols, key)
		}
	}

	flags, err := annotate.TagHousekeeping(agg, vitroCols, hkThreshold)
	if err != nil {
		return nil, fmt.Errorf("library %s: housekeeping tagging: %w", lib, err)
	}

	validIDs := make(map[string]bool, len(agg.ConstructIDs))
	for _, id := range agg.ConstructIDs {
		validIDs[id] = true
	}

	cf, err := geckoclean.OpenTable(constructsFile)
	if err != nil {
		return nil, fmt.Errorf("library %s: open constructs: %w", lib, err)
	}
	defer cf.Close()

	constructs, err := annotate.LoadConstructs(cf, validIDs)
	if err != nil {
		return nil, fmt.Errorf("library %s: load constructs: %w", lib, err)
	}
	constructs = annotate.ApplyHousekeeping(constructs, flags)

	nHousekeeping := 0
	for _, c := range constructs {
		if c.Housekeeping {
			nHousekeeping++
		}
	}
	log.Printf("Library %s: %d of %d constructs tagged housekeeping against %d in-vitro sample(s)\n",
		lib, nHousekeeping, len(constructs), len(vitroCols))

	return &bundle.Cleaned{
		Library:    lib,
		Counts:     agg,
		Samples:    samples,
		Constructs: constructs,
	}, nil
}

// loadFiltered loads one raw export and applies the depth filter to its
// columns. Filtering happens here, per sequencing run, before any summing:
// a failed run must be discarded outright, not diluted into the replicate it
// would have been summed with.
func loadFiltered(lib sampleid.Library, stage, path string, depthThreshold int64) (*screen.CountMatrix, error) {
	f, err := geckoclean.OpenTable(path)
	if err != nil {
		return nil, fmt.Errorf("library %s: %s: open %s: %w", lib, stage, path, err)
	}
	defer f.Close()

	m, err := screen.LoadCounts(f)
	if err != nil {
		return nil, fmt.Errorf("library %s: %s: load: %w", lib, stage, err)
	}

	depth := screen.SummarizeDepth(m)
	log.Printf("Library %s: %s: %d constructs x %d columns; depth mean %.0f sd %.0f median %.0f min %d max %d\n",
		lib, stage, len(m.ConstructIDs), len(m.Cols), depth.Mean, depth.SD, depth.Median, depth.Min, depth.Max)

	filtered, dropped := screen.FilterLowDepth(m, depthThreshold)
	if len(dropped) > 0 {
		log.Printf("Library %s: %s: dropped %d low-depth column(s): %s\n", lib, stage, len(dropped), strings.Join(dropped, ", "))
	}
	log.Printf("Library %s: %s: retained %d of %d columns\n", lib, stage, len(filtered.Cols), len(m.Cols))

	return filtered, nil
}
