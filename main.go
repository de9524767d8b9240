package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	flag "github.com/docker/docker/pkg/mflag"

	"github.com/wlattner/fp/search"
	"github.com/wlattner/fp/tree"
)

var (
	// input/output files
	dataFile = flag.String([]string{"d", "-data"}, "", "csv file with input data, first column is the output")
	outFile  = flag.String([]string{"o", "-output"}, "", "file to write found projections, stdout if blank")
	// search params
	binSize = flag.Int([]string{"-bin_size"}, 10, "number of data points in each tree leaf")
	support = flag.Int([]string{"-support"}, 10, "minimum number of data points inside a projection box")
	purity  = flag.Float64([]string{"-purity"}, 0.9, "minimum class purity of a projection box")
	mode    = flag.Int([]string{"-mode"}, 0, "numeric objective: 0 low variance, 1 high mean, 2 low mean")
	valProp = flag.Float64([]string{"-val_prop"}, 0.1, "holdout fraction for validating decision list boxes")
	seed    = flag.Int64([]string{"-seed"}, 1, "seed for the train/validation shuffle")
	// operation
	explain = flag.Bool([]string{"e", "-explain"}, false, "learn a decision list of disjoint boxes")
	nuggets = flag.Bool([]string{"n", "-nuggets"}, false, "greedily peel off pure class boxes (classification only)")
	// force classification
	forceClf = flag.Bool([]string{"c", "-classification"}, false, "force parser to use integer targets/labels for classification")
	// runtime params
	nWorkers   = flag.Int([]string{"-workers"}, 1, "number of workers for evaluating column pairs")
	runProfile = flag.Bool([]string{"-profile"}, false, "cpu profile")
	verbose    = flag.Bool([]string{"v", "-verbose"}, false, "log search progress to stderr")
)

func main() {
	flag.Parse()

	if *nWorkers > 1 {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	if *runProfile {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	// make sure user specified csv file w/ data
	if *dataFile == "" {
		fmt.Fprintf(os.Stderr, "Usage of fp:\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*dataFile)
	if err != nil {
		fatal("error opening data file", err.Error())
	}
	defer f.Close()

	p, err := parseCSV(f, *forceClf)
	if err != nil {
		fatal("error parsing input data", err.Error())
	}
	ds := p.Dataset()

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	s := search.New(
		search.BinSize(*binSize),
		search.Support(*support),
		search.Purity(*purity),
		search.Mode(tree.Mode(*mode)),
		search.NumWorkers(*nWorkers),
		search.ValProp(*valProp),
		search.Seed(*seed),
		search.Logger(logger),
	)

	out := io.Writer(os.Stdout)
	if *outFile != "" {
		o, err := os.Create(*outFile)
		if err != nil {
			fatal("error creating", *outFile, err.Error())
		}
		defer o.Close()
		out = o
	}

	switch {
	case *explain:
		list, err := s.EasyExplain(ds)
		if err != nil {
			fatal(err.Error())
		}
		if err := list.WriteDecisionList(os.Stderr); err != nil {
			fatal("error writing decision list", err.Error())
		}
		if err := list.WriteCSV(out); err != nil {
			fatal("error writing projections", err.Error())
		}
	case *nuggets:
		list, err := s.ClassNuggets(ds)
		if err != nil {
			fatal(err.Error())
		}
		if err := list.WriteCSV(out); err != nil {
			fatal("error writing projections", err.Error())
		}
	default:
		fm, err := s.Projections(ds)
		if err != nil {
			fatal(err.Error())
		}
		if err := fm.WriteCSV(out); err != nil {
			fatal("error writing projections", err.Error())
		}
	}
}

func fatal(a ...interface{}) {
	fmt.Fprintln(os.Stderr, a...)
	os.Exit(1)
}
