package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

var (
	dashv      bool
	dashh      bool
	dashconfig string
	dashout    string
)

func init() {
	flag.BoolVar(&dashv, "v", false, "verbose")
	flag.BoolVar(&dashh, "h", false, "show usage help")
	flag.StringVar(&dashconfig, "c", "", "engine config file (YAML, overlays the documented defaults)")
	flag.StringVar(&dashout, "o", "-", "output file (or - for stdout)")
}

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f, args...)
	os.Exit(1)
}

func logf(f string, args ...interface{}) {
	if len(f) == 0 || f[len(f)-1] != '\n' {
		f += "\n"
	}
	fmt.Fprintf(os.Stderr, f, args...)
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 || dashh {
		fmt.Fprintf(os.Stderr, "usage:\n")
		fmt.Fprintf(os.Stderr, "    %s [-c <config.yaml>] [-o <output>] recommend <profile-log>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "        recommend indexes for the workload recorded in a profile log\n")
		fmt.Fprintf(os.Stderr, "    %s [-c <config.yaml>] bench <profile-log>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "        recommend, create the indexes, and report before/after timing\n")
		fmt.Fprintf(os.Stderr, "flag usage:\n")
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	switch args[0] {
	case "recommend":
		if len(args) != 2 {
			exitf("usage: recommend <profile-log>\n")
		}
		runRecommend(ctx, args[1])
	case "bench":
		if len(args) != 2 {
			exitf("usage: bench <profile-log>\n")
		}
		runBench(ctx, args[1])
	default:
		exitf("commands: recommend, bench\n")
	}
}
