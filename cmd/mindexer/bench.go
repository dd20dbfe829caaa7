package main

import (
	"context"
	"fmt"

	"github.com/sneller-labs/mindexer/bench"
	"github.com/sneller-labs/mindexer/recommend"
)

func runBench(ctx context.Context, profilePath string) {
	src, closeFn := connectSource(ctx)
	defer closeFn()

	wl := loadWorkload(profilePath)
	e := recommend.New(src, loadConfig())
	recs, err := e.Run(ctx, wl)
	if err != nil {
		exitf("recommend: %s\n", err)
	}
	if dashv {
		logf("recommended %d index(es), running before/after benchmark", len(recs))
	}

	result, err := bench.Run(ctx, src, wl, recs)
	if err != nil {
		exitf("bench: %s\n", err)
	}
	fmt.Println(result)
}
