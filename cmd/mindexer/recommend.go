package main

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/sneller-labs/mindexer/config"
	"github.com/sneller-labs/mindexer/driver"
	"github.com/sneller-labs/mindexer/recommend"
	"github.com/sneller-labs/mindexer/workload"
)

func loadConfig() config.EngineConfig {
	if dashconfig == "" {
		return config.Default()
	}
	cfg, err := config.Load(dashconfig)
	if err != nil {
		exitf("loading config: %s\n", err)
	}
	return cfg
}

func loadWorkload(path string) workload.Workload {
	r, err := workload.Open(path)
	if err != nil {
		exitf("opening profile log: %s\n", err)
	}
	defer r.Close()
	wl := workload.Ingest(r)
	if dashv {
		logf("loaded %d queries from %s", len(wl), path)
	}
	return wl
}

func connectSource(ctx context.Context) (driver.Driver, func()) {
	client, ns, err := driver.Connect(ctx)
	if err != nil {
		exitf("connecting to source: %s\n", err)
	}
	d := driver.NewMongoDriver(client, ns)
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logf("disconnect: %s", err)
		}
	}
	return d, closeFn
}

func writeIndexSpecs(recs []recommend.Recommendation) {
	out := os.Stdout
	if dashout != "-" {
		f, err := os.Create(dashout)
		if err != nil {
			exitf("creating output: %s\n", err)
		}
		defer f.Close()
		out = f
	}
	for _, r := range recs {
		data, err := bson.MarshalExtJSON(r.IndexSpec(), false, false)
		if err != nil {
			exitf("rendering index spec: %s\n", err)
		}
		fmt.Fprintf(out, "%s\t# benefit=%.1f\n", data, r.Total)
	}
}

func runRecommend(ctx context.Context, profilePath string) {
	src, closeFn := connectSource(ctx)
	defer closeFn()

	wl := loadWorkload(profilePath)
	e := recommend.New(src, loadConfig())
	recs, err := e.Run(ctx, wl)
	if err != nil {
		exitf("recommend: %s\n", err)
	}
	writeIndexSpecs(recs)
}
