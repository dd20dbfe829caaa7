package workload

import (
	"bufio"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/sneller-labs/mindexer/query"
)

// profileEntry mirrors the shape of a MongoDB system.profile document for
// a find-like operation: the fields the profile ingester actually reads.
type profileEntry struct {
	Op      string `bson:"op"`
	Command struct {
		Filter     bson.D `bson:"filter"`
		Sort       bson.D `bson:"sort"`
		Limit      int32  `bson:"limit"`
		Projection bson.D `bson:"projection"`
	} `bson:"command"`
}

// Open returns a reader over path, transparently decompressing it with
// gzip when the name ends in ".gz" (teacher: ion/blockfmt leans on
// klauspost/compress for all its on-disk compression; profile logs get
// the same treatment here).
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipReadCloser{gz: gz, f: f}, nil
}

type gzipReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	fErr := g.f.Close()
	if gzErr != nil {
		return gzErr
	}
	return fErr
}

// Ingest reads one newline-delimited extended-JSON document per line from
// r, each shaped like a MongoDB system.profile entry, and builds a
// Workload from it. A malformed or UnsupportedQuery entry is logged and
// skipped, not fatal (§6, §7's UnsupportedQuery policy).
func Ingest(r io.Reader) Workload {
	var wl Workload
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var entry profileEntry
		if err := bson.UnmarshalExtJSON([]byte(text), false, &entry); err != nil {
			log.Printf("workload: line %d: malformed profile entry: %v", line, err)
			continue
		}
		if entry.Op != "query" && entry.Op != "find" {
			continue
		}
		q, err := query.FromFilter(
			entry.Command.Filter,
			sortFields(entry.Command.Sort),
			int(entry.Command.Limit),
			projectionFields(entry.Command.Projection),
		)
		if err != nil {
			log.Printf("workload: line %d: skipping unsupported query: %v", line, err)
			continue
		}
		wl = append(wl, q)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("workload: scan error: %v", err)
	}
	return wl
}

func sortFields(sort bson.D) []string {
	if len(sort) == 0 {
		return nil
	}
	out := make([]string, 0, len(sort))
	for _, e := range sort {
		out = append(out, e.Key)
	}
	return out
}

// projectionFields returns the include-list of an include-projection,
// skipping exclusion entries (value 0/false). _id follows the same rule
// as any other field: it's only dropped when explicitly excluded, not
// just because it's implicit.
func projectionFields(proj bson.D) []string {
	if len(proj) == 0 {
		return nil
	}
	var out []string
	for _, e := range proj {
		if included(e.Value) {
			out = append(out, e.Key)
		}
	}
	return out
}

func included(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int32:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return false
	}
}
