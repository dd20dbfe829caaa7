package candidate

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/sneller-labs/mindexer/query"
)

func must(t *testing.T, filter bson.D) query.Query {
	t.Helper()
	q, err := query.FromFilter(filter, nil, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func TestGenerateSingleField(t *testing.T) {
	wl := []query.Query{must(t, bson.D{{Key: "a", Value: int32(1)}})}
	got := Generate(wl, 3)
	if len(got) != 1 || got[0][0] != "a" {
		t.Fatalf("Generate = %v, want [[a]]", got)
	}
}

func TestGenerateAllPermutationsUpToBound(t *testing.T) {
	wl := []query.Query{must(t, bson.D{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: int32(2)},
	})}
	got := Generate(wl, 3)
	want := map[string]bool{
		"a": true, "b": true,
		"a,b": true, "b,a": true,
	}
	if len(got) != len(want) {
		t.Fatalf("Generate = %v, want %d candidates", got, len(want))
	}
	for _, c := range got {
		key := joinComma(c)
		if !want[key] {
			t.Fatalf("unexpected candidate %v", c)
		}
	}
}

func TestGenerateExcludesID(t *testing.T) {
	wl := []query.Query{must(t, bson.D{{Key: "_id", Value: int32(1)}})}
	got := Generate(wl, 3)
	if len(got) != 0 {
		t.Fatalf("Generate = %v, want empty (_id excluded)", got)
	}
}

func TestGenerateRespectsMaxFields(t *testing.T) {
	wl := []query.Query{must(t, bson.D{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: int32(2)},
		{Key: "c", Value: int32(3)},
	})}
	got := Generate(wl, 2)
	for _, c := range got {
		if len(c) > 2 {
			t.Fatalf("candidate %v exceeds maxFields=2", c)
		}
	}
}

func TestGenerateDeduplicatesAcrossQueries(t *testing.T) {
	wl := []query.Query{
		must(t, bson.D{{Key: "a", Value: int32(1)}}),
		must(t, bson.D{{Key: "a", Value: int32(2)}}),
	}
	got := Generate(wl, 3)
	if len(got) != 1 {
		t.Fatalf("Generate = %v, want a single deduplicated candidate", got)
	}
}

func joinComma(c []string) string {
	out := ""
	for i, f := range c {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}
