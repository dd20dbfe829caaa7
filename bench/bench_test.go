package bench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sneller-labs/mindexer/query"
	"github.com/sneller-labs/mindexer/recommend"
)

type fakeDriver struct {
	durations   []time.Duration // consumed in order, one per ExecuteWorkload call
	call        int
	createErr   error
	createCalls [][]string
}

func (f *fakeDriver) CreateIndex(ctx context.Context, fields []string) error {
	f.createCalls = append(f.createCalls, fields)
	return f.createErr
}

func (f *fakeDriver) ExecuteWorkload(ctx context.Context, wl []query.Query) (time.Duration, error) {
	d := f.durations[f.call]
	f.call++
	return d, nil
}

func TestRunReportsBeforeAfterAndCreatesIndexes(t *testing.T) {
	d := &fakeDriver{durations: []time.Duration{100 * time.Millisecond, 10 * time.Millisecond}}
	recs := []recommend.Recommendation{{Fields: []string{"a"}, Total: 9010}}

	got, err := Run(context.Background(), d, nil, recs)
	if err != nil {
		t.Fatal(err)
	}
	if got.Before != 100*time.Millisecond || got.After != 10*time.Millisecond {
		t.Fatalf("Run() = %+v, want before=100ms after=10ms", got)
	}
	if len(d.createCalls) != 1 || d.createCalls[0][0] != "a" {
		t.Fatalf("createCalls = %v, want one call for field a", d.createCalls)
	}
	if want := 10.0; got.Speedup() != want {
		t.Fatalf("Speedup() = %v, want %v", got.Speedup(), want)
	}
}

func TestRunAbortsOnCreateIndexError(t *testing.T) {
	wantErr := errors.New("index build failed")
	d := &fakeDriver{durations: []time.Duration{time.Second}, createErr: wantErr}
	recs := []recommend.Recommendation{{Fields: []string{"a"}}}

	_, err := Run(context.Background(), d, nil, recs)
	if err == nil || !errors.Is(err, wantErr) {
		t.Fatalf("Run() err = %v, want wrapping %v", err, wantErr)
	}
}

func TestSpeedupZeroWhenAfterIsZero(t *testing.T) {
	r := Result{Before: time.Second, After: 0}
	if r.Speedup() != 0 {
		t.Fatalf("Speedup() = %v, want 0", r.Speedup())
	}
}
