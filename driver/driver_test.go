package driver

import (
	"errors"
	"testing"
)

func TestNamespaceString(t *testing.T) {
	ns := Namespace{DB: "app", Collection: "orders"}
	if got, want := ns.String(), "app.orders"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap("count", nil); err != nil {
		t.Fatalf("Wrap(op, nil) = %v, want nil", err)
	}
}

func TestWrapUnwraps(t *testing.T) {
	inner := errors.New("connection reset")
	err := Wrap("find", inner)
	if !errors.Is(err, inner) {
		t.Fatal("Wrap result should unwrap to the original error")
	}
	var de *Error
	if !errors.As(err, &de) || de.Op != "find" {
		t.Fatalf("Wrap result = %#v, want *Error{Op: find}", err)
	}
}
