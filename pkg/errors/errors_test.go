package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "storefront query")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsUnwrapsThroughFmtWrap(t *testing.T) {
	inner := New(CodeNotFound, "cart not found")
	wrapped := fmt.Errorf("fetch: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error through wrap")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", typed.Code())
	}
	if !IsNotFound(wrapped) {
		t.Fatal("IsNotFound should match through wrapping")
	}
}

func TestMetadataFor(t *testing.T) {
	if MetadataFor(CodeBusinessRule).HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatal("business rule should map to 422")
	}
	if MetadataFor(CodeDependency).HTTPStatus != http.StatusBadGateway {
		t.Fatal("dependency should map to 502")
	}
	if MetadataFor(Code("BOGUS")).HTTPStatus != http.StatusInternalServerError {
		t.Fatal("unknown codes should fall back to internal")
	}
}

func TestDumpBuildsChain(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("root"), "outer")
	d := Dump(err)
	if d.Code != CodeInternal {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", d.Chain)
	}
}
