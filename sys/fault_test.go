package sys

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(ValidationFault("bad input")); got != FaultValidation {
		t.Errorf("KindOf(validation) = %v", got)
	}
	if got := KindOf(fmt.Errorf("wrap: %w", NotFoundFault("missing"))); got != FaultNotFound {
		t.Errorf("KindOf(wrapped not-found) = %v", got)
	}
	if got := KindOf(errors.New("plain")); got != FaultUnknown {
		t.Errorf("KindOf(plain) = %v", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(ValidationFault("title is required")); got != "❌ title is required" {
		t.Errorf("validation message = %q", got)
	}

	// External and storage faults carry internal detail that must not
	// reach chat.
	ext := UserMessage(ExternalFault("roblox call", errors.New("401 unauthorized")))
	if got := ext; got != "❌ an external service failed. please try again later." {
		t.Errorf("external message = %q", got)
	}
	st := UserMessage(StorageFault("insert report", errors.New("connection refused")))
	if got := st; got != "❌ something went wrong saving your data. please try again later." {
		t.Errorf("storage message = %q", got)
	}

	if got := UserMessage(errors.New("pq: syntax error")); got != "❌ something went wrong. please try again later." {
		t.Errorf("unknown message = %q", got)
	}
}

func TestFaultUnwrap(t *testing.T) {
	inner := errors.New("boom")
	f := ExternalFault("call failed", inner)
	if !errors.Is(f, inner) {
		t.Error("fault should unwrap to its cause")
	}
	if f.Error() != "call failed: boom" {
		t.Errorf("Error() = %q", f.Error())
	}
}
