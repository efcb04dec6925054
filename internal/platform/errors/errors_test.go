package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := WithMetadata(CodeCrewNotFound, "crew missing", map[string]string{"crew_id": "c1"})
	if !stderrors.Is(err, New(CodeCrewNotFound, "other message")) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodePlayerNotFound, "crew missing")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeNotFound, "load snapshot", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Error() != "load snapshot" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestFatalCodes(t *testing.T) {
	fatal := []Code{CodePlayerNotFound, CodeCrewNotFound, CodeWrongPhase, CodeGameNotRunning}
	for _, c := range fatal {
		if !c.Fatal() {
			t.Fatalf("expected %s to be fatal", c)
		}
	}
	if CodeRouteDisconnected.Fatal() {
		t.Fatal("expected rejection codes not to be fatal")
	}
}
