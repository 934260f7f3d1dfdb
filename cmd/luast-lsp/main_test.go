package main

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestExtractFullText(t *testing.T) {
	text, ok := extractFullText(protocol.TextDocumentContentChangeEventWhole{Text: "print 1"})
	if !ok || text != "print 1" {
		t.Fatalf("unexpected result %q %v", text, ok)
	}
	if _, ok := extractFullText("not a change"); ok {
		t.Fatal("expected unknown change to be rejected")
	}
}
