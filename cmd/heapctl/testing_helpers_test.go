package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		defer close(done)
		_, _ = buf.ReadFrom(r)
	}()

	fnErr := fn()

	w.Close()
	<-done
	os.Stdout = origStdout
	return buf.String(), fnErr
}

// decodeJSONStream decodes every JSON document in output.
func decodeJSONStream(t *testing.T, output string) []map[string]any {
	t.Helper()
	var docs []map[string]any
	dec := json.NewDecoder(strings.NewReader(output))
	for dec.More() {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			t.Fatalf("output is not a JSON stream: %v\n%s", err, output)
		}
		docs = append(docs, doc)
	}
	return docs
}

// resetFlags restores every command flag to its default after a test.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		verbose, quiet, jsonOut = false, false, false
		runParallel, runCheck, runFill, runMode, runImageDir, runBase = 1, false, true, "memory", "", ""
		runMaxHeap = 20 << 20
		checkBlocks = false
		genOps, genIDs, genMaxSize, genSeed = 1000, 100, 4096, 1
	})
}
