package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simmsb/digibib-extract/internal/store"
)

// runMain resets the global flag.CommandLine and os.Args the way the
// teacher's own cmd test harness does, since doMain parses flags off the
// package-global flag.CommandLine.
func runMain(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"digibib-extract"}, args...)

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

	stdOut := &bytes.Buffer{}
	stdErr := &bytes.Buffer{}
	code := doMain(stdOut, stdErr)
	return code, stdOut.String(), stdErr.String()
}

// writeBlock appends a DkaBlock (len_minus_one then entries) to buf.
func writeBlock(buf *bytes.Buffer, entries []int32) {
	binary.Write(buf, binary.LittleEndian, uint32(len(entries)-1))
	for _, e := range entries {
		binary.Write(buf, binary.LittleEndian, e)
	}
}

// writeTestArchive builds a minimal two-page archive directory: a flat,
// one-entry TOC covering both pages, and a text.dki with no magic header.
func writeTestArchive(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tree.dki"), []byte("Chapter One\n"), 0o644))

	var treeDka bytes.Buffer
	writeBlock(&treeDka, []int32{0})
	writeBlock(&treeDka, []int32{0})
	writeBlock(&treeDka, []int32{0})
	writeBlock(&treeDka, []int32{3}) // one entry: page_count = 3 - 1 = 2
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tree.dka"), treeDka.Bytes(), 0o644))

	page1 := []byte{0x01, 0x03, 'f', 'o', 'o', 0x03}
	page2 := []byte{0x01, 0x03, 'b', 'a', 'r', 0x03}

	var body bytes.Buffer
	var pages bytes.Buffer
	offsets := make([]int32, 2)

	offsets[0] = 0
	binary.Write(&pages, binary.LittleEndian, uint16(len(page1)+2))
	pages.Write(page1)

	offsets[1] = int32(pages.Len())
	binary.Write(&pages, binary.LittleEndian, uint16(len(page2)+2))
	pages.Write(page2)

	tableBytes := 4 + len(offsets)*4
	for i := range offsets {
		offsets[i] += int32(tableBytes)
	}
	binary.Write(&body, binary.LittleEndian, uint32(len(offsets)-1))
	for _, o := range offsets {
		binary.Write(&body, binary.LittleEndian, o)
	}
	body.Write(pages.Bytes())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "text.dki"), body.Bytes(), 0o644))

	return dir
}

func TestDoMainMissingFlagsPrintsUsage(t *testing.T) {
	code, _, stdErr := runMain(t, []string{})
	assert.Equal(t, 1, code)
	assert.Contains(t, stdErr, "usage:")
}

func TestDoMainDocFormatExtractsPages(t *testing.T) {
	dir := writeTestArchive(t)
	outPath := filepath.Join(t.TempDir(), "out.db")

	code, stdOut, stdErr := runMain(t, []string{"-dir", dir, "-out", outPath, "-workers", "1"})
	assert.Equal(t, 0, code, "stderr: %s", stdErr)
	assert.Contains(t, stdOut, "done")

	st, err := store.Open(outPath)
	require.NoError(t, err)
	defer st.Close()

	doc1, err := st.GetPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "foo", doc1.PlainText)

	doc2, err := st.GetPage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "bar", doc2.PlainText)
}

func TestDoMainMarkupFormat(t *testing.T) {
	dir := writeTestArchive(t)
	outPath := filepath.Join(t.TempDir(), "out.db")

	code, _, stdErr := runMain(t, []string{"-dir", dir, "-out", outPath, "-format", "markup", "-workers", "1"})
	assert.Equal(t, 0, code, "stderr: %s", stdErr)

	st, err := store.Open(outPath)
	require.NoError(t, err)
	defer st.Close()

	doc1, err := st.GetPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, doc1.PlainText, "foo")
}

func TestDoMainMissingArchiveDirErrors(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.db")
	code, _, stdErr := runMain(t, []string{"-dir", "/nonexistent/path", "-out", outPath})
	assert.Equal(t, 1, code)
	assert.Contains(t, stdErr, "open tree.dki")
}
