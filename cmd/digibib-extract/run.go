package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simmsb/digibib-extract/document"
	"github.com/simmsb/digibib-extract/internal/errs"
	"github.com/simmsb/digibib-extract/internal/locator"
	"github.com/simmsb/digibib-extract/internal/logging"
	"github.com/simmsb/digibib-extract/internal/store"
	"github.com/simmsb/digibib-extract/sink"
	"github.com/simmsb/digibib-extract/toc"
	"github.com/simmsb/digibib-extract/token"
	"github.com/simmsb/digibib-extract/typeset"
)

// doMain is separated out for the purpose of unit testing, mirroring
// the teacher's cmd/wazero doMain(stdOut, stdErr) split.
func doMain(stdOut, stdErr io.Writer) int {
	flag.CommandLine.SetOutput(stdErr)

	var (
		dir     string
		out     string
		format  string
		workers int
		verbose bool
		dumpUnk bool
	)
	flag.StringVar(&dir, "dir", "", "Archive directory containing tree.dki, tree.dka, text.dki.")
	flag.StringVar(&out, "out", "", "Output SQLite database path.")
	flag.StringVar(&format, "format", "doc", "Sink format: doc or markup.")
	flag.IntVar(&workers, "workers", runtime.NumCPU(), "Maximum concurrent page workers.")
	flag.BoolVar(&verbose, "v", false, "Verbose (debug-level) logging.")
	flag.BoolVar(&dumpUnk, "dump-unknown", false, "Log every Unknown token encountered, for diagnostic replay.")
	flag.Parse()

	if dir == "" || out == "" {
		fmt.Fprintln(stdErr, "usage: digibib-extract -dir <archive-dir> -out <sqlite-path> [-format doc|markup] [-workers N] [-v]")
		return 1
	}

	scopes := logging.ScopeNone
	if dumpUnk {
		scopes |= logging.ScopeLexer
	}
	log, err := logging.New(verbose || dumpUnk, scopes)
	if err != nil {
		fmt.Fprintln(stdErr, "logger init:", err)
		return 1
	}
	defer log.Sync()

	if err := run(context.Background(), dir, out, format, workers, log); err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}
	fmt.Fprintln(stdOut, "done")
	return 0
}

func run(ctx context.Context, dir, outPath, format string, workers int, log *logging.Logger) error {
	treeDki, err := os.Open(filepath.Join(dir, "tree.dki"))
	if err != nil {
		return fmt.Errorf("open tree.dki: %w", err)
	}
	defer treeDki.Close()

	treeDka, err := os.Open(filepath.Join(dir, "tree.dka"))
	if err != nil {
		return fmt.Errorf("open tree.dka: %w", err)
	}
	defer treeDka.Close()

	textDki, err := os.Open(filepath.Join(dir, "text.dki"))
	if err != nil {
		return fmt.Errorf("open text.dki: %w", err)
	}
	defer textDki.Close()

	entries, err := toc.Load(treeDki, treeDka)
	if err != nil {
		return fmt.Errorf("load toc: %w", err)
	}

	loc, err := locator.Open(textDki)
	if err != nil {
		return fmt.Errorf("load page table: %w", err)
	}

	st, err := store.Open(outPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	toc.Walk(entries, func(e toc.Entry) {
		for n := e.PageNumber; n < e.PageNumber+e.PageCount; n++ {
			pageNumber := n
			g.Go(func() error {
				return processPage(gctx, loc, st, format, pageNumber, log)
			})
		}
	})

	return g.Wait()
}

func processPage(ctx context.Context, loc *locator.Locator, st *store.Store, format string, n int, log *logging.Logger) error {
	page, err := loc.Page(n)
	if err != nil {
		return errs.ForPage(n, "locate", err)
	}

	tokens := token.Lex(page.Payload)
	if log != nil {
		for _, t := range tokens {
			if t.Kind == token.KindUnknown {
				log.Debugf(logging.ScopeLexer, "page %d: unknown opcode bytes %x", n, t.RawBytes)
			}
		}
	}

	switch format {
	case "markup":
		s := sink.NewMarkup()
		m := typeset.New(s)
		m.SetWarnFunc(func(format string, args ...any) { log.Warnf(format, args...) })
		m.Run(tokens)
		s.Flush()
		// Markup output is persisted as the plain text and as the single
		// chunk of a one-segment structured document, since the store
		// schema's content column holds the structured encoding; markup
		// mode is primarily a
		// debugging/preview path (spec.md §4.5 names it a reference sink,
		// not the primary persisted representation).
		doc := documentFromMarkup(s.Result())
		if err := st.PutPage(ctx, n, doc); err != nil {
			return errs.ForPage(n, "store", err)
		}
	default:
		s := sink.NewDocument()
		m := typeset.New(s)
		m.SetWarnFunc(func(format string, args ...any) { log.Warnf(format, args...) })
		m.Run(tokens)
		if err := st.PutPage(ctx, n, s.Result()); err != nil {
			return errs.ForPage(n, "store", err)
		}
	}

	return nil
}

// documentFromMarkup wraps a rendered markup string in a single-segment
// document so markup-mode output still satisfies the store schema and
// the "at least one segment" invariant (spec.md §3).
func documentFromMarkup(markup string) document.Document {
	return document.Document{
		PlainText: markup,
		Segments: []document.Segment{{
			Pieces: []document.Piece{{Kind: document.PieceChunk, Text: markup}},
		}},
	}
}
