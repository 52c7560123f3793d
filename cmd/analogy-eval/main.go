// Command analogy-eval evaluates word-analogy queries against a
// pretrained embedding space.
//
// A space comes either from a local vectors file or from a named
// pretrained model fetched through the hub:
//
//	analogy-eval -vectors glove.6B.100d.txt -analogy king:queen::man:woman
//	analogy-eval -model glove-wiki-gigaword-100 -questions questions.csv -out results.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/hupe1980/analogy"
	"github.com/hupe1980/analogy/dataset"
	"github.com/hupe1980/analogy/embedding"
	"github.com/hupe1980/analogy/hub"
)

func main() {
	var (
		vectorsFile = flag.String("vectors", "", "Path to a local embedding file (word2vec/GloVe text or word2vec binary, optionally gzipped)")
		modelName   = flag.String("model", "", "Named pretrained model to fetch and cache (see -list-models)")
		listModels  = flag.Bool("list-models", false, "List known pretrained models and exit")
		cacheDir    = flag.String("cache", defaultCacheDir(), "Model cache directory")
		questions   = flag.String("questions", "", "CSV question set with rows a,b,c,expected")
		outFile     = flag.String("out", "", "Write per-question results CSV to this path")
		adHoc       = flag.String("analogy", "", "Single analogy 'a:b::c' or 'a:b::c:d' to resolve")
		topN        = flag.Int("top-n", analogy.DefaultTopN, "Number of top candidates to display")
		searchSpace = flag.Int("search-space", analogy.DefaultSearchSpace, "Number of most frequent tokens to rank")
		workers     = flag.Int("workers", 1, "Concurrent query workers")
		logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	logger := analogy.NewTextLogger(parseLevel(*logLevel))

	if *listModels {
		for _, m := range hub.Models() {
			fmt.Printf("%-30s %4dd %s\n", m.Name, m.Dimension, m.Format)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := loadStore(ctx, logger, *vectorsFile, *modelName, *cacheDir)
	if err != nil {
		logger.Error("failed to load embedding space", "error", err)
		os.Exit(1)
	}
	logger.Info("embedding space ready",
		"vocabulary", len(store.Vocabulary()),
		"dimension", store.Dimension(),
	)

	switch {
	case *adHoc != "":
		if err := runAdHoc(ctx, logger, store, *adHoc, *topN, *searchSpace); err != nil {
			logger.Error("analogy failed", "error", err)
			os.Exit(1)
		}
	case *questions != "":
		if err := runBatch(ctx, logger, store, *questions, *outFile, *topN, *searchSpace, *workers); err != nil {
			logger.Error("batch failed", "error", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "nothing to do: pass -analogy or -questions (see -help)")
		os.Exit(2)
	}
}

func loadStore(ctx context.Context, logger *analogy.Logger, vectorsFile, modelName, cacheDir string) (embedding.Store, error) {
	switch {
	case vectorsFile != "":
		return embedding.LoadFile(vectorsFile)
	case modelName != "":
		manager := hub.NewManager(cacheDir, hub.WithLogger(logger.Logger))
		return manager.Load(ctx, modelName)
	default:
		return nil, fmt.Errorf("either -vectors or -model is required")
	}
}

func runAdHoc(ctx context.Context, logger *analogy.Logger, store embedding.Store, expr string, topN, searchSpace int) error {
	q, err := parseAnalogy(expr)
	if err != nil {
		return err
	}

	resolver := analogy.NewResolver(
		analogy.WithTopN(topN),
		analogy.WithSearchSpace(searchSpace),
		analogy.WithLogger(logger),
	)
	rk, err := resolver.Resolve(ctx, store, q)
	if err != nil {
		return err
	}

	fmt.Printf("%s is to %s as %s is to:\n", q.A, q.B, q.C)
	for i, c := range rk.Candidates {
		fmt.Printf("  %2d. %-20s %.4f\n", i+1, c.Token, c.Score)
	}
	if q.Expected != "" {
		res := rk.Locate(q.Expected)
		switch res.Status {
		case analogy.StatusFound:
			fmt.Printf("expected %q ranked %d of %d\n", q.Expected, res.Rank, rk.Depth())
		case analogy.StatusNotFound:
			fmt.Printf("expected %q not within the %d searched tokens\n", q.Expected, searchSpace)
		case analogy.StatusInvalid:
			fmt.Printf("expected %q is not in the vocabulary\n", q.Expected)
		}
	}
	return nil
}

func runBatch(ctx context.Context, logger *analogy.Logger, store embedding.Store, questionsFile, outFile string, topN, searchSpace, workers int) error {
	f, err := os.Open(questionsFile)
	if err != nil {
		return err
	}
	queries, err := dataset.ReadQuestions(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", questionsFile, err)
	}

	runner := analogy.NewRunner(
		analogy.WithTopN(topN),
		analogy.WithSearchSpace(searchSpace),
		analogy.WithWorkers(workers),
		analogy.WithLogger(logger),
	)
	outcomes := runner.Run(ctx, store, queries)

	if outFile != "" {
		out, err := os.Create(outFile)
		if err != nil {
			return err
		}
		if err := dataset.WriteResults(out, outcomes); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		logger.Info("results written", "path", outFile)
	}

	s := analogy.Summarize(outcomes, topN)
	fmt.Printf("questions:      %d\n", s.Total)
	fmt.Printf("evaluated:      %d\n", s.Evaluated)
	fmt.Printf("top-1 accuracy: %.4f\n", s.Top1Accuracy)
	fmt.Printf("top-%d accuracy: %.4f\n", topN, s.TopNAccuracy)
	fmt.Printf("mean rank:      %.2f\n", s.MeanRank)
	fmt.Printf("not found:      %d\n", s.NotFound)
	fmt.Printf("invalid:        %d\n", s.Invalid)
	fmt.Printf("failed:         %d\n", s.Failed)
	return nil
}

// parseAnalogy parses "a:b::c" or "a:b::c:d".
func parseAnalogy(expr string) (analogy.Query, error) {
	halves := strings.Split(expr, "::")
	if len(halves) != 2 {
		return analogy.Query{}, fmt.Errorf("invalid analogy %q: expected 'a:b::c' or 'a:b::c:d'", expr)
	}
	left := strings.Split(halves[0], ":")
	right := strings.Split(halves[1], ":")
	if len(left) != 2 || len(right) < 1 || len(right) > 2 {
		return analogy.Query{}, fmt.Errorf("invalid analogy %q: expected 'a:b::c' or 'a:b::c:d'", expr)
	}

	q := analogy.Query{A: left[0], B: left[1], C: right[0]}
	if len(right) == 2 {
		q.Expected = right[1]
	}
	if q.A == "" || q.B == "" || q.C == "" {
		return analogy.Query{}, fmt.Errorf("invalid analogy %q: empty token", expr)
	}
	return q, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "analogy", "models")
	}
	return filepath.Join("data", "models")
}
