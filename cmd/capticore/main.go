// Command capticore drives the pure assemble/segment/bucket core over
// already-fetched speech-to-text token JSON, writing the four
// downstream artifacts to disk. It performs no network I/O of its
// own — the speech-to-text client and polling loop are out of scope
// (spec.md §1).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/floke75/soniox-converter/internal/config"
	"github.com/floke75/soniox-converter/internal/observe"
	"github.com/floke75/soniox-converter/pkg/assembler"
	"github.com/floke75/soniox-converter/pkg/caption"
	"github.com/floke75/soniox-converter/pkg/emit"
	"github.com/floke75/soniox-converter/pkg/kinetic"
)

func main() {
	os.Exit(run())
}

func run() int {
	inputPath := flag.String("in", "", "path to the SourceToken JSON array (default: stdin)")
	outDir := flag.String("out", ".", "directory artifacts are written to")
	preset := flag.String("preset", "broadcast", `caption preset: "broadcast" or "social" (ignored if -config is set)`)
	configPath := flag.String("config", "", "path to a YAML house-style override file")
	sourceName := flag.String("source", "", "opaque source label recorded on the transcript")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*logLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	captionCfg, err := resolveCaptionConfig(*preset, *configPath)
	if err != nil {
		slog.Error("failed to resolve caption configuration", "err", err)
		return 1
	}

	tokens, err := readTokens(*inputPath)
	if err != nil {
		slog.Error("failed to read input tokens", "err", err)
		return 1
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("failed to create output directory", "err", err, "dir", *outDir)
		return 1
	}

	if err := convert(ctx, tokens, *sourceName, captionCfg, *outDir); err != nil {
		slog.Error("conversion failed", "err", err)
		return 1
	}

	slog.Info("conversion complete", "out", *outDir)
	return 0
}

// resolveCaptionConfig loads the caption.Config either from a house
// style file (when configPath is set) or from the named built-in
// preset.
func resolveCaptionConfig(preset, configPath string) (caption.Config, error) {
	if configPath == "" {
		switch preset {
		case "broadcast", "":
			return caption.Broadcast(), nil
		case "social":
			return caption.Social(), nil
		default:
			return caption.Config{}, fmt.Errorf("unknown preset %q", preset)
		}
	}

	fc, err := config.Load(configPath)
	if err != nil {
		return caption.Config{}, err
	}
	return fc.Resolve()
}

// readTokens reads a JSON array of [assembler.SourceToken] from path,
// or from stdin when path is empty.
func readTokens(path string) ([]assembler.SourceToken, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read tokens: %w", err)
	}

	var tokens []assembler.SourceToken
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	return tokens, nil
}

// convert runs assemble -> adapt -> segment -> bucket -> emit over
// tokens and writes the four artifacts into outDir, logging one span
// per pipeline stage per SPEC_FULL.md §4.6.
func convert(ctx context.Context, tokens []assembler.SourceToken, sourceName string, captionCfg caption.Config, outDir string) error {
	metrics := observe.DefaultMetrics()

	ctx, span := observe.StartSpan(ctx, "capticore.assemble")
	assembleStart := time.Now()
	transcript, err := assembler.Assemble(tokens, sourceName)
	metrics.AssembleDuration.Record(ctx, time.Since(assembleStart).Seconds())
	span.End()
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}

	_, span = observe.StartSpan(ctx, "capticore.adapt")
	captionWords := caption.Adapt(transcript)
	span.End()

	ctx, span = observe.StartSpan(ctx, "capticore.segment")
	segmentStart := time.Now()
	segments, err := caption.Segment(ctx, captionWords, captionCfg)
	metrics.SegmentDuration.Record(ctx, time.Since(segmentStart).Seconds())
	span.End()
	if err != nil {
		observe.Logger(ctx).Warn("caption segmentation failed; skipping captions.srt", "err", err)
		segments = nil
	} else {
		metrics.SegmentsEmitted.Add(ctx, int64(len(segments)))
	}

	_, span = observe.StartSpan(ctx, "capticore.bucket")
	bucketStart := time.Now()
	row1, row2, row3 := kinetic.Bucketise(transcript.Words, kinetic.DefaultConfig())
	metrics.BucketDuration.Record(ctx, time.Since(bucketStart).Seconds())
	span.End()

	_, span = observe.StartSpan(ctx, "capticore.emit")
	defer span.End()

	editorSegments, warnings := emit.EditorJSON(transcript)
	for _, w := range warnings {
		metrics.RecordWarning(ctx, w.Kind)
		observe.Logger(ctx).Warn("emission warning", "kind", w.Kind, "detail", w.Detail)
	}

	if err := writeJSON(filepath.Join(outDir, "editor.json"), editorSegments); err != nil {
		return err
	}

	if segments != nil {
		srtText := emit.SRT(segments, captionCfg.MinDisplayDur)
		if err := os.WriteFile(filepath.Join(outDir, "captions.srt"), []byte(srtText), 0o644); err != nil {
			return fmt.Errorf("write captions.srt: %w", err)
		}
	}

	for name, row := range map[string][]kinetic.RowEntry{
		"kinetic.row1.json": row1,
		"kinetic.row2.json": row2,
		"kinetic.row3.json": row3,
	} {
		if err := writeJSON(filepath.Join(outDir, name), emit.Kinetic(row)); err != nil {
			return err
		}
	}

	plainText := emit.PlainText(transcript)
	if err := os.WriteFile(filepath.Join(outDir, "transcript.txt"), []byte(plainText), 0o644); err != nil {
		return fmt.Errorf("write transcript.txt: %w", err)
	}

	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
