package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmih06/auto-subs/internal/jobs"
	"github.com/tmih06/auto-subs/internal/subtitle"
	"github.com/tmih06/auto-subs/pkg/executor"
	"github.com/tmih06/auto-subs/pkg/log"
)

// ErrModelFetch marks a failed download of the recognition model.
var ErrModelFetch = errors.New("model download failed")

// Segment is one raw time-stamped utterance from the recognition engine,
// before sentence splitting.
type Segment struct {
	StartMS int
	EndMS   int
	Text    string
}

// Engine turns a 16 kHz mono PCM waveform into a subtitle track by running
// whisper.cpp and splitting its utterances into sentence-level captions.
type Engine struct {
	whisperCmd string
	modelDir   string
	model      Model
	language   string
	exec       executor.Executor
	client     *http.Client
}

// NewEngine creates an engine for the given model preset. An empty or
// "auto" language lets the recognizer decide.
func NewEngine(modelID, language, modelDir string) (*Engine, error) {
	model, err := LookupModel(modelID)
	if err != nil {
		return nil, err
	}
	if modelDir == "" {
		modelDir = DefaultModelDir()
	}

	return &Engine{
		whisperCmd: "whisper-cli",
		modelDir:   modelDir,
		model:      model,
		language:   language,
		exec:       executor.New(),
		client:     http.DefaultClient,
	}, nil
}

// ModelPath is where the model artifact lives in the local cache.
func (e *Engine) ModelPath() string {
	return filepath.Join(e.modelDir, e.model.FileName)
}

// EnsureModel fetches the recognition model into the local cache on first
// use.
func (e *Engine) EnsureModel(ctx context.Context, r *jobs.Reporter) error {
	modelPath := e.ModelPath()
	if _, err := os.Stat(modelPath); err == nil {
		r.Progress(0.1, "Model found, loading...")
		return nil
	}

	if err := os.MkdirAll(e.modelDir, 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	r.Progress(0.05, fmt.Sprintf("Downloading Whisper model (%s)...", e.model.SizeLabel))
	log.Info("Fetching model %s from %s", e.model.ID, e.model.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.model.URL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelFetch, err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %s", ErrModelFetch, resp.Status)
	}

	// download into a temp name so an interrupted fetch never looks like
	// a usable model
	tmpPath := modelPath + ".partial"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrModelFetch, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save model: %w", err)
	}
	if err := os.Rename(tmpPath, modelPath); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}

	r.Progress(0.1, "Model downloaded successfully")
	return nil
}

// Transcribe runs recognition on the waveform and writes the resulting
// track to srtPath. The persisted file is the source of truth afterwards;
// the caller reloads it rather than receiving captions in memory.
func (e *Engine) Transcribe(ctx context.Context, wavPath, srtPath string, r *jobs.Reporter) error {
	if err := e.EnsureModel(ctx, r); err != nil {
		return err
	}

	r.Progress(0.15, "Loading Whisper model...")

	outDir, err := os.MkdirTemp("", "auto-subs-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary workspace: %w", err)
	}
	defer os.RemoveAll(outDir)

	outBase := filepath.Join(outDir, "transcript")

	r.Progress(0.25, "Transcribing audio...")
	res, err := e.exec.Execute(ctx, e.whisperCmd, whisperArgs(e.ModelPath(), wavPath, outBase, e.language)...)
	if err != nil {
		if res.Stderr != "" {
			log.Debug("whisper stderr: %s", res.Stderr)
		}
		return fmt.Errorf("transcription failed: %w", err)
	}

	raw, err := os.ReadFile(outBase + ".json")
	if err != nil {
		return fmt.Errorf("transcript output missing: %w", err)
	}

	segments, err := parseSegments(raw)
	if err != nil {
		return err
	}

	r.Progress(0.9, "Processing segments...")

	var track subtitle.Track
	for _, seg := range segments {
		track = subtitle.AppendSpan(track, seg.StartMS, seg.EndMS, seg.Text)
	}

	if err := subtitle.WriteFile(srtPath, track); err != nil {
		return err
	}

	r.Progress(1.0, fmt.Sprintf("Generated %d subtitles!", len(track)))
	return nil
}

func whisperArgs(modelPath, wavPath, outBase, language string) []string {
	args := []string{
		"-m", modelPath,
		"-f", wavPath,
		"-oj",
		"-of", outBase,
	}
	lang := strings.TrimSpace(language)
	if lang != "" && !strings.EqualFold(lang, "auto") {
		args = append(args, "-l", lang)
	}
	return args
}

// parseSegments decodes whisper.cpp JSON output into utterance spans.
func parseSegments(raw []byte) ([]Segment, error) {
	var doc struct {
		Transcription []struct {
			Offsets struct {
				From int `json:"from"`
				To   int `json:"to"`
			} `json:"offsets"`
			Text string `json:"text"`
		} `json:"transcription"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}

	segments := make([]Segment, 0, len(doc.Transcription))
	for _, t := range doc.Transcription {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			StartMS: t.Offsets.From,
			EndMS:   t.Offsets.To,
			Text:    text,
		})
	}
	return segments, nil
}
