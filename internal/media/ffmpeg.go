package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tmih06/auto-subs/internal/overlay"
	"github.com/tmih06/auto-subs/pkg/executor"
	"github.com/tmih06/auto-subs/pkg/log"
)

// Info describes the probed properties of a video file.
type Info struct {
	Width     int
	Height    int
	Duration  float64 // seconds
	FrameRate float64
}

// BurnStyle parameterizes the direct subtitle burn.
type BurnStyle struct {
	FontSize     int
	FontColor    string
	OutlineColor string
	Codec        string
	CRF          int
	Preset       string
}

// DefaultBurnStyle matches the original defaults: white text with a black
// outline at x264 medium quality.
func DefaultBurnStyle() BurnStyle {
	return BurnStyle{
		FontSize:     24,
		FontColor:    "FFFFFF",
		OutlineColor: "000000",
		Codec:        "libx264",
		CRF:          23,
		Preset:       "medium",
	}
}

// Toolset wraps the ffmpeg/ffprobe commands used by the pipeline.
type Toolset struct {
	ffmpegCmd  string
	ffprobeCmd string
	exec       executor.Executor
}

// NewToolset creates a toolset using the binaries from PATH.
func NewToolset() Toolset {
	return Toolset{
		ffmpegCmd:  "ffmpeg",
		ffprobeCmd: "ffprobe",
		exec:       executor.New(),
	}
}

// NewToolsetWith allows injecting command names and an executor for tests.
func NewToolsetWith(ffmpegCmd, ffprobeCmd string, exec executor.Executor) Toolset {
	return Toolset{ffmpegCmd: ffmpegCmd, ffprobeCmd: ffprobeCmd, exec: exec}
}

func (t Toolset) run(ctx context.Context, tool string, args []string) (executor.Result, error) {
	path, err := exec.LookPath(tool)
	if err != nil {
		return executor.Result{}, fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}

	res, err := t.exec.Execute(ctx, path, args...)
	if err != nil {
		return res, &ToolError{
			Tool:     tool,
			ExitCode: res.ExitCode,
			Stderr:   strings.TrimSpace(res.Stderr),
			Err:      err,
		}
	}
	return res, nil
}

// Probe returns the dimensions, duration, and frame rate of a video file.
func (t Toolset) Probe(ctx context.Context, path string) (Info, error) {
	res, err := t.run(ctx, t.ffprobeCmd, probeArgs(path))
	if err != nil {
		return Info{}, err
	}

	var probeResult struct {
		Streams []struct {
			CodecType    string `json:"codec_type"`
			Width        int    `json:"width"`
			Height       int    `json:"height"`
			AvgFrameRate string `json:"avg_frame_rate"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}

	if err := json.Unmarshal([]byte(res.Stdout), &probeResult); err != nil {
		log.Error("Failed to parse ffprobe output: %v", err)
		return Info{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := Info{}
	for _, stream := range probeResult.Streams {
		if stream.CodecType != "video" {
			continue
		}
		info.Width = stream.Width
		info.Height = stream.Height
		info.FrameRate = parseFrameRate(stream.AvgFrameRate)
		break
	}
	if info.Width == 0 || info.Height == 0 {
		return Info{}, fmt.Errorf("no video stream found in %s", path)
	}

	if d, err := strconv.ParseFloat(probeResult.Format.Duration, 64); err == nil {
		info.Duration = d
	}

	return info, nil
}

// ExtractAudio converts a video's audio track into the waveform the
// recognition engine expects: mono, 16 kHz, 16-bit linear PCM.
func (t Toolset) ExtractAudio(ctx context.Context, videoPath, wavPath string) error {
	return t.ExtractAudioAs(ctx, videoPath, wavPath, 16000, 1)
}

// ExtractAudioAs extracts PCM audio at an arbitrary sample rate and
// channel count.
func (t Toolset) ExtractAudioAs(ctx context.Context, videoPath, wavPath string, sampleRate, channels int) error {
	_, err := t.run(ctx, t.ffmpegCmd, extractAudioArgs(videoPath, wavPath, sampleRate, channels))
	return err
}

// RenderOverlayClip renders a transparent caption-only clip sized to the
// layout canvas, covering the video's duration at its frame rate.
func (t Toolset) RenderOverlayClip(ctx context.Context, srtPath string, layout overlay.Layout, info Info, outPath string) error {
	_, err := t.run(ctx, t.ffmpegCmd, overlayClipArgs(srtPath, layout, info, outPath))
	return err
}

// Composite places the rendered overlay clip onto the source video at the
// layout position.
func (t Toolset) Composite(ctx context.Context, videoPath, clipPath, outPath string, x, y int) error {
	_, err := t.run(ctx, t.ffmpegCmd, compositeArgs(videoPath, clipPath, outPath, x, y))
	return err
}

// Burn renders captions straight onto the source video. If the plain
// subtitles filter fails it retries once with an explicit style, mirroring
// fontconfig-less environments.
func (t Toolset) Burn(ctx context.Context, videoPath, srtPath, outPath string, style BurnStyle) error {
	_, err := t.run(ctx, t.ffmpegCmd, burnArgs(videoPath, srtPath, outPath))
	if err == nil {
		return nil
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		return err
	}

	log.Warn("Plain subtitles filter failed, retrying with forced style")
	_, err = t.run(ctx, t.ffmpegCmd, burnStyledArgs(videoPath, srtPath, outPath, style))
	return err
}

func probeArgs(path string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	}
}

func extractAudioArgs(videoPath, wavPath string, sampleRate, channels int) []string {
	return []string{
		"-i", videoPath,
		"-vn",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-c:a", "pcm_s16le",
		"-y",
		wavPath,
	}
}

func overlayClipArgs(srtPath string, layout overlay.Layout, info Info, outPath string) []string {
	rate := info.FrameRate
	if rate <= 0 {
		rate = 25
	}
	return []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=black@0.0:s=%dx%d:r=%s:d=%s",
			layout.Width, layout.Height, formatFloat(rate), formatFloat(info.Duration)),
		"-vf", fmt.Sprintf("format=rgba,subtitles='%s':force_style='FontSize=%d,Alignment=2,MarginV=%d'",
			escapeFilterPath(srtPath), layout.FontSize, layout.Margin),
		"-c:v", "qtrle",
		"-y",
		outPath,
	}
}

func compositeArgs(videoPath, clipPath, outPath string, x, y int) []string {
	return []string{
		"-i", videoPath,
		"-i", clipPath,
		"-filter_complex", fmt.Sprintf("[0:v][1:v]overlay=%d:%d", x, y),
		"-c:a", "copy",
		"-y",
		outPath,
	}
}

func burnArgs(videoPath, srtPath, outPath string) []string {
	return []string{
		"-i", videoPath,
		"-vf", fmt.Sprintf("subtitles='%s'", escapeFilterPath(srtPath)),
		"-c:a", "copy",
		"-y",
		outPath,
	}
}

func burnStyledArgs(videoPath, srtPath, outPath string, style BurnStyle) []string {
	return []string{
		"-i", videoPath,
		"-vf", fmt.Sprintf(
			"subtitles=%s:force_style='FontSize=%d,PrimaryColour=&H%s,OutlineColour=&H%s,Outline=2'",
			srtPath, style.FontSize, style.FontColor, style.OutlineColor),
		"-c:v", style.Codec,
		"-crf", strconv.Itoa(style.CRF),
		"-preset", style.Preset,
		"-c:a", "copy",
		"-y",
		outPath,
	}
}

// escapeFilterPath prepares a path for use inside an ffmpeg filter string,
// where ':' separates filter options.
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ReplaceAll(path, ":", "\\:")
}

func parseFrameRate(raw string) float64 {
	parts := strings.Split(raw, "/")
	if len(parts) == 2 {
		num, err1 := strconv.ParseFloat(parts[0], 64)
		den, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 == nil && err2 == nil && den != 0 {
			return num / den
		}
		return 0
	}
	f, _ := strconv.ParseFloat(raw, 64)
	return f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
