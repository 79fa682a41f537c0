package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmih06/auto-subs/internal/app"
	"github.com/tmih06/auto-subs/internal/config"
	"github.com/tmih06/auto-subs/internal/subtitle"
)

func TestOutputFor(t *testing.T) {
	cfg := config.Defaults()
	assert.Equal(t, "/v/talk_subtitled.mp4", outputFor(cfg, "/v/talk.mp4"))

	cfg.Paths.OutputDir = "/out"
	assert.Equal(t, "/out/talk_subtitled.mp4", outputFor(cfg, "/v/talk.mp4"))
}

func TestConfirmOverwritePolicy(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "out.mp4")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	// missing file needs no confirmation at all
	ok, err := confirmOverwrite(&globalOpts{no: true}, filepath.Join(dir, "new.mp4"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = confirmOverwrite(&globalOpts{no: true}, existing)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = confirmOverwrite(&globalOpts{yes: true}, existing)
	require.NoError(t, err)
	assert.True(t, ok)

	auto := &globalOpts{}
	auto.cfg.Behavior.AutoOverwrite = true
	ok, err = confirmOverwrite(auto, existing)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParseCommand(t *testing.T) {
	a := &app.App{State: app.StateEditing, Track: subtitle.Track{
		{Index: 1, Start: 0, End: 1000, Text: "one"},
		{Index: 2, Start: 1000, End: 2000, Text: "two"},
	}}

	cmd, ok := parseCommand("j")
	require.True(t, ok)
	cmd(a)
	assert.Equal(t, 1, a.Selected)

	cmd, ok = parseCommand("t hello world")
	require.True(t, ok)
	cmd(a)
	assert.Equal(t, "hello world", a.Track[1].Text)

	cmd, ok = parseCommand("]")
	require.True(t, ok)
	cmd(a)
	assert.Equal(t, 1100, a.Track[1].Start)

	_, ok = parseCommand("frobnicate")
	assert.False(t, ok)

	_, ok = parseCommand("x two")
	assert.False(t, ok)
}

func TestNudgeCommandSteps(t *testing.T) {
	a := &app.App{State: app.StateEditing}

	cmd, ok := nudgeCommand("-3", (*app.App).NudgeOverlayX)
	require.True(t, ok)
	cmd(a)
	assert.Equal(t, -30, a.Settings.XOffset)
}

func TestRenderFrameEditor(t *testing.T) {
	a := &app.App{State: app.StateEditing, Track: subtitle.Track{
		{Index: 1, Start: 0, End: 1500, Text: "Hello."},
	}}

	frame := renderFrame(a)
	assert.Contains(t, frame, "[1/1]")
	assert.Contains(t, frame, "00:00:00,000 --> 00:00:01,500")
	assert.Contains(t, frame, "Hello.")

	a.ErrMsg = "boom"
	assert.Contains(t, renderFrame(a), "error: boom")
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, strings.Fields(c.Use)[0])
	}
	for _, want := range []string{"process", "extract", "transcribe", "burn", "edit", "config", "watch"} {
		assert.Contains(t, names, want)
	}
}
