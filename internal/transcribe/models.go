package transcribe

import (
	"fmt"
	"os"
	"path/filepath"
)

// Model describes one downloadable whisper.cpp model preset.
type Model struct {
	ID        string
	FileName  string
	URL       string
	SizeLabel string
}

const modelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

var modelCatalog = []Model{
	{ID: "tiny", FileName: "ggml-tiny.en.bin", URL: modelBaseURL + "ggml-tiny.en.bin", SizeLabel: "~75 MB"},
	{ID: "base", FileName: "ggml-base.en.bin", URL: modelBaseURL + "ggml-base.en.bin", SizeLabel: "~142 MB"},
	{ID: "small", FileName: "ggml-small.en.bin", URL: modelBaseURL + "ggml-small.en.bin", SizeLabel: "~466 MB"},
	{ID: "medium", FileName: "ggml-medium.en.bin", URL: modelBaseURL + "ggml-medium.en.bin", SizeLabel: "~1.5 GB"},
	{ID: "large", FileName: "ggml-large-v3.bin", URL: modelBaseURL + "ggml-large-v3.bin", SizeLabel: "~3 GB"},
}

// LookupModel resolves a model preset by its short ID.
func LookupModel(id string) (Model, error) {
	for _, m := range modelCatalog {
		if m.ID == id {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("unknown whisper model %q", id)
}

// DefaultModelDir is the local cache directory models are fetched into.
func DefaultModelDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}
	return filepath.Join(cacheDir, "auto-subs", "models")
}
