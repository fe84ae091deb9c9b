// Package tesseract shells out to the tesseract binary. The engine itself is
// a black box: one file in, recognized text out.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type Engine struct {
	binary    string
	languages string
}

// New builds an engine recognizing the given tesseract language set,
// e.g. "ron+eng" for bilingual Romanian/English documents.
func New(languages string) *Engine {
	if strings.TrimSpace(languages) == "" {
		languages = "ron+eng"
	}
	return &Engine{binary: "tesseract", languages: languages}
}

func (e *Engine) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

func (e *Engine) RecognizeFile(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, e.binary, path, "stdout", "-l", e.languages)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("tesseract aborted: %w", ctxErr)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("tesseract: %w", err)
		}
		return "", fmt.Errorf("tesseract: %w: %s", err, detail)
	}
	return stdout.String(), nil
}
