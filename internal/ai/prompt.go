package ai

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
)

//go:embed prompts/image_analysis.txt
var imageAnalysisPrompt string

// buildImageAnalysisPrompt returns the system prompt for single-image tagging.
func buildImageAnalysisPrompt() string {
	return imageAnalysisPrompt
}

// buildUserMessage gives the model the original filename so the suggested
// name can keep the right extension.
func buildUserMessage(originalName string) string {
	ext := filepath.Ext(originalName)
	var b strings.Builder
	fmt.Fprintf(&b, "Original filename: %s\n", originalName)
	if ext != "" {
		fmt.Fprintf(&b, "Keep the %s extension in the suggested name.\n", ext)
	}
	return b.String()
}

// validateAnalysis rejects structurally empty model output so the retry
// loop can push back instead of returning a useless result.
func validateAnalysis(a *Analysis) error {
	if a.Name == "" {
		return fmt.Errorf("missing name field")
	}
	if len(a.Tags) == 0 {
		return fmt.Errorf("missing tags field")
	}
	if a.Description == "" {
		return fmt.Errorf("missing description field")
	}
	return nil
}
