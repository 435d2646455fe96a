package output

import (
	"fmt"
	"strings"
	"time"
)

var modelNameReplacer = strings.NewReplacer(":", "_", "/", "_")

// SanitizeModelName makes a model reference safe for a file name ("llama3:8b" -> "llama3_8b").
func SanitizeModelName(name string) string {
	return modelNameReplacer.Replace(name)
}

// FileStem builds the per-run file name without extension. The unix stamp of
// the run start keeps successive runs from colliding.
func FileStem(modelName, scenario string, started time.Time) string {
	return fmt.Sprintf("ollama_bench_%s_%s_%d", SanitizeModelName(modelName), scenario, started.Unix())
}
