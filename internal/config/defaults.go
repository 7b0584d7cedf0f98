package config

// Default configuration values.
const (
	DefaultModelsDir   = "models"
	DefaultStateFile   = ".concerto/history.db"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultOnDuplicate = "replace"
	DefaultFailOn      = "error"
)

// ConfigFileNames are searched in order in every candidate directory.
var ConfigFileNames = []string{"concerto.yaml", "concerto.yml"}

func defaults() map[string]any {
	return map[string]any{
		"models_dir":            DefaultModelsDir,
		"strict":                false,
		"workers":               0,
		"verbose":               false,
		"output":                DefaultOutput,
		"state_path":            DefaultStateFile,
		"no_history":            false,
		"registry.on_duplicate": DefaultOnDuplicate,
		"lint.fail_on":          DefaultFailOn,
	}
}
