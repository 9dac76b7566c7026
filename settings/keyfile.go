package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// KeyFileName is the project-local key file, in dotenv format.
const KeyFileName = "ai_translate.key"

// EnvAPIKey is the generic API key variable, checked for every provider.
const EnvAPIKey = "POAI_API_KEY"

// providerEnv maps provider IDs to their conventional key variables.
var providerEnv = map[string][]string{
	"openai":        {"OPENAI_API_KEY"},
	"custom-openai": {"OPENAI_API_KEY"},
	"groq":          {"GROQ_API_KEY"},
	"google":        {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"anthropic":     {"ANTHROPIC_API_KEY"},
}

// EnvVars returns the variables holding an API key for a provider, most
// specific last: POAI_API_KEY always comes first.
func EnvVars(providerID string) []string {
	return append([]string{EnvAPIKey}, providerEnv[providerID]...)
}

// KeyFilePath returns the key file location inside dir.
func KeyFilePath(dir string) string {
	return filepath.Join(dir, KeyFileName)
}

// ReadKeyFile returns the variables defined in dir's key file. A missing file
// yields an empty map.
func ReadKeyFile(dir string) (map[string]string, error) {
	path := KeyFilePath(dir)
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vars, nil
}

// WriteKeyFile stores key in dir's key file under the provider's variable,
// keeping other variables, with 0600 permissions.
func WriteKeyFile(dir, providerID, key string) error {
	vars, err := ReadKeyFile(dir)
	if err != nil {
		return err
	}
	names := EnvVars(providerID)
	vars[names[len(names)-1]] = key

	path := KeyFilePath(dir)
	if err := godotenv.Write(vars, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return os.Chmod(path, 0600)
}

// Source tells where a resolved key came from.
type Source string

const (
	SourceNone    Source = ""
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyFile Source = "key file"
	SourceStore   Source = "auth store"
)

// ResolveAPIKey finds the API key for a provider following the documented
// lookup order. projectDir is searched for the key file.
func ResolveAPIKey(providerID, flagKey, projectDir string) (string, Source, error) {
	if k := strings.TrimSpace(flagKey); k != "" {
		return k, SourceFlag, nil
	}

	names := EnvVars(providerID)
	for _, name := range names {
		if k := strings.TrimSpace(os.Getenv(name)); k != "" {
			return k, SourceEnv, nil
		}
	}

	vars, err := ReadKeyFile(projectDir)
	if err != nil {
		return "", SourceNone, err
	}
	for _, name := range names {
		if k := strings.TrimSpace(vars[name]); k != "" {
			return k, SourceKeyFile, nil
		}
	}

	if k := GetAPIKey(providerID); k != "" {
		return k, SourceStore, nil
	}
	return "", SourceNone, nil
}
