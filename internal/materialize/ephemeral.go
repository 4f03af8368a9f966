package materialize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"scrutiny/internal/logging"
	"scrutiny/internal/tally"
)

// MaterializeEphemeral synthesizes an empty tally working directory from
// the election config at configPath: a serialized copy of the config's
// questions array plus one "{index}-{uuid}" session subdirectory per
// question, each holding an empty ballots placeholder. The caller owns the
// returned directory. Malformed JSON or a missing questions array fails
// with ErrConfig.
func MaterializeEphemeral(configPath string) (string, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConfig, err)
	}

	var cfg struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if cfg.Questions == nil || bytes.Equal(bytes.TrimSpace(cfg.Questions), []byte("null")) {
		return "", fmt.Errorf("%w: missing questions array", ErrConfig)
	}
	var questions []json.RawMessage
	if err := json.Unmarshal(cfg.Questions, &questions); err != nil {
		return "", fmt.Errorf("%w: questions is not an array: %v", ErrConfig, err)
	}

	dir, err := os.MkdirTemp("", "scrutiny-ephemeral-*")
	if err != nil {
		return "", fmt.Errorf("create workdir: %w", err)
	}
	fail := func(err error) (string, error) {
		_ = os.RemoveAll(dir)
		return "", err
	}

	if err := os.WriteFile(filepath.Join(dir, tally.QuestionsFile), cfg.Questions, 0644); err != nil {
		return fail(fmt.Errorf("write questions: %w", err))
	}
	for i := range questions {
		session := filepath.Join(dir, fmt.Sprintf("%d-%s", i, uuid.New()))
		if err := os.Mkdir(session, 0755); err != nil {
			return fail(fmt.Errorf("create session dir: %w", err))
		}
		if err := os.WriteFile(filepath.Join(session, tally.BallotsFile), nil, 0644); err != nil {
			return fail(fmt.Errorf("write ballots placeholder: %w", err))
		}
	}

	logging.New("materialize").Info("synthesized ephemeral tally",
		slog.String("config", configPath),
		slog.String("workdir", dir),
		slog.Int("questions", len(questions)))
	return dir, nil
}
