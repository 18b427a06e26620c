package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		roundInput, roundRemote, replayFixture = "", "", ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(t, "", "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "wings (explore -1)")
	assert.Contains(t, out, "engine (explore +1)")
	assert.Contains(t, out, "frontWing    -> wings")
}

func TestRoundCommandFromStdin(t *testing.T) {
	req := `{"driver":{"xp":200,"ct":100},"history":[],"currentLapData":{"engine":{"acerto":500,"msg":"The engine is fine, I'm happy with it."}}}`
	out, err := run(t, req, "round")
	require.NoError(t, err)

	var resp struct {
		NextSuggestions map[string]int `json:"nextSuggestions"`
		Zone            struct {
			Total int `json:"total"`
			Half  int `json:"half"`
		} `json:"zs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 542, resp.NextSuggestions["engine"])
	assert.Equal(t, 83, resp.Zone.Total)
	assert.Contains(t, out, "The engine is fine")
}

func TestRoundCommandRejectsGarbage(t *testing.T) {
	_, err := run(t, "not json", "round")
	assert.Error(t, err)
}

func TestReplayCommand(t *testing.T) {
	fixture := filepath.Join("..", "..", "..", "internal", "replay", "testdata", "bracket_session.json")
	out, err := run(t, "", "replay", "--fixture", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "All expectations matched.")
	assert.Contains(t, out, "Converged: [frontWing]")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errMismatch))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
}
