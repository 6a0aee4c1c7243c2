package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-claimform/internal/config"
	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/session"
	"github.com/goliatone/go-claimform/pkg/testsupport"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"serve", "prompt", "render", "version"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "claimform", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
}

func TestRenderCommand_Flags(t *testing.T) {
	for _, name := range []string{"stage", "step", "answers", "view", "renderer", "output"} {
		assert.NotNil(t, renderCmd.Flags().Lookup(name), "missing --%s", name)
	}
	assert.Equal(t, "home", renderCmd.Flags().Lookup("stage").DefValue)
}

func writeAnswers(t *testing.T, dir string, rec model.Record) string {
	t.Helper()
	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	path := filepath.Join(dir, "answers.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	c, err := config.Load()
	require.NoError(t, err)
	return c
}

func TestAdvance(t *testing.T) {
	c := testConfig(t)
	orch, err := newOrchestrator(c)
	require.NoError(t, err)

	answers, err := readAnswers(writeAnswers(t, t.TempDir(), testsupport.CompleteRecord("CA")))
	require.NoError(t, err)

	home := orch.NewSession("home")
	require.NoError(t, advance(home, "home", 1, nil))
	assert.Equal(t, session.StageBrowsing, home.Stage())

	intake := orch.NewSession("intake")
	require.NoError(t, advance(intake, "intake", 2, answers))
	assert.Equal(t, 2, intake.Form.State().Step())

	signingSess := orch.NewSession("signing")
	require.NoError(t, advance(signingSess, "signing", 1, answers))
	assert.Equal(t, session.StageSigning, signingSess.Stage())

	assert.Error(t, advance(orch.NewSession("x"), "intake", 2, nil), "empty step 1 blocks advancing")
	assert.Error(t, advance(orch.NewSession("x"), "outcome", 1, nil))

	ineligible, err := readAnswers(writeAnswers(t, t.TempDir(), testsupport.CompleteRecord("NV")))
	require.NoError(t, err)
	assert.Error(t, advance(orch.NewSession("x"), "signing", 1, ineligible))
}

func TestNewOrchestrator_ContentFile(t *testing.T) {
	c := testConfig(t)
	c.Site.ContentFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := newOrchestrator(c)
	assert.Error(t, err)
}

func TestRenderCommand_WritesIntakeStep(t *testing.T) {
	t.Chdir(t.TempDir())
	renderFlags = struct {
		stage    string
		step     int
		answers  string
		view     string
		renderer string
		output   string
	}{}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"render", "--stage", "intake", "--step", "1"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), `action="/intake/next"`)
}
