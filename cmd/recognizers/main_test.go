package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/recognizers/plugin/recognizer"
	"github.com/hrygo/recognizers/plugin/recognizer/model"
	"github.com/hrygo/recognizers/store"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRecognizeCmd_Text(t *testing.T) {
	out, err := run(t, "", "recognize", "--reference", "2026-01-27T10:00:00Z", "it took 5 hours and cost $3.50")
	require.NoError(t, err)
	assert.Contains(t, out, "START")
	assert.Contains(t, out, "5 hours")
	assert.Contains(t, out, "PT5H")
	assert.Contains(t, out, "18000")
	assert.Contains(t, out, "3.5 Dollar")
}

func TestRecognizeCmd_JSON(t *testing.T) {
	out, err := run(t, "", "recognize", "-o", "json", "--culture", "pt-br",
		"--reference", "2026-01-27T10:00:00Z", "saiu 3 dias atrás")
	require.NoError(t, err)

	var outcomes []model.ParseOutcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes))
	require.Len(t, outcomes, 1)
	assert.Equal(t, model.CategoryDateTime, outcomes[0].Category)
	assert.Equal(t, "2026-01-24T10:00:00", outcomes[0].TimexStr)
	assert.Equal(t, "3 dias atrás", outcomes[0].Text)
}

func TestRecognizeCmd_StdinMarkdown(t *testing.T) {
	out, err := run(t, "# Plan\n\nWait **2 hours**.\n\n```\nsleep 3 days\n```\n", "recognize", "--markdown", "-o", "json")
	require.NoError(t, err)
	var outcomes []model.ParseOutcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes))
	require.Len(t, outcomes, 1)
	assert.Equal(t, "2 hours", outcomes[0].Text)
}

func TestRecognizeCmd_Errors(t *testing.T) {
	_, err := run(t, "", "recognize", "-o", "yaml", "5 hours")
	assert.ErrorContains(t, err, "invalid output format")

	_, err = run(t, "", "recognize", "--culture", "xx-yy", "5 hours")
	assert.ErrorIs(t, err, recognizer.ErrUnsupportedCulture)

	_, err = run(t, "", "recognize")
	assert.ErrorContains(t, err, "no input")

	_, err = run(t, "", "recognize", "--timezone", "Mars/Base", "5 hours")
	assert.Error(t, err)
}

func TestRecognizeCmd_SaveAndHistory(t *testing.T) {
	data := t.TempDir()
	_, err := run(t, "", "--data", data, "recognize", "--save", "2days and 10 euros")
	require.NoError(t, err)

	out, err := run(t, "", "--data", data, "history", "-o", "json")
	require.NoError(t, err)
	var list []*store.Recognition
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	for _, r := range list {
		assert.Equal(t, "en-us", r.Culture)
		assert.Equal(t, list[0].RequestID, r.RequestID)
	}

	out, err = run(t, "", "--data", data, "history", "--category", "currency")
	require.NoError(t, err)
	assert.Contains(t, out, "10 euros")
	assert.NotContains(t, out, "2days")

	out, err = run(t, "", "--data", data, "history", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "total:     2")
	assert.Contains(t, out, "currency")

	out, err = run(t, "", "--data", data, "history", "--prune")
	require.NoError(t, err)
	assert.Contains(t, out, "pruned 0 recognitions")
	assert.FileExists(t, filepath.Join(data, "recognizers_demo.db"))
}

func TestCulturesCmd(t *testing.T) {
	out, err := run(t, "", "cultures", "--default-culture", "pt-br")
	require.NoError(t, err)
	assert.Contains(t, out, "en-us")
	assert.Contains(t, out, "Portuguese")

	out, err = run(t, "", "cultures", "--cultures", "en-us", "-o", "json")
	require.NoError(t, err)
	var infos []recognizer.CultureInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.Equal(t, []recognizer.CultureInfo{{Code: "en-us", Name: "English", Default: true}}, infos)
}

func TestReadInput(t *testing.T) {
	text, err := readInput(strings.NewReader("from stdin"), "-", nil)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)

	text, err = readInput(nil, "", []string{"5", "hours"})
	require.NoError(t, err)
	assert.Equal(t, "5 hours", text)

	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("2days"), 0o600))
	text, err = readInput(nil, path, []string{"ignored"})
	require.NoError(t, err)
	assert.Equal(t, "2days", text)

	_, err = readInput(strings.NewReader(""), "", nil)
	assert.Error(t, err)
}
