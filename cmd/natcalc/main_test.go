package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/natzcalc/filing-calculator/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeExample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case.yaml")
	_, _, err := runCLI(t, "example", "--output", path)
	require.NoError(t, err)
	return path
}

func TestExampleThenEvaluate(t *testing.T) {
	path := writeExample(t)

	out, _, err := runCLI(t, "evaluate", "--config", path, "--format", "console-lite")
	require.NoError(t, err)
	assert.Contains(t, out, "resident-1: Factor=LPR Desc=LPRC - 1A Status=Eligible Now")
	assert.Contains(t, out, "married-1: Factor=DM Desc=DMC - 2D")
	assert.Contains(t, out, "traveller-1: Factor=LPR Desc=LPRC - 1B")
}

func TestEvaluate_TodayOverrideAndOutputFile(t *testing.T) {
	path := writeExample(t)
	dest := filepath.Join(t.TempDir(), "report.csv")

	out, _, err := runCLI(t, "evaluate", "-c", path, "--today", "10/03/2024", "-f", "csv", "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "traveller-1,Long posting abroad,10/03/2024,")
}

func TestEvaluate_Errors(t *testing.T) {
	path := writeExample(t)

	_, _, err := runCLI(t, "evaluate")
	assert.ErrorContains(t, err, "--config flag is required")

	_, _, err = runCLI(t, "evaluate", "--config", path, "--today", "someday")
	assert.ErrorContains(t, err, "invalid --today date")

	_, _, err = runCLI(t, "evaluate", "--config", path, "--format", "pdf")
	assert.ErrorContains(t, err, "unsupported report format")
}

func TestEvaluate_VerboseLogsToStderr(t *testing.T) {
	path := writeExample(t)
	_, stderr, err := runCLI(t, "evaluate", "--config", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "LPRC=")
}

func TestDates(t *testing.T) {
	out, _, err := runCLI(t, "dates", "--lpr", "01/01/2019", "--today", "01/01/2024")
	require.NoError(t, err)
	assert.Contains(t, out, "NotMarried")
	assert.Contains(t, out, "LPRC")
	assert.Contains(t, out, "10/03/2023")
	assert.Contains(t, out, "LPRC - 1A")
	assert.Contains(t, out, "Eligible Now")

	out, _, err = runCLI(t, "dates", "--lpr", "01/01/2021", "--marriage", "01/01/2022",
		"--spouse-citizenship", "01/01/2015", "--today", "01/01/2024")
	require.NoError(t, err)
	assert.Contains(t, out, "Married")
	assert.Contains(t, out, "DMC - 2D")

	_, _, err = runCLI(t, "dates", "--lpr", "01/01/2019", "--marital-status", "maybe")
	assert.ErrorContains(t, err, "unknown marital status")
}

func TestTrips(t *testing.T) {
	path := writeExample(t)

	out, _, err := runCLI(t, "trips", "--config", path, "--applicant", "traveller-1")
	require.NoError(t, err)
	assert.Contains(t, out, "traveller-1")
	assert.Contains(t, out, "overseas posting")
	assert.Contains(t, out, "04/03/2027")
	assert.NotContains(t, out, "resident-1")

	out, _, err = runCLI(t, "trips", "--config", path, "--applicant", "traveller-1", "--lookback", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "3 years")

	_, _, err = runCLI(t, "trips", "--config", path, "--applicant", "nobody")
	assert.ErrorContains(t, err, `applicant "nobody" not found`)
}

func TestRecalc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")
	fs := store.NewFileStore(path)
	require.NoError(t, fs.Put(context.Background(), "r1", store.Fields{
		"today":          "01/01/2024",
		"lpr_date":       "01/01/2020",
		"marital_status": "NotMarried",
	}))

	out, _, err := runCLI(t, "recalc", "--store", path, "--today", "10/03/2024")
	require.NoError(t, err)
	assert.Contains(t, out, "Recalculated 1 of 1 records as of 10/03/2024")
	assert.Contains(t, out, "changed: r1")

	got, err := fs.Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "LPRC - 1A", got["controlling_desc"])
	assert.True(t, strings.HasPrefix(got["message"], "You are eligible to file now."))

	out, _, err = runCLI(t, "recalc", "--store", path, "--today", "10/03/2024")
	require.NoError(t, err)
	assert.Contains(t, out, "Recalculated 0 of 1 records as of 10/03/2024 (1 already current)")

	_, _, err = runCLI(t, "recalc")
	assert.ErrorContains(t, err, "--store flag is required")
}

func TestAddThenRecalc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")

	out, _, err := runCLI(t, "add", "--store", path, "--lpr", "01/01/2021",
		"--marriage", "01/01/2022", "--spouse-citizenship", "01/01/2015")
	require.NoError(t, err)
	key := strings.TrimSpace(strings.TrimPrefix(out, "Added record "))
	_, err = uuid.Parse(key)
	require.NoError(t, err, "generated keys are UUIDs")

	_, _, err = runCLI(t, "add", "--store", path, "--key", "manual", "--lpr", "2019-01-01")
	require.NoError(t, err)

	fs := store.NewFileStore(path)
	got, err := fs.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "Married", got["marital_status"])
	assert.Equal(t, "01/01/2022", got["marriage_date"])

	manual, err := fs.Get(context.Background(), "manual")
	require.NoError(t, err)
	assert.Equal(t, store.Fields{"lpr_date": "01/01/2019", "marital_status": "NotMarried"}, manual)

	out, _, err = runCLI(t, "recalc", "--store", path, "--today", "01/01/2024")
	require.NoError(t, err)
	assert.Contains(t, out, "Recalculated 2 of 2 records as of 01/01/2024")

	got, err = fs.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "DMC - 2D", got["controlling_desc"])
}

func TestAdd_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")

	_, _, err := runCLI(t, "add", "--lpr", "01/01/2021")
	assert.ErrorContains(t, err, "--store flag is required")

	_, _, err = runCLI(t, "add", "--store", path)
	assert.ErrorContains(t, err, "--lpr flag is required")

	_, _, err = runCLI(t, "add", "--store", path, "--lpr", "01/01/2021", "--marriage", "soon")
	assert.ErrorContains(t, err, "invalid --marriage date")
}

func TestRecalc_DryRunLeavesFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")
	fs := store.NewFileStore(path)
	require.NoError(t, fs.Put(context.Background(), "r1", store.Fields{
		"lpr_date":       "01/01/2020",
		"marital_status": "NotMarried",
	}))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	out, _, err := runCLI(t, "recalc", "--store", path, "--today", "10/03/2024", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "[dry run] Recalculated 1 of 1 records")
	assert.Contains(t, out, "changed: r1")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}
