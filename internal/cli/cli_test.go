package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/enlearn/internal/app"
	"github.com/phrazzld/enlearn/internal/cli"
	"github.com/phrazzld/enlearn/internal/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t       *testing.T
	storage string
	now     time.Time
	lookups map[string][]string
}

type result struct {
	code   int
	stdout string
	stderr string
}

func newHarness(t *testing.T, file string) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ENLEARN_STORAGE_PATH", "")
	t.Setenv("ENLEARN_STORAGE_BACKEND", "")
	return &harness{
		t:       t,
		storage: filepath.Join(home, ".enlearn", file),
		now:     time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
		lookups: map[string][]string{},
	}
}

func (h *harness) run(input string, args ...string) result {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append(args, "--storage", h.storage)
	if strings.HasSuffix(h.storage, ".db") {
		full = append(full, "--backend", "sqlite")
	}

	stub := translate.Func(func(_ context.Context, word string) ([]string, error) {
		return h.lookups[word], nil
	})
	code := cli.Main(context.Background(), full, cli.IO{
		In:  strings.NewReader(input),
		Out: &stdout,
		Err: &stderr,
	}, cli.WithAppOptions(
		app.WithClock(func() time.Time { return h.now }),
		app.WithTranslator(stub),
	))
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (h *harness) exported() []map[string]any {
	h.t.Helper()
	res := h.run("", "export")
	require.Equal(h.t, cli.ExitOK, res.code, res.stderr)
	var records []map[string]any
	require.NoError(h.t, json.Unmarshal([]byte(res.stdout), &records))
	return records
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t, "vocab.json")

	res := h.run("", "add", "apple", "蘋果", "--context", "An apple a day")
	require.Equal(t, cli.ExitOK, res.code, res.stderr)
	assert.Equal(t, "Added 'apple' to your vocabulary list. Next review: 2024-03-05\n", res.stdout)

	res = h.run("", "add", "look", "up", "查詢")
	require.Equal(t, cli.ExitOK, res.code, res.stderr)

	res = h.run("", "list")
	require.Equal(t, cli.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Showing up to 20 entries (fewest reviews first, then newest):")
	assert.Contains(t, res.stdout, "- apple :: 蘋果 (next review 2024-03-05, streak 0, reviews 0)")
	assert.Contains(t, res.stdout, "- look :: up 查詢")
	assert.Contains(t, res.stdout, "2 of 2 entries due today.")
	assert.Less(t, strings.Index(res.stdout, "- apple"), strings.Index(res.stdout, "- look"),
		"equal review counts and dates fall back to word order")
}

func TestListEmpty(t *testing.T) {
	h := newHarness(t, "vocab.json")

	res := h.run("", "list")

	require.Equal(t, cli.ExitOK, res.code, res.stderr)
	assert.Equal(t, "No vocabulary saved yet. Use the add command to capture a new word.\n", res.stdout)
	_, err := os.Stat(h.storage)
	assert.True(t, os.IsNotExist(err), "listing must not create the file")
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t, "vocab.json")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "add without definition", args: []string{"add", "apple"}, want: "requires WORD and DEFINITION"},
		{name: "blank word", args: []string{"add", " ", "蘋果"}, want: "word cannot be empty"},
		{name: "delete without id", args: []string{"delete"}, want: "requires an ID"},
		{name: "unknown command", args: []string{"frobnicate"}, want: "Unknown command: frobnicate"},
		{name: "unsupported import", args: []string{"import", "words.txt"}, want: "Usage: enlearn import FILE"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := h.run("", tc.args...)
			assert.Equal(t, cli.ExitUsage, res.code)
			assert.Contains(t, res.stderr, tc.want)
		})
	}
}

func TestReview_WordFirst(t *testing.T) {
	h := newHarness(t, "vocab.json")
	require.Equal(t, cli.ExitOK, h.run("", "add", "apple", "蘋果").code)
	require.Equal(t, cli.ExitOK, h.run("", "add", "zebra", "斑馬").code)

	res := h.run("\ny\n\nn\n", "review")

	require.Equal(t, cli.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Word: apple")
	assert.Contains(t, res.stdout, "Definition: 蘋果")
	assert.Contains(t, res.stdout, "Next review: 2024-03-07 (every 2 days)")
	assert.Contains(t, res.stdout, "Next review: 2024-03-06 (every 1 days)")
	assert.Contains(t, res.stdout, "Review session complete. Keep going!")

	records := h.exported()
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, float64(1), r["review_count"], r["word"])
	}

	res = h.run("", "review")
	require.Equal(t, cli.ExitOK, res.code)
	assert.Contains(t, res.stdout, "No words are due for review today. Great job!")
}

func TestReview_SkipLeavesEntryUntouched(t *testing.T) {
	h := newHarness(t, "vocab.json")
	require.Equal(t, cli.ExitOK, h.run("", "add", "apple", "蘋果").code)

	res := h.run("\nmaybe\ns\n", "review")

	require.Equal(t, cli.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Please respond with 'y', 'n', 's', or 'q'.")
	assert.Contains(t, res.stdout, "Review session complete.")

	records := h.exported()
	require.Len(t, records, 1)
	assert.Equal(t, float64(0), records[0]["review_count"])
	assert.Equal(t, "2024-03-05", records[0]["next_review"])
}

func TestReview_QuitAndEndOfInput(t *testing.T) {
	h := newHarness(t, "vocab.json")
	require.Equal(t, cli.ExitOK, h.run("", "add", "apple", "蘋果").code)

	res := h.run("\nq\n", "review")
	require.Equal(t, cli.ExitOK, res.code, res.stderr)

	res = h.run("", "review")
	require.Equal(t, cli.ExitOK, res.code, res.stderr)

	assert.Equal(t, float64(0), h.exported()[0]["review_count"])
}

func TestReview_DefinitionFirstTypedAnswer(t *testing.T) {
	h := newHarness(t, "vocab.json")
	require.Equal(t, cli.ExitOK, h.run("", "add", "apple", "蘋果", "--context", "An Apple a day").code)

	res := h.run("APPLE\n", "review", "--mode", "definition-first")

	require.Equal(t, cli.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Definition: 蘋果")
	assert.Contains(t, res.stdout, "Context: An _____ a day")
	assert.Contains(t, res.stdout, "Correct!")

	records := h.exported()
	assert.Equal(t, float64(1), records[0]["success_streak"])
}

func TestReview_EmptyList(t *testing.T) {
	h := newHarness(t, "vocab.json")

	res := h.run("", "review")

	require.Equal(t, cli.ExitOK, res.code)
	assert.Equal(t, "Your list is empty. Add words first.\n", res.stdout)
}

func TestCorruptedStorage(t *testing.T) {
	h := newHarness(t, "vocab.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(h.storage), 0o755))
	require.NoError(t, os.WriteFile(h.storage, []byte("{not json"), 0o600))

	for _, args := range [][]string{{"list"}, {"review"}, {"add", "apple", "蘋果"}} {
		res := h.run("", args...)
		assert.Equal(t, cli.ExitError, res.code, args)
		assert.Contains(t, res.stderr, "is corrupted")
		assert.Contains(t, res.stderr, "please fix or delete it")
	}

	data, err := os.ReadFile(h.storage)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestDelete(t *testing.T) {
	h := newHarness(t, "vocab.json")
	require.Equal(t, cli.ExitOK, h.run("", "add", "apple", "蘋果").code)
	id := h.exported()[0]["id"].(string)

	res := h.run("", "delete", id)
	require.Equal(t, cli.ExitOK, res.code, res.stderr)
	assert.Equal(t, "Deleted entry "+id+".\n", res.stdout)
	assert.Empty(t, h.exported())

	res = h.run("", "delete", id)
	assert.Equal(t, cli.ExitError, res.code)
	assert.Contains(t, res.stderr, "no entry with id")
}

func TestLookup(t *testing.T) {
	h := newHarness(t, "vocab.json")
	h.lookups["apple"] = []string{"蘋果", "蘋果公司"}

	res := h.run("", "lookup", "apple")
	require.Equal(t, cli.ExitOK, res.code, res.stderr)
	assert.Equal(t, "蘋果\n蘋果公司\n", res.stdout)

	res = h.run("", "lookup", "qwxz")
	require.Equal(t, cli.ExitOK, res.code, res.stderr)
	assert.Equal(t, "No translation found for 'qwxz'.\n", res.stdout)
}

func TestImportCSV(t *testing.T) {
	h := newHarness(t, "vocab.json")
	h.lookups["zebra"] = []string{"斑馬"}

	file := filepath.Join(t.TempDir(), "words.csv")
	csv := "word,definition,context\napple,蘋果,An apple a day\nzebra,,\nqwxz,,\n"
	require.NoError(t, os.WriteFile(file, []byte(csv), 0o600))

	res := h.run("", "import", file)

	require.Equal(t, cli.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Imported 2 entries from words.csv (1 definitions looked up).")
	assert.Contains(t, res.stdout, `skipped line 4 "qwxz": missing definition`)

	records := h.exported()
	require.Len(t, records, 2)
	assert.Equal(t, "斑馬", records[1]["definition"])
}

func TestExportToFile(t *testing.T) {
	h := newHarness(t, "vocab.json")
	require.Equal(t, cli.ExitOK, h.run("", "add", "apple", "蘋果").code)
	out := filepath.Join(t.TempDir(), "backup.json")

	res := h.run("", "export", "--output", out)

	require.Equal(t, cli.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Exported 1 entries to")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n"))
}

func TestSQLiteBackend(t *testing.T) {
	h := newHarness(t, "vocab.db")

	require.Equal(t, cli.ExitOK, h.run("", "add", "apple", "蘋果").code)
	res := h.run("\ny\n", "review")
	require.Equal(t, cli.ExitOK, res.code, res.stderr)

	records := h.exported()
	require.Len(t, records, 1)
	assert.Equal(t, float64(1), records[0]["review_count"])
	assert.Equal(t, "2024-03-07", records[0]["next_review"])
}
