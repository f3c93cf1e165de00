package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scolby33/foldercompare/pkg/config"
	"github.com/scolby33/foldercompare/pkg/digest"
	"github.com/scolby33/foldercompare/pkg/models"
)

type result struct {
	stdout string
	stderr string
	code   int
	err    error
}

// run executes the root command with a private HOME; code is -1 when the
// command returned before reaching an exit status
func run(t *testing.T, args ...string) result {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(config.PathEnv, "")

	res := result{code: -1}
	orig := exitFunc
	exitFunc = func(code int) { res.code = code }
	t.Cleanup(func() { exitFunc = orig })

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	res.err = cmd.Execute()
	res.stdout = stdout.String()
	res.stderr = stderr.String()
	return res
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func md5Of(t *testing.T, content string) string {
	t.Helper()
	s, err := digest.Sum(strings.NewReader(content), "md5")
	require.NoError(t, err)
	return s
}

func scenario(t *testing.T) (string, string) {
	a := writeTree(t, map[string]string{"a": "", "b": "X", "c": "Y"})
	b := writeTree(t, map[string]string{"a": "", "b": "DIFFERENT", "d": "Y"})
	return a, b
}

func TestCompareScenarioOutput(t *testing.T) {
	a, b := scenario(t)

	res := run(t, "compare", "-s", "md5", a, b)
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.code)

	want := md5Of(t, "X") + " " + filepath.Join(a, "b") + "\n" +
		md5Of(t, "DIFFERENT") + " " + filepath.Join(b, "b") + "\n\n" +
		md5Of(t, "Y") + " " + filepath.Join(a, "c") + "\n" +
		"ABSENT " + filepath.Join(b, "c") + "\n\n" +
		"ABSENT " + filepath.Join(a, "d") + "\n" +
		md5Of(t, "Y") + " " + filepath.Join(b, "d") + "\n\n"
	assert.Equal(t, want, res.stdout)
	assert.Contains(t, res.stderr, "Status: different")
}

func TestCompareParallelSameOutput(t *testing.T) {
	a, b := scenario(t)

	sequential := run(t, "compare", "-s", "md5", a, b)
	parallel := run(t, "compare", "-s", "md5", "-j", "4", a, b)

	require.NoError(t, parallel.err)
	assert.Equal(t, sequential.stdout, parallel.stdout)
	assert.Equal(t, sequential.code, parallel.code)
}

func TestCompareIdentical(t *testing.T) {
	files := map[string]string{"x": "1", "dir/y": "2"}

	res := run(t, "compare", "-q", writeTree(t, files), writeTree(t, files))
	require.NoError(t, res.err)
	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestCompareUnknownAlgorithm(t *testing.T) {
	a, b := scenario(t)

	res := run(t, "compare", "-s", "sha4", a, b)
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unsupported hash algorithm")
	assert.True(t, errors.Is(res.err, models.ErrUnsupportedAlgorithm))
	var unsupported *models.UnsupportedAlgorithmError
	require.True(t, errors.As(res.err, &unsupported))
	assert.Equal(t, "sha4", unsupported.Name)
	assert.Equal(t, -1, res.code)
	assert.Empty(t, res.stdout)
}

func TestCompareInvalidRoot(t *testing.T) {
	a, _ := scenario(t)

	res := run(t, "compare", a, filepath.Join(a, "missing"))
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, models.ErrInvalidRoot))
	assert.Equal(t, -1, res.code)
	assert.Empty(t, res.stdout)
}

func TestCompareExclude(t *testing.T) {
	a := writeTree(t, map[string]string{"keep": "1", "skip.tmp": "2"})
	b := writeTree(t, map[string]string{"keep": "1"})

	res := run(t, "compare", "--exclude", "*.tmp", a, b)
	require.NoError(t, res.err)
	assert.Equal(t, 0, res.code)
}

func TestHashThenCompare(t *testing.T) {
	tree := writeTree(t, map[string]string{"one": "1", "sub/two": "2"})

	hashed := run(t, "hash", "-s", "md5", tree)
	require.NoError(t, hashed.err)
	assert.Equal(t,
		md5Of(t, "1")+" "+filepath.Join(tree, "one")+"\n"+
			md5Of(t, "2")+" "+filepath.Join(tree, "sub", "two")+"\n",
		hashed.stdout)

	listingPath := filepath.Join(t.TempDir(), "tree.md5")
	require.NoError(t, os.WriteFile(listingPath, []byte(hashed.stdout), 0644))

	t.Run("ListingAgainstTree", func(t *testing.T) {
		res := run(t, "compare", "-s", "md5", "-a", listingPath, tree)
		require.NoError(t, res.err)
		assert.Equal(t, 0, res.code)
	})

	t.Run("TreeAgainstListingWithRoot", func(t *testing.T) {
		res := run(t, "compare", "-s", "md5", "-b", listingPath, "--right-root", tree, tree)
		require.NoError(t, res.err)
		assert.Equal(t, 0, res.code)
	})

	t.Run("ChangedTree", func(t *testing.T) {
		other := writeTree(t, map[string]string{"one": "1", "sub/two": "22"})
		res := run(t, "compare", "-s", "md5", "-a", listingPath, "--left-root", tree, other)
		require.NoError(t, res.err)
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stdout, md5Of(t, "2")+" "+filepath.Join(tree, "sub", "two")+"\n")
		assert.Contains(t, res.stdout, md5Of(t, "22")+" "+filepath.Join(other, "sub", "two")+"\n")
	})
}

func TestCompareSelfListingInSubdirectory(t *testing.T) {
	tree := writeTree(t, map[string]string{"sub/x": "1", "sub/y": "2"})
	listingPath := filepath.Join(t.TempDir(), "self.md5")

	hashed := run(t, "hash", "-s", "md5", "--output-file", listingPath, tree)
	require.NoError(t, hashed.err)

	t.Run("TreeAndListing", func(t *testing.T) {
		res := run(t, "compare", "-s", "md5", tree, "-b", listingPath)
		require.NoError(t, res.err)
		assert.Equal(t, 0, res.code)
		assert.Empty(t, res.stdout)
		assert.NotContains(t, res.stderr, "inferred")
	})

	t.Run("TwoListings", func(t *testing.T) {
		res := run(t, "compare", "-a", listingPath, "-b", listingPath)
		require.NoError(t, res.err)
		assert.Equal(t, 0, res.code)
		assert.Contains(t, res.stderr, "Note: left listing root inferred as "+filepath.Join(tree, "sub"))
		assert.Contains(t, res.stderr, "--right-root")
	})

	t.Run("ListingOfOtherTree", func(t *testing.T) {
		other := writeTree(t, map[string]string{"sub/x": "1", "sub/y": "2"})
		res := run(t, "compare", "-s", "md5", other, "-b", listingPath)
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "give the listing root explicitly")
		assert.Equal(t, -1, res.code)
		assert.Empty(t, res.stdout)
	})
}

func TestCompareEmptyListingWarns(t *testing.T) {
	listingPath := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(listingPath, nil, 0644))

	res := run(t, "compare", "-a", listingPath, writeTree(t, map[string]string{"f": "1"}))
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Warning: left listing "+listingPath+" has no entries")
}

func TestProgressNeedsTerminal(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Progress = true

	assert.Nil(t, progressFactory(cfg, &bytes.Buffer{}))

	cfg.Output.Progress = false
	assert.Nil(t, progressFactory(cfg, os.Stderr))
}

func TestCompareProgressOffTerminal(t *testing.T) {
	a, b := scenario(t)

	res := run(t, "compare", "--progress", "-s", "md5", a, b)
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.code)
	assert.NotContains(t, res.stderr, "\r")
}

func TestHashOutputFile(t *testing.T) {
	tree := writeTree(t, map[string]string{"f": "content"})
	listingPath := filepath.Join(t.TempDir(), "out.txt")

	res := run(t, "hash", "--output-file", listingPath, tree)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Wrote 1 entries")

	both := run(t, "compare", "-a", listingPath, "-b", listingPath)
	require.NoError(t, both.err)
	assert.Equal(t, 0, both.code)
}

func TestCompareMalformedListing(t *testing.T) {
	listingPath := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(listingPath, []byte("nodigest\n"), 0644))

	res := run(t, "compare", "-a", listingPath, writeTree(t, nil))
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, models.ErrMalformedListing))
	assert.Contains(t, res.err.Error(), ":1:")
}

func TestCompareJSON(t *testing.T) {
	a, b := scenario(t)

	res := run(t, "compare", "-o", "json", "-s", "md5", a, b)
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.code)

	var data struct {
		Status  string `json:"status"`
		Records []struct {
			Path   string `json:"path"`
			Status string `json:"status"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &data))
	assert.Equal(t, "different", data.Status)
	require.Len(t, data.Records, 3)
	assert.Equal(t, "mismatch", data.Records[0].Status)
	assert.Equal(t, "left_only", data.Records[1].Status)
	assert.Equal(t, "right_only", data.Records[2].Status)
}

func TestCompareDiffReport(t *testing.T) {
	a, b := scenario(t)
	reportPath := filepath.Join(t.TempDir(), "diff.json")

	res := run(t, "compare", "-q", "--diff-report", reportPath, "--diff-format", "json", a, b)
	require.NoError(t, res.err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_count": 3`)
}

func TestCompareVerboseLogsToStderr(t *testing.T) {
	a, b := scenario(t)

	res := run(t, "compare", "-v", a, b)
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "[DEBUG] hashed file")
	assert.Contains(t, res.stderr, "[INFO] Comparison completed")
}

func TestCompareLogFile(t *testing.T) {
	a, b := scenario(t)
	logPath := filepath.Join(t.TempDir(), "run.log")

	res := run(t, "compare", "-q", "--log-file", logPath, "--log-format", "json", a, b)
	require.NoError(t, res.err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"Comparison completed"`)
	assert.Empty(t, res.stderr)
}

func TestCompareSideErrors(t *testing.T) {
	a, b := scenario(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"OneDirectory", []string{"compare", a}, "two sides are required"},
		{"ListingsAndDirectory", []string{"compare", "-a", "x.txt", "-b", "y.txt", a}, "too many directories"},
		{"TooManyArgs", []string{"compare", a, b, a}, "accepts at most 2 arg(s)"},
		{"RootForTree", []string{"compare", "--left-root", b, a, b}, "root only applies to listings"},
		{"TwoStdin", []string{"compare", "-a", "-", "-b", "-"}, "only one side"},
		{"EmptyDirectory", []string{"compare", "", b}, "path is empty"},
		{"DiffFormatTypo", []string{"compare", "--diff-report", filepath.Join(t.TempDir(), "d.txt"), "--diff-format", "jsn", a, b}, "unknown format"},
		{"HashEmptyDirectory", []string{"hash", ""}, "path is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.want)
			assert.Equal(t, -1, res.code)
		})
	}
}

func TestResolveSides(t *testing.T) {
	left, right, err := resolveSides([]string{"dir"}, CompareFlags{LeftListing: "l.txt", LeftRoot: "/r"})
	require.NoError(t, err)
	assert.Equal(t, "l.txt", left.Listing)
	assert.Equal(t, "/r", left.Root)
	assert.Equal(t, "dir", right.Tree)

	left, right, err = resolveSides([]string{"dir"}, CompareFlags{RightListing: "r.txt"})
	require.NoError(t, err)
	assert.Equal(t, "dir", left.Tree)
	assert.Equal(t, "r.txt", right.Listing)
}

func TestAlgorithmsCommand(t *testing.T) {
	res := run(t, "algorithms")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	assert.Equal(t, len(digest.Names()), len(lines))
	assert.Equal(t, "md5", lines[0])
	assert.Contains(t, lines, "sha3_256 (default)")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	res := run(t, "--config", path, "config", "init")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, path)

	res = run(t, "--config", path, "config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Algorithm: sha3_256\n")
	assert.Contains(t, res.stdout, "Workers: 1\n")
}

func TestConfigFileDrivesCompare(t *testing.T) {
	a, b := scenario(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hash:\n  algorithm: md5\noutput:\n  format: json\n"), 0644))

	res := run(t, "--config", path, "compare", a, b)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"algorithm": "md5"`)
}

func TestVersionCommand(t *testing.T) {
	res := run(t, "version", "--short")
	require.NoError(t, res.err)
	assert.Equal(t, Version+"\n", res.stdout)
}

func TestVersionJSON(t *testing.T) {
	res := run(t, "version", "--json")
	require.NoError(t, res.err)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, digest.Default, info.DefaultAlgorithm)
}
