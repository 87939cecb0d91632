package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/networkupstools/nut-hcl/internal/db/sqlite"
	"github.com/networkupstools/nut-hcl/internal/version"
	"github.com/networkupstools/nut-hcl/pkg/daemon"
	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag back to its default so commands run in one
// test binary don't see each other's arguments.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)
	exportFormat = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--log-level", "disabled"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeJS(t *testing.T, path string, records []hcl.Record) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, hcl.EncodeJS(&buf, records))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestListFiltered(t *testing.T) {
	out, err := execute(t, "list", "--vendor", "apc", "--driver", "apcsmart", "--sort", "model", "-F", "json")
	require.NoError(t, err)

	var records []hcl.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "Back-UPS Pro", records[0].Model)
	assert.Equal(t, "Smart-UPS", records[2].Model)
}

func TestListLevelAsTable(t *testing.T) {
	out, err := execute(t, "list", "-l", "5")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 31)
	assert.True(t, strings.HasPrefix(lines[0], "LEVEL"))
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "5 "), line)
	}
}

func TestListLimitAsJS(t *testing.T) {
	out, err := execute(t, "list", "--limit", "2", "-F", "js")
	require.NoError(t, err)

	records, err := hcl.ParseJS(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, hcl.Records()[:2], records)
}

func TestListInvalidLevel(t *testing.T) {
	_, err := execute(t, "list", "-l", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --level")
}

func TestVendors(t *testing.T) {
	out, err := execute(t, "vendors", "-F", "json")
	require.NoError(t, err)

	var vendors []struct {
		Vendor string `json:"vendor"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &vendors))
	assert.Len(t, vendors, 106)
}

func TestLintBuiltinTable(t *testing.T) {
	out, err := execute(t, "lint")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLintFileWithErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ups_data.js")
	src := "var UPSData = [\n" +
		"  [9,\"Acme\",\"Box\",\"\",\"blazer_usb\"],\n" +
		"  [3,\"\",\"Box 2\",\"\",\"blazer_usb\"]\n" +
		"];\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	out, err := execute(t, "lint", path)
	require.Error(t, err)
	assert.Equal(t, "lint failed", err.Error())
	assert.Contains(t, out, "unknown support level 9")
	assert.Contains(t, out, "vendor is empty")
}

func TestExportThenDiff(t *testing.T) {
	dir := t.TempDir()
	js := filepath.Join(dir, "scripts", "ups_data.js")

	_, err := execute(t, "export", "-o", js)
	require.NoError(t, err)

	b, err := os.ReadFile(js)
	require.NoError(t, err)
	var want bytes.Buffer
	require.NoError(t, hcl.EncodeJS(&want, hcl.Records()))
	assert.Equal(t, want.String(), string(b))

	out, err := execute(t, "diff", js)
	require.NoError(t, err)
	assert.Empty(t, out)

	// refuses to clobber without --overwrite
	_, err = execute(t, "export", "-o", js)
	assert.Error(t, err)
	_, err = execute(t, "export", "-o", js, "--overwrite")
	assert.NoError(t, err)
}

func TestExportDatabaseAsDataSource(t *testing.T) {
	db := filepath.Join(t.TempDir(), "hcl.db")
	_, err := execute(t, "export", "-o", db)
	require.NoError(t, err)

	out, err := execute(t, "--data", db, "list", "-F", "json")
	require.NoError(t, err)
	var records []hcl.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	assert.Equal(t, hcl.Records(), records)
}

func TestDiffReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ups_data.js")
	all := hcl.Records()
	writeJS(t, path, all[1:])

	out, err := execute(t, "diff", path)
	require.Error(t, err)
	assert.Equal(t, "tables differ", err.Error())

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "-"), lines[1])
	assert.Contains(t, lines[1], all[0].Model)
}

func TestDiffAgainstServer(t *testing.T) {
	router, err := daemon.NewRouter(hcl.Records(), 5*time.Second)
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	defer srv.Close()

	out, err := execute(t, "diff", srv.URL+"/ups_data.js")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = execute(t, "diff", srv.URL+"/missing.js")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "-F", "json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Get(), info)

	out, err = execute(t, "version", "--rev")
	require.NoError(t, err)
	assert.Equal(t, version.Get().GitCommit+"\n", out)
}

func TestEmptyTableIsRefused(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]\n"), 0o644))

	out, err := execute(t, "--data", empty, "lint")
	require.Error(t, err)
	assert.Contains(t, out, "table is empty")

	js := filepath.Join(dir, "ups_data.js")
	_, err = execute(t, "--data", empty, "export", "-o", js)
	require.Error(t, err)
	assert.NoFileExists(t, js)
}

func TestVerifyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "hcl.db")
	all := hcl.Records()
	require.NoError(t, sqlite.InsertRecords(db, all...))
	assert.NoError(t, verifyDatabase(db, all))

	err := verifyDatabase(db, all[1:])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected")
}
