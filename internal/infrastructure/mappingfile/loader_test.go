package mappingfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/courtlog/nba-pbp/internal/domain/event"
)

func writeMapping(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_EmptyPathYieldsEmptyTable(t *testing.T) {
	table, err := NewLoader().Load("")
	require.NoError(t, err)
	require.Empty(t, table)
}

func TestLoad_BuildsCanonicalKeys(t *testing.T) {
	path := writeMapping(t, `
overrides:
  - family: turnover
    subtype: Bad Pass
    action_code: 40
  - family: foul
    subtype: Take
    qualifiers: [Fastbreak, "2ndchance"]
    subfamily: take
    type_code: 6
`)

	table, err := NewLoader().Load(path)
	require.NoError(t, err)
	require.Len(t, table, 2)

	ov, ok := table.Lookup(event.NewSignatureKey("turnover", "bad pass", "", nil))
	require.True(t, ok)
	require.Equal(t, 40, ov.ActionCode)

	// Qualifier order must not matter.
	ov, ok = table.Lookup(event.NewSignatureKey("foul", "take", "", []string{"2ndchance", "fastbreak"}))
	require.True(t, ok)
	require.Equal(t, "take", ov.Subfamily)
	require.Equal(t, 6, ov.TypeCode)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := writeMapping(t, "overrides: [ {family: turnover")
	_, err := NewLoader().Load(path)
	require.Error(t, err)
}

func TestLoad_InvalidRecordFails(t *testing.T) {
	path := writeMapping(t, `
overrides:
  - family: Turnover
    action_code: 40
`)
	_, err := NewLoader().Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "entry 0")
}
