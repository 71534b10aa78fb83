package contacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
)

// TestStaticDirectory_Resolve verifies order preservation, silent omission of
// unknown ids and duplicate handling.
func TestStaticDirectory_Resolve(t *testing.T) {
	t.Parallel()

	d := NewStaticDirectory([]safety.Contact{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
		{ID: "alice", Name: "Shadow Alice"},
	})

	// Duplicate ids: first occurrence wins.
	require.Equal(t, []safety.ContactID{"alice", "bob"}, d.IDs())

	names := d.Resolve([]safety.ContactID{"bob", "ghost", "alice"})
	require.Equal(t, []string{"Bob", "Alice"}, names)

	require.Empty(t, d.Resolve(nil))
}

// TestNewFileDirectory loads a roster from YAML and keeps file order.
func TestNewFileDirectory(t *testing.T) {
	t.Parallel()

	roster := `contacts:
  - id: mom
    name: Mom
    phone: "+100"
    email: mom@example.com
  - id: dad
    name: Dad
`

	path := filepath.Join(t.TempDir(), "contacts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(roster), 0o600))

	d, err := NewFileDirectory(path)
	require.NoError(t, err)
	require.Equal(t, []safety.ContactID{"mom", "dad"}, d.IDs())
	require.Equal(t, []string{"Mom", "Dad"}, d.Resolve(d.IDs()))
}

// TestNewFileDirectory_Errors covers missing and malformed files.
func TestNewFileDirectory_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewFileDirectory(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("contacts: {not: a list}"), 0o600))

	_, err = NewFileDirectory(path)
	require.Error(t, err)
}
