package contacts

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
)

// Directory resolves contact ids for the safety core.
type Directory interface {
	// Resolve maps ids to display names in input order. Ids not present in
	// the directory are silently omitted, never an error.
	Resolve(ids []safety.ContactID) []string
	// IDs returns every known contact id in directory order.
	IDs() []safety.ContactID
}

// FileDirectory is a Directory backed by a YAML roster file loaded once at
// construction. The roster is immutable afterwards; contact CRUD belongs to
// an external system.
type FileDirectory struct {
	// ordered keeps contacts in file order for stable name resolution.
	ordered []safety.Contact
	// byID indexes contacts for resolution.
	byID map[safety.ContactID]safety.Contact
}

// rosterFile mirrors the YAML layout of the contacts file.
type rosterFile struct {
	// Contacts is the full roster.
	Contacts []rosterEntry `yaml:"contacts"`
}

// rosterEntry is a single contact in the YAML roster.
type rosterEntry struct {
	// ID is the stable contact identifier.
	ID string `yaml:"id"`
	// Name is the display name.
	Name string `yaml:"name"`
	// Phone is the contact's phone number.
	Phone string `yaml:"phone"`
	// Email is the contact's e-mail address.
	Email string `yaml:"email"`
}

// NewFileDirectory reads the roster from the provided YAML file.
func NewFileDirectory(path string) (*FileDirectory, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read contacts file: %w", err)
	}

	var file rosterFile
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return nil, fmt.Errorf("unmarshal contacts file: %w", err)
	}

	entries := make([]safety.Contact, 0, len(file.Contacts))
	for _, e := range file.Contacts {
		entries = append(entries, safety.Contact{
			ID:    safety.ContactID(e.ID),
			Name:  e.Name,
			Phone: e.Phone,
			Email: e.Email,
		})
	}

	return NewStaticDirectory(entries), nil
}

// NewStaticDirectory builds a directory from an in-memory roster.
func NewStaticDirectory(entries []safety.Contact) *FileDirectory {
	d := &FileDirectory{
		ordered: make([]safety.Contact, 0, len(entries)),
		byID:    make(map[safety.ContactID]safety.Contact, len(entries)),
	}

	for _, c := range entries {
		// First occurrence wins on duplicate ids.
		if _, ok := d.byID[c.ID]; ok {
			continue
		}

		d.ordered = append(d.ordered, c)
		d.byID[c.ID] = c
	}

	return d
}

// Resolve maps ids to display names, dropping unknown ids.
func (d *FileDirectory) Resolve(ids []safety.ContactID) []string {
	names := make([]string, 0, len(ids))

	for _, id := range ids {
		if c, ok := d.byID[id]; ok {
			names = append(names, c.Name)
		}
	}

	return names
}

// IDs returns every known contact id in roster order.
func (d *FileDirectory) IDs() []safety.ContactID {
	ids := make([]safety.ContactID, 0, len(d.ordered))

	for _, c := range d.ordered {
		ids = append(ids, c.ID)
	}

	return ids
}
