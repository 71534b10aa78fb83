package safety

// ContactID uniquely and stably identifies a contact in the directory.
type ContactID string

// Contact is a person the user may share their position with.
// Contacts are owned by the external contact directory; the core only
// reads them and never writes back.
type Contact struct {
	// ID is the opaque, stable identifier of the contact.
	ID ContactID
	// Name is the display name shown to the user.
	Name string
	// Phone is the contact's phone number.
	Phone string
	// Email is the contact's e-mail address.
	Email string
}

// Clone returns a copy of the contact.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}

	cloned := *c

	return &cloned
}
