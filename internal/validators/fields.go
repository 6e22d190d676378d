package validators

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a
// subset of fields (field-level scoping).
const (
	// FieldUserName targets the unique login identifier of a user.
	FieldUserName = "user_name"

	// FieldFullName targets the display name of a user.
	FieldFullName = "full_name"

	// FieldEmail targets the e-mail address of a user.
	FieldEmail = "email"

	// FieldPassword targets the plaintext password of a request.
	FieldPassword = "password"

	// FieldIdentifier targets the login identifier pair of a credentials
	// payload, satisfied by either a user name or an email.
	FieldIdentifier = "identifier"

	// FieldTitle targets the title of a car listing.
	FieldTitle = "title"

	// FieldDescription targets the free-text description of a car listing.
	FieldDescription = "description"
)
