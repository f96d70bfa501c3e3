package schema

// Email field names as they appear on the wire.
const (
	FieldDate    = "date"
	FieldSubject = "subject"
	FieldFrom    = "from"
	FieldBody    = "body"
)

var emailSchema = MustNew("EmailSchema",
	Field{
		Name:        FieldDate,
		Type:        TypeString,
		Format:      "date-time",
		Description: "ISO 8601 timestamp of email creation",
		Required:    true,
	},
	Field{
		Name:        FieldSubject,
		Type:        TypeString,
		Description: "Email subject line",
		Required:    true,
		NonEmpty:    true,
	},
	Field{
		Name:        "sender",
		Alias:       FieldFrom,
		Type:        TypeString,
		Description: "Sender's email address",
		Required:    true,
		NonEmpty:    true,
	},
	Field{
		Name:        FieldBody,
		Type:        TypeString,
		Description: "Main content of the email",
		Required:    true,
	},
)

// Email returns the schema for generated email records.
func Email() *Schema {
	return emailSchema
}
