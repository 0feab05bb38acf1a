// Package fieldtype implements the form field types of WPDLib.
//
// A Manager creates fields from argument maps and owns what they share: the
// Locale, the sanitising policies, the MediaStore and the formatting
// pipeline (Manager.Format):
//
//	m := fieldtype.NewManager(fieldtype.WithLocale(locale))
//	f, ok := m.GetInstance(fieldtype.Args{
//		"type": "number",
//		"id":   "age",
//		"name": "age",
//		"min":  18,
//	}, false)
//
// Fields hold no values. Validate turns untrusted input into the canonical
// stored form, Parse turns a stored value back into that form or, with
// Formatted, into a human readable projection, and Display renders the
// control. Validation failures are *errors.Error values with a field
// specific code.
//
// Choice fields may take their options from a DataSource ({posts: page},
// {terms: category}, {users: editor}); such fields must be resolved with
// Resolve before they are validated or rendered.
package fieldtype
