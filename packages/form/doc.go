// Package form reads HTML forms out of a page the way a browser serializes
// them for submission.
//
// A Document holds the parsed page and its current control values. Fields
// returns the name/value mapping of a form identified by its id attribute:
//   - only named, enabled input, select and textarea controls take part
//   - submit, button, image, reset and file inputs are never serialized
//   - checkboxes and radios count only when checked
//   - controls outside the form element join it through form="<id>"
//
// SetValue changes a control's current value, standing in for user input.
package form
