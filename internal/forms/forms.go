// Package forms converts raw request fields into typed entities. Validators
// never touch the database: the handler loads whatever context a validator
// needs (the owning project, choice sets) and persists only on success.
package forms

// Errors maps a field name to its validation messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Any() bool {
	return len(e) > 0
}
