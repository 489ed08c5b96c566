package binder

// FieldError describes one failed validation rule on one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is embedded into HTML form payloads. When validation fails, the
// bind still succeeds and the failures accumulate here; the handler then
// re-renders the originating form with the sanitized values and this list.
type FieldErrors struct {
	fieldErrors []FieldError
}

func (fe *FieldErrors) setFieldErrors(errs []FieldError) {
	fe.fieldErrors = errs
}

// Errors returns every field-level failure from the last bind.
func (fe *FieldErrors) Errors() []FieldError {
	return fe.fieldErrors
}

// Valid reports whether the last bind produced no field errors.
func (fe *FieldErrors) Valid() bool {
	return len(fe.fieldErrors) == 0
}
