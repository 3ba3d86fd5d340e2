package logger

import "context"

type fieldsKey struct{}

// ContextWithFields returns a copy of ctx carrying fields that WithContext
// adds to every entry. Fields already on ctx are kept unless overwritten.
func ContextWithFields(ctx context.Context, fields Fields) context.Context {
	merged := make(Fields, len(fields))
	if existing, ok := ctx.Value(fieldsKey{}).(Fields); ok {
		for k, v := range existing {
			merged[k] = v
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// WithContext starts an entry with the fields stored on ctx.
func (l *Log) WithContext(ctx context.Context) *Entry {
	fields, _ := ctx.Value(fieldsKey{}).(Fields)
	return l.WithFields(fields)
}
