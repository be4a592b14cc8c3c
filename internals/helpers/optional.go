package helper

import (
	"bytes"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// OptionalUUID membedakan field yang tidak dikirim, dikirim null, dan berisi id.
type OptionalUUID struct {
	Set   bool
	Value *string
}

func (o *OptionalUUID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := sonic.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// UUID: nil kalau null/kosong, error kalau format tidak valid.
func (o OptionalUUID) UUID() (*uuid.UUID, error) {
	if o.Value == nil || strings.TrimSpace(*o.Value) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*o.Value))
	if err != nil {
		return nil, err
	}
	return &id, nil
}
