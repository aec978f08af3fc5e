package meme

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeTemplates serialises the saved template list as a JSON array, the
// value stored under TemplatesKey.
func EncodeTemplates(list []Template) ([]byte, error) {
	if list == nil {
		list = []Template{}
	}
	out, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("meme: encode templates: %w", err)
	}
	return out, nil
}

// DecodeTemplates parses a stored template array. An absent or null value
// yields an empty list.
func DecodeTemplates(b []byte) ([]Template, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return []Template{}, nil
	}
	var list []Template
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("meme: decode templates: %w", err)
	}
	for i := range list {
		if list[i].Texts == nil {
			list[i].Texts = []TextOverlay{}
		}
		for j, t := range list[i].Texts {
			if err := validateText(t); err != nil {
				return nil, fmt.Errorf("%w: template %d text %d: %v", ErrInvalidScene, i, j, err)
			}
		}
	}
	return list, nil
}
