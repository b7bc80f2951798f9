package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type entry[T any] struct {
	Key   string
	Value T
}

// ordered decodes a JSON object into its entries in document order. A repeated
// key keeps the position of its first occurrence and the value of its last.
type ordered[T any] []entry[T]

func (o *ordered[T]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected an object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)

		var value T
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
		if i := o.index(key); i >= 0 {
			(*o)[i].Value = value
			continue
		}
		*o = append(*o, entry[T]{Key: key, Value: value})
	}

	_, err = dec.Token()
	return err
}

func (o ordered[T]) index(key string) int {
	for i, e := range o {
		if e.Key == key {
			return i
		}
	}
	return -1
}
