package docstore

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func encodeBody(doc Document) ([]byte, error) {
	body := make(Document, len(doc))
	for k, v := range doc {
		if k == IDField {
			continue
		}
		body[k] = v
	}
	return json.Marshal(body)
}

func decodeBody(id string, raw []byte) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	doc[IDField] = id
	return doc, nil
}

// matches compares filter values with document values by their JSON encoding.
func matches(doc Document, filter Filter) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok {
			return false
		}
		a, err := json.Marshal(got)
		if err != nil {
			return false
		}
		b, err := json.Marshal(want)
		if err != nil {
			return false
		}
		if !bytes.Equal(a, b) {
			return false
		}
	}
	return true
}
