package export

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-textnet/pkg/network"
)

// Encode marshals r as JSON, snappy block-compressed when compress is set.
func Encode(r *network.Result, compress bool) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode result %s: %w", r.ID, err)
	}
	if compress {
		return snappy.Encode(nil, data), nil
	}
	return data, nil
}

// Decode reverses Encode.
func Decode(data []byte, compressed bool) (*network.Result, error) {
	if compressed {
		raw, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("decompress result: %w", err)
		}
		data = raw
	}
	var r network.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &r, nil
}
