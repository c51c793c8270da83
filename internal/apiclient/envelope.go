package apiclient

import (
	"bytes"
	"encoding/json"
)

var _nullLiteral = []byte("null")

// decodeEnvelope resolves the backend's two response shapes, `{data: T}` and
// bare `T`, in one place. Call sites never re-check the wrapping.
func decodeEnvelope(body []byte, dst any) error {
	var probe struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(body, &probe); err == nil &&
		len(probe.Data) > 0 && !bytes.Equal(probe.Data, _nullLiteral) {
		return json.Unmarshal(probe.Data, dst)
	}

	return json.Unmarshal(body, dst)
}
