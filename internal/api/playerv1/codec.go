package playerv1

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// JSONCodec marshals the plain Go messages of this package. It registers
// under the name "json" so it serves application/json and
// application/connect+json requests.
type JSONCodec struct{}

// Name returns the codec name.
func (JSONCodec) Name() string {
	return "json"
}

// Marshal encodes a message.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %T", msg)
	}
	return b, nil
}

// Unmarshal decodes a message. An empty body leaves msg untouched.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return errors.Wrapf(err, "unmarshal %T", msg)
	}
	return nil
}
