package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ID identifies salons, treatments and stylists. The salon data files carry
// both numeric and string ids, so both decode into the same form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// UnmarshalBSONValue accepts the same string or numeric ids from MongoDB.
func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*id = ID(raw.StringValue())
	case bsontype.Int32:
		*id = ID(strconv.FormatInt(int64(raw.Int32()), 10))
	case bsontype.Int64:
		*id = ID(strconv.FormatInt(raw.Int64(), 10))
	case bsontype.Double:
		*id = ID(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	case bsontype.Null, bsontype.Undefined:
		*id = ""
	default:
		return fmt.Errorf("id must be a string or a number, got bson %s", t)
	}
	return nil
}

func (id ID) String() string {
	return string(id)
}
