package codec

import (
	"encoding/json"
	"strings"
	"testing"
)

const unitDoc = `{"display_name":"Dox","max_health":200,"build_metal_cost":90,
"unit_types":["UNITTYPE_Mobile","UNITTYPE_Bot"],"navigation":{"move_speed":15.5},"base_spec":null}`

// Documents must come back in the shapes encoding/json produces, otherwise
// the unit loader sees different types depending on the configured codec.
func TestCodecsKeepJSONShapes(t *testing.T) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(unitDoc), &doc); err != nil {
		t.Fatal(err)
	}

	codecs := map[string]Codec[map[string]any]{
		"json":     JSON[map[string]any]{},
		"cbor":     MustCBOR[map[string]any](false),
		"cbor-det": MustCBOR[map[string]any](true),
		"msgpack":  Msgpack[map[string]any]{},
		"structpb": StructPB{},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			b, err := c.Encode(doc)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := c.Decode(b)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if hp, ok := got["max_health"].(float64); !ok || hp != 200 {
				t.Fatalf("max_health=%#v", got["max_health"])
			}
			nav, ok := got["navigation"].(map[string]any)
			if !ok || nav["move_speed"] != 15.5 {
				t.Fatalf("navigation=%#v", got["navigation"])
			}
			types, ok := got["unit_types"].([]any)
			if !ok || len(types) != 2 || types[1] != "UNITTYPE_Bot" {
				t.Fatalf("unit_types=%#v", got["unit_types"])
			}
			if v, ok := got["base_spec"]; !ok || v != nil {
				t.Fatalf("base_spec=%#v", v)
			}
		})
	}
}

func TestLimitRejectsOversizedPayload(t *testing.T) {
	c := Limit[map[string]any]{Inner: JSON[map[string]any]{}, MaxDecode: 16}
	b, err := c.Encode(map[string]any{"display_name": "Advanced Radar"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Decode(b); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("want size error, got %v", err)
	}
	if _, err := c.Decode([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("small payload: %v", err)
	}
}
