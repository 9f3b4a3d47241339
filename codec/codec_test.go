package codec

import (
	"bytes"
	"testing"

	"github.com/shoyowada/hlgo/utils"
)

func TestMarshalActionEncodesOrderedMapInConstructionOrder(t *testing.T) {
	action := utils.NewOrderedMap("type", "cancel", "cancels", []map[string]any{{"a": 0, "o": 1}})

	data, err := MarshalAction(action)
	if err != nil {
		t.Fatalf("MarshalAction() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty msgpack output")
	}
	if i, j := bytes.Index(data, []byte("type")), bytes.Index(data, []byte("cancels")); i < 0 || j < 0 || i > j {
		t.Fatalf("expected key \"type\" to be encoded before \"cancels\", got %x", data)
	}
}

func TestMarshalActionRejectsUnencodable(t *testing.T) {
	if _, err := MarshalAction(make(chan int)); err == nil {
		t.Fatal("expected an error for an unencodable action")
	}
}
