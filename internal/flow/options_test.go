package flow

import (
	"encoding/json"
	"testing"
)

func TestOptionMarshalShapes(t *testing.T) {
	plain, err := json.Marshal(Text("Sí"))
	if err != nil {
		t.Fatalf("marshal plain option: %v", err)
	}
	if string(plain) != `"Sí"` {
		t.Errorf("plain option = %s, want bare string", plain)
	}

	link, err := json.Marshal(Link("Abrir WhatsApp", "https://wa.me/5215550001111"))
	if err != nil {
		t.Fatalf("marshal link option: %v", err)
	}
	if string(link) != `{"label":"Abrir WhatsApp","url":"https://wa.me/5215550001111"}` {
		t.Errorf("link option = %s, want label/url object", link)
	}
}

func TestOptionUnmarshalShapes(t *testing.T) {
	var plain Option
	if err := json.Unmarshal([]byte(`"Generar resumen"`), &plain); err != nil {
		t.Fatalf("unmarshal bare string: %v", err)
	}
	if plain != Text("Generar resumen") {
		t.Errorf("got %+v, want plain option", plain)
	}

	var link Option
	if err := json.Unmarshal([]byte(`{"label":"Abrir WhatsApp","url":"https://wa.me/1"}`), &link); err != nil {
		t.Fatalf("unmarshal object: %v", err)
	}
	if link != Link("Abrir WhatsApp", "https://wa.me/1") {
		t.Errorf("got %+v, want link option", link)
	}

	var bad Option
	if err := json.Unmarshal([]byte(`42`), &bad); err == nil {
		t.Error("expected error for non-string, non-object option")
	}
}

func TestOptionRoundTripInSlice(t *testing.T) {
	in := []Option{Text("Sí"), Text("No"), Link("Abrir WhatsApp", "https://wa.me/1")}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out []Option
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d options, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("option %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}
