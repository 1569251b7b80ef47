package csdl

import "testing"

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		collection bool
		primitive  bool
		wantErr    bool
	}{
		{name: "primitive", input: "Edm.String", want: "Edm.String", primitive: true},
		{name: "qualified", input: "ODataDemo.Person", want: "ODataDemo.Person"},
		{name: "deep namespace", input: "My.Deep.Ns.Color", want: "My.Deep.Ns.Color"},
		{name: "unqualified", input: "Person", want: "Person"},
		{name: "collection", input: "Collection(ODataDemo.Person)", want: "ODataDemo.Person", collection: true},
		{name: "collection of primitive", input: "Collection(Edm.Int32)", want: "Edm.Int32", collection: true, primitive: true},
		{name: "collection with spaces", input: "Collection( ODataDemo.Person )", want: "ODataDemo.Person", collection: true},
		{name: "type named Collection", input: "Ns.Collection", want: "Ns.Collection"},
		{name: "empty", input: "", wantErr: true},
		{name: "unterminated collection", input: "Collection(Ns.Person", wantErr: true},
		{name: "dangling dot", input: "Ns.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseTypeRef(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTypeRef(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTypeRef(%q) failed: %v", tt.input, err)
			}
			if ref.Name != tt.want {
				t.Errorf("Name = %q, want %q", ref.Name, tt.want)
			}
			if ref.Collection != tt.collection {
				t.Errorf("Collection = %v, want %v", ref.Collection, tt.collection)
			}
			if ref.IsPrimitive() != tt.primitive {
				t.Errorf("IsPrimitive() = %v, want %v", ref.IsPrimitive(), tt.primitive)
			}
		})
	}
}
