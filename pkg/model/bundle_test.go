package model

import "testing"

func TestInternTypeIsIdempotent(t *testing.T) {
	b := NewBundle()

	id1 := b.InternType("java.lang.String", KindClass)
	id2 := b.InternType("java.lang.String", KindClass)

	if id1 != id2 {
		t.Fatalf("expected same id, got %d and %d", id1, id2)
	}
	if len(b.Types) != 1 {
		t.Fatalf("expected 1 registered type, got %d", len(b.Types))
	}
}

func TestTypeByNameRoundTrips(t *testing.T) {
	b := NewBundle()
	b.InternType("com.example.Widget", KindClass)

	got, ok := b.TypeByName("com.example.Widget")
	if !ok {
		t.Fatal("expected type to be found")
	}
	if got.Name != "com.example.Widget" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Kind != KindClass {
		t.Errorf("Kind = %v, want %v", got.Kind, KindClass)
	}
}

func TestAddFieldAssignsPositionalIndex(t *testing.T) {
	ty := NewType("com.example.Widget", KindClass)
	ty.AddField(&Field{Name: "a"})
	ty.AddField(&Field{Name: "b"})
	ty.AddField(&Field{Name: "c"})

	fields := ty.OrderedFields()
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	for i, f := range fields {
		if f.Position != i {
			t.Errorf("field %q position = %d, want %d", f.Name, f.Position, i)
		}
	}
}

func TestAddFieldPreservesPositionOnReplace(t *testing.T) {
	ty := NewType("com.example.Widget", KindClass)
	ty.AddField(&Field{Name: "a"})
	ty.AddField(&Field{Name: "b"})

	ty.AddField(&Field{Name: "a", Final: true})

	if ty.Fields["a"].Position != 0 {
		t.Errorf("expected replaced field to keep position 0, got %d", ty.Fields["a"].Position)
	}
	if len(ty.FieldOrder) != 2 {
		t.Errorf("expected field order to stay length 2, got %d", len(ty.FieldOrder))
	}
}

func TestCanonicalIDFormat(t *testing.T) {
	got := CanonicalID("com/example/Widget", "doThing", "(I)V")
	want := `com/example/Widget."doThing":(I)V`
	if got != want {
		t.Errorf("CanonicalID = %q, want %q", got, want)
	}
}

func TestRecordInvocationAndAddedInvocation(t *testing.T) {
	b := NewBundle()
	b.RecordInvocation(`com/example/Widget."doThing":(I)V`, `com/example/Caller."run":()V`)

	set := b.InvokedBy[`com/example/Widget."doThing":(I)V`]
	if !set[`com/example/Caller."run":()V`] {
		t.Fatal("expected caller recorded in InvokedBy")
	}

	b.RecordAddedInvocation("com/example/Base", "doThing", `com/example/Caller."run":()V`)
	if b.AddedInvokedByClass["com.example.Base"]["doThing"] != `com/example/Caller."run":()V` {
		t.Fatal("expected caller recorded in AddedInvokedByClass under the dotted class name")
	}
}

func TestNoIDIsNotAValidTypeReference(t *testing.T) {
	ty := NewType("com.example.Widget", KindClass)
	if ty.HasSuperClass {
		t.Error("new type should not have a super class by default")
	}
	if ty.SuperClass != NoID {
		t.Errorf("SuperClass = %d, want NoID", ty.SuperClass)
	}
}
