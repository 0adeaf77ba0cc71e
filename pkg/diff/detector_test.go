package diff

import (
	"testing"

	"github.com/platinummonkey/japicc/pkg/model"
)

func classType(b *model.Bundle, name string, kind model.Kind) *model.Type {
	id := b.InternType(name, kind)
	t := b.TypeByID(id)
	t.Archive = "test.jar"
	t.Access = model.AccessPublic
	return t
}

func addCtor(b *model.Bundle, cls *model.Type) {
	classID, _ := b.Names.Lookup(cls.Name)
	m := model.NewMethod("Ctor", classID, "()V")
	m.Constructor = true
	m.Access = model.AccessPublic
	b.Methods[model.CanonicalID(cls.Name, "Ctor", "()V")] = m
}

func TestDetectAddedMethod(t *testing.T) {
	v1 := model.NewBundle()
	v2 := model.NewBundle()

	c1 := classType(v1, "com.example.Widget", model.KindClass)
	addCtor(v1, c1)
	c2 := classType(v2, "com.example.Widget", model.KindClass)
	addCtor(v2, c2)

	classID2, _ := v2.Names.Lookup("com.example.Widget")
	newMethod := model.NewMethod("doThing", classID2, "()V")
	newMethod.Access = model.AccessPublic
	v2.Methods[model.CanonicalID("com.example.Widget", "doThing", "()V")] = newMethod

	problems := NewDetector(v1, v2).Run()

	found := false
	for _, p := range problems.All() {
		if p.Kind == AddedMethod {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an Added_Method problem")
	}
}

func TestDetectRemovedMethod(t *testing.T) {
	v1 := model.NewBundle()
	v2 := model.NewBundle()

	c1 := classType(v1, "com.example.Widget", model.KindClass)
	addCtor(v1, c1)
	c2 := classType(v2, "com.example.Widget", model.KindClass)
	addCtor(v2, c2)

	classID1, _ := v1.Names.Lookup("com.example.Widget")
	gone := model.NewMethod("doThing", classID1, "()V")
	gone.Access = model.AccessPublic
	v1.Methods[model.CanonicalID("com.example.Widget", "doThing", "()V")] = gone

	problems := NewDetector(v1, v2).Run()

	found := false
	for _, p := range problems.All() {
		if p.Kind == RemovedMethod {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a Removed_Method problem")
	}
}

func TestDetectChangedMethodAccessNarrowing(t *testing.T) {
	v1 := model.NewBundle()
	v2 := model.NewBundle()

	c1 := classType(v1, "com.example.Widget", model.KindClass)
	addCtor(v1, c1)
	c2 := classType(v2, "com.example.Widget", model.KindClass)
	addCtor(v2, c2)

	classID1, _ := v1.Names.Lookup("com.example.Widget")
	classID2, _ := v2.Names.Lookup("com.example.Widget")

	m1 := model.NewMethod("doThing", classID1, "()V")
	m1.Access = model.AccessPublic
	v1.Methods[model.CanonicalID("com.example.Widget", "doThing", "()V")] = m1

	m2 := model.NewMethod("doThing", classID2, "()V")
	m2.Access = model.AccessProtected
	v2.Methods[model.CanonicalID("com.example.Widget", "doThing", "()V")] = m2

	problems := NewDetector(v1, v2).Run()

	found := false
	for _, p := range problems.All() {
		if p.Kind == ChangedMethodAccess {
			found = true
			if p.OldValue != "public" || p.NewValue != "protected" {
				t.Errorf("OldValue/NewValue = %q/%q", p.OldValue, p.NewValue)
			}
		}
	}
	if !found {
		t.Fatal("expected a Changed_Method_Access problem")
	}
}

func TestDetectRenamedConstantFieldIsTaggedConstant(t *testing.T) {
	v1 := model.NewBundle()
	v2 := model.NewBundle()

	c1 := classType(v1, "com.example.Widget", model.KindClass)
	addCtor(v1, c1)
	c2 := classType(v2, "com.example.Widget", model.KindClass)
	addCtor(v2, c2)

	strID1 := v1.InternType("java.lang.String", model.KindClass)
	strID2 := v2.InternType("java.lang.String", model.KindClass)

	c1.AddField(&model.Field{Name: "OLD_NAME", Type: strID1, Access: model.AccessPublic, Static: true, Final: true, Value: `"x"`})
	c2.AddField(&model.Field{Name: "NEW_NAME", Type: strID2, Access: model.AccessPublic, Static: true, Final: true, Value: `"x"`})

	problems := NewDetector(v1, v2).Run()

	found := false
	for _, p := range problems.All() {
		if p.Kind == RenamedConstantField {
			found = true
			if p.Target != "OLD_NAME" || p.NewValue != "NEW_NAME" {
				t.Errorf("Target/NewValue = %q/%q", p.Target, p.NewValue)
			}
		}
		if p.Kind == RenamedField {
			t.Error("a constant field rename must be tagged Renamed_Constant_Field, not Renamed_Field")
		}
	}
	if !found {
		t.Fatal("expected a Renamed_Constant_Field problem")
	}
}

func TestDetectRenamedFieldMatchesAcrossVersionsByTypeName(t *testing.T) {
	v1 := model.NewBundle()
	v2 := model.NewBundle()

	c1 := classType(v1, "com.example.Widget", model.KindClass)
	addCtor(v1, c1)
	c2 := classType(v2, "com.example.Widget", model.KindClass)
	addCtor(v2, c2)

	// Intern java.lang.Object first in v2 only, so "java.lang.String" lands
	// on a different numeric intern.ID in each bundle's table. A rename
	// match that compared ids directly would miss this case.
	v2.InternType("java.lang.Object", model.KindClass)
	strID1 := v1.InternType("java.lang.String", model.KindClass)
	strID2 := v2.InternType("java.lang.String", model.KindClass)
	if strID1 == strID2 {
		t.Fatal("test setup requires the two versions to assign different ids to java.lang.String")
	}

	c1.AddField(&model.Field{Name: "oldName", Type: strID1, Access: model.AccessPublic})
	c2.AddField(&model.Field{Name: "newName", Type: strID2, Access: model.AccessPublic})

	problems := NewDetector(v1, v2).Run()

	found := false
	for _, p := range problems.All() {
		if p.Kind == RenamedField && p.Target == "oldName" && p.NewValue == "newName" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a Renamed_Field problem matched by type name across versions")
	}
}

func TestIsUncheckedRecognizesWhitelistAndHierarchy(t *testing.T) {
	b := model.NewBundle()
	custom := classType(b, "com.example.MyRuntimeException", model.KindClass)
	superID := b.InternType("java.lang.RuntimeException", model.KindClass)
	custom.SuperClass = superID
	custom.HasSuperClass = true

	if !isUnchecked(b, "java.lang.NullPointerException") {
		t.Error("expected whitelisted exception to be unchecked")
	}
	if !isUnchecked(b, "com.example.MyRuntimeException") {
		t.Error("expected RuntimeException subclass to be unchecked")
	}
	if isUnchecked(b, "java.io.IOException") {
		t.Error("expected checked exception to not be unchecked")
	}
}
