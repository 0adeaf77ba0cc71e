package dump

import "github.com/platinummonkey/japicc/pkg/model"

// FromBundle renders bundle into a self-contained Record for the given
// library/version label.
func FromBundle(bundle *model.Bundle, library, version string) *Record {
	rec := &Record{
		APIDumpVersion: APIDumpVersion,
		ToolVersion:    ToolVersion,
		Library:        library,
		Version:        version,
		Methods:        make(map[string]MethodInfo, len(bundle.Methods)),
		Types:          make(map[string]TypeInfo, len(bundle.Types)),
	}

	for id, t := range bundle.Types {
		rec.Types[bundle.Names.Name(id)] = typeInfoFrom(bundle, t)
	}
	for canonicalID, m := range bundle.Methods {
		rec.Methods[canonicalID] = methodInfoFrom(bundle, m)
	}
	return rec
}

func typeInfoFrom(b *model.Bundle, t *model.Type) TypeInfo {
	info := TypeInfo{
		Name:       t.Name,
		Kind:       t.Kind.String(),
		Package:    t.Package,
		Archive:    t.Archive,
		Access:     t.Access.String(),
		Abstract:   t.Abstract,
		Final:      t.Final,
		Static:     t.Static,
		Annotation: t.Annotation,
		Deprecated: t.Deprecated,
	}
	if t.HasSuperClass {
		info.SuperClass = b.Names.Name(t.SuperClass)
	}
	for id := range t.SuperInterfaces {
		info.SuperInterfaces = append(info.SuperInterfaces, b.Names.Name(id))
	}
	for _, f := range t.OrderedFields() {
		info.Fields = append(info.Fields, FieldInfo{
			Name: f.Name, Type: b.Names.Name(f.Type), Access: f.Access.String(),
			Final: f.Final, Static: f.Static, Transient: f.Transient, Volatile: f.Volatile,
			Position: f.Position, Value: f.Value, Mangled: f.Mangled,
		})
	}
	for id := range t.Annotations {
		info.Annotations = append(info.Annotations, b.Names.Name(id))
	}
	if t.HasBaseType {
		info.BaseType = b.Names.Name(t.BaseType)
	}
	return info
}

func methodInfoFrom(b *model.Bundle, m *model.Method) MethodInfo {
	info := MethodInfo{
		ShortName:    m.ShortName,
		Class:        b.Names.Name(m.Class),
		Descriptor:   m.Descriptor,
		HasReturn:    m.HasReturn,
		Access:       m.Access.String(),
		Abstract:     m.Abstract,
		Final:        m.Final,
		Static:       m.Static,
		Native:       m.Native,
		Synchronized: m.Synchronized,
		Constructor:  m.Constructor,
		Deprecated:   m.Deprecated,
		Archive:      m.Archive,
	}
	if m.HasReturn {
		info.Return = b.Names.Name(m.Return)
	}
	for _, p := range m.Parameters {
		info.Parameters = append(info.Parameters, ParameterInfo{Type: b.Names.Name(p.Type), Name: p.Name})
	}
	for id := range m.Exceptions {
		info.Exceptions = append(info.Exceptions, b.Names.Name(id))
	}
	for id := range m.Annotations {
		info.Annotations = append(info.Annotations, b.Names.Name(id))
	}
	return info
}

// ToBundle rehydrates rec into a fresh model.Bundle, re-interning every
// name; the resulting IDs are in general different from the ones the
// original bundle used, which is fine since identity across bundles is
// always by name.
func ToBundle(rec *Record) *model.Bundle {
	b := model.NewBundle()

	kindOf := func(s string) model.Kind {
		switch s {
		case "interface":
			return model.KindInterface
		case "primitive":
			return model.KindPrimitive
		case "array":
			return model.KindArray
		default:
			return model.KindClass
		}
	}
	accessOf := func(s string) model.Access {
		switch s {
		case "protected":
			return model.AccessProtected
		case "private":
			return model.AccessPrivate
		case "package-private":
			return model.AccessPackagePrivate
		default:
			return model.AccessPublic
		}
	}

	for name, info := range rec.Types {
		id := b.InternType(name, kindOf(info.Kind))
		t := b.TypeByID(id)
		t.Package = info.Package
		t.Archive = info.Archive
		t.Access = accessOf(info.Access)
		t.Abstract, t.Final, t.Static = info.Abstract, info.Final, info.Static
		t.Annotation, t.Deprecated = info.Annotation, info.Deprecated
		if info.SuperClass != "" {
			t.SuperClass = b.InternType(info.SuperClass, model.KindClass)
			t.HasSuperClass = true
		}
		for _, iface := range info.SuperInterfaces {
			t.SuperInterfaces[b.InternType(iface, model.KindInterface)] = true
		}
		for _, fi := range info.Fields {
			f := &model.Field{
				Name: fi.Name, Type: b.InternType(fi.Type, model.KindClass), Access: accessOf(fi.Access),
				Final: fi.Final, Static: fi.Static, Transient: fi.Transient, Volatile: fi.Volatile,
				Value: fi.Value, Mangled: fi.Mangled,
			}
			t.AddField(f)
		}
		for _, a := range info.Annotations {
			t.Annotations[b.InternType(a, model.KindClass)] = true
		}
		if info.BaseType != "" {
			t.BaseType = b.InternType(info.BaseType, model.KindClass)
			t.HasBaseType = true
		}
	}

	for canonicalID, info := range rec.Methods {
		classID := b.InternType(info.Class, model.KindClass)
		m := model.NewMethod(info.ShortName, classID, info.Descriptor)
		m.HasReturn = info.HasReturn
		if info.HasReturn {
			m.Return = b.InternType(info.Return, model.KindClass)
		}
		m.Access = accessOf(info.Access)
		m.Abstract, m.Final, m.Static = info.Abstract, info.Final, info.Static
		m.Native, m.Synchronized, m.Constructor, m.Deprecated = info.Native, info.Synchronized, info.Constructor, info.Deprecated
		m.Archive = info.Archive
		for _, p := range info.Parameters {
			m.Parameters = append(m.Parameters, model.Parameter{Type: b.InternType(p.Type, model.KindClass), Name: p.Name})
		}
		for _, e := range info.Exceptions {
			m.Exceptions[b.InternType(e, model.KindClass)] = true
		}
		for _, a := range info.Annotations {
			m.Annotations[b.InternType(a, model.KindClass)] = true
		}
		b.Methods[canonicalID] = m
	}

	return b
}
