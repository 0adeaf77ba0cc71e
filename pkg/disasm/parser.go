package disasm

import (
	"bufio"
	"io"
	"strings"

	"github.com/platinummonkey/japicc/pkg/intern"
	"github.com/platinummonkey/japicc/pkg/model"
)

// Parser turns the textual disassembly of one or more class files into a
// model.Bundle. A Parser is single-use: create one per archive with New and
// call Parse once.
type Parser struct {
	bundle  *model.Bundle
	archive string

	state state

	currentPackage string
	currentType    *model.Type
	currentMethod  *model.Method

	// annotationScope is "class" or "method", tracking where an
	// in-progress annotations block should be attached.
	annotationScope string

	// nextParamSlot tracks which declared parameter the next
	// LocalVariableTable entry (after skipping "this") should name.
	nextParamSlot int

	lineNo int
}

// New returns a Parser that will populate bundle with symbols attributed to
// the given archive (source archive filename).
func New(bundle *model.Bundle, archive string) *Parser {
	return &Parser{bundle: bundle, archive: archive, state: stateTop}
}

// Parse scans r line by line, populating the Parser's Bundle. It returns an
// *InternalError if the stream violates a structural assumption (e.g. a
// method signature with no following descriptor line).
func (p *Parser) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var pendingMethodLine string
	for scanner.Scan() {
		p.lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if pendingMethodLine != "" {
			if err := p.finishMethodLine(pendingMethodLine, line); err != nil {
				return err
			}
			pendingMethodLine = ""
			continue
		}

		switch p.state {
		case stateTop, stateInType:
			if p.handleTypeOrMemberLine(trimmed) {
				continue
			}
			if methodLineRe.MatchString(trimmed) {
				pendingMethodLine = trimmed
				continue
			}
		case stateInMethod, stateInCode:
			if p.handleMethodBodyLine(line, trimmed) {
				continue
			}
		case stateInParamTable:
			if p.handleParamTableLine(trimmed) {
				continue
			}
		case stateInAnnotations:
			if p.handleAnnotationLine(trimmed) {
				continue
			}
		}

		if strings.HasPrefix(trimmed, "}") {
			p.closeBlock()
		}
	}
	if pendingMethodLine != "" {
		return newInternalError(p.lineNo, "method signature line not followed by descriptor: "+pendingMethodLine)
	}
	p.flushType()
	return scanner.Err()
}

// handleTypeOrMemberLine recognizes type lines, field lines, Deprecated, and
// annotation-block openings while at Top/InType scope. It returns true if
// the line was consumed.
func (p *Parser) handleTypeOrMemberLine(trimmed string) bool {
	if m := typeLineRe.FindStringSubmatch(trimmed); m != nil {
		p.flushType()
		p.openType(m)
		return true
	}
	if p.currentType == nil {
		return false
	}
	if annotationsHeaderRe.MatchString(trimmed) {
		p.annotationScope = "class"
		p.state = stateInAnnotations
		return true
	}
	if deprecatedLineRe.MatchString(trimmed) {
		p.currentType.Deprecated = true
		return true
	}
	if m := fieldLineRe.FindStringSubmatch(trimmed); m != nil {
		p.addField(m)
		return true
	}
	if m := constantValueLineRe.FindStringSubmatch(trimmed); m != nil {
		p.applyConstantValue(m)
		return true
	}
	if m := signatureLineRe.FindStringSubmatch(trimmed); m != nil {
		_ = stripGenerics(m[1])
		return true
	}
	return false
}

// finishMethodLine is called on the line immediately following a matched
// method signature; that line must carry the descriptor.
func (p *Parser) finishMethodLine(methodLine, descriptorLine string) error {
	dtrim := strings.TrimSpace(descriptorLine)
	dm := descriptorLineRe.FindStringSubmatch(dtrim)
	if dm == nil {
		dm = signatureLineRe.FindStringSubmatch(dtrim)
	}
	if dm == nil {
		return newInternalError(p.lineNo, "expected descriptor/Signature line after method: "+methodLine)
	}
	p.openMethod(methodLine, dm[1])
	return nil
}

func (p *Parser) handleMethodBodyLine(line, trimmed string) bool {
	if codeHeaderRe.MatchString(trimmed) {
		p.state = stateInCode
		return true
	}
	if localVarTableHeaderRe.MatchString(trimmed) {
		p.nextParamSlot = 0
		p.state = stateInParamTable
		return true
	}
	if annotationsHeaderRe.MatchString(trimmed) {
		p.annotationScope = "method"
		p.state = stateInAnnotations
		return true
	}
	if deprecatedLineRe.MatchString(trimmed) {
		if p.currentMethod != nil {
			p.currentMethod.Deprecated = true
		}
		return true
	}
	if m := invokeCommentRe.FindStringSubmatch(line); m != nil {
		p.recordInvoke(m)
		return true
	}
	if strings.HasPrefix(trimmed, "}") {
		p.closeMethod()
		return true
	}
	return p.state == stateInCode
}

func (p *Parser) handleParamTableLine(trimmed string) bool {
	m := localVarEntryRe.FindStringSubmatch(trimmed)
	if m == nil {
		p.state = stateInMethod
		return false
	}
	paramType, paramName := m[1], m[2]
	if paramName == "this" {
		return true
	}
	p.assignNextParamName(paramType, paramName)
	return true
}

func (p *Parser) handleAnnotationLine(trimmed string) bool {
	if m := annotationEntryRe.FindStringSubmatch(trimmed); m != nil {
		id := p.bundle.InternType(m[1], model.KindClass)
		p.addAnnotation(id)
		return true
	}
	if strings.HasPrefix(trimmed, "}") || (trimmed != "" && !strings.HasPrefix(trimmed, "0:") && annotationEntryRe.FindStringSubmatch(trimmed) == nil) {
		if p.annotationScope == "method" {
			p.state = stateInMethod
		} else {
			p.state = stateInType
		}
		return false
	}
	return true
}

func (p *Parser) addAnnotation(id intern.ID) {
	if p.annotationScope == "method" && p.currentMethod != nil {
		p.currentMethod.Annotations[id] = true
		return
	}
	if p.currentType != nil {
		p.currentType.Annotations[id] = true
	}
}

// openType registers a new Type from a matched type-line submatch and makes
// it the current type.
func (p *Parser) openType(m []string) {
	access, modifiers, kindWord, name := m[1], m[2], m[3], m[4]
	superName, ifaceList := m[5], m[6]

	kind := model.KindClass
	if kindWord == "interface" {
		kind = model.KindInterface
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		p.currentPackage = name[:idx]
	} else {
		p.currentPackage = ""
	}

	id := p.bundle.InternType(name, kind)
	t := p.bundle.TypeByID(id)
	t.Package = p.currentPackage
	t.Archive = p.archive
	t.Access = parseAccess(access)
	t.Abstract = strings.Contains(modifiers, "abstract")
	t.Final = strings.Contains(modifiers, "final")
	t.Static = strings.Contains(modifiers, "static")

	if superName != "" && superName != "java.lang.Object" {
		superID := p.bundle.InternType(superName, model.KindClass)
		t.SuperClass = superID
		t.HasSuperClass = true
	}
	if ifaceList != "" {
		for _, iface := range strings.Split(ifaceList, ",") {
			iface = strings.TrimSpace(iface)
			if iface == "" {
				continue
			}
			ifaceID := p.bundle.InternType(iface, model.KindInterface)
			t.SuperInterfaces[ifaceID] = true
		}
	}

	p.currentType = t
	p.state = stateInType
}

func parseAccess(word string) model.Access {
	switch word {
	case "public":
		return model.AccessPublic
	case "protected":
		return model.AccessProtected
	case "private":
		return model.AccessPrivate
	default:
		return model.AccessPackagePrivate
	}
}

func (p *Parser) addField(m []string) {
	if p.currentType == nil {
		return
	}
	access, modifiers, typeName, name := m[1], m[2], m[3], m[4]
	typeID := p.bundle.InternType(typeName, typeKindFor(typeName))

	f := &model.Field{
		Name:      name,
		Type:      typeID,
		Access:    parseAccess(access),
		Final:     strings.Contains(modifiers, "final"),
		Static:    strings.Contains(modifiers, "static"),
		Transient: strings.Contains(modifiers, "transient"),
		Volatile:  strings.Contains(modifiers, "volatile"),
	}
	p.currentType.AddField(f)
}

func typeKindFor(name string) model.Kind {
	base := strings.TrimRight(name, "[]")
	if base != name {
		return model.KindArray
	}
	if model.PrimitiveNames[base] {
		return model.KindPrimitive
	}
	return model.KindClass
}

func (p *Parser) applyConstantValue(m []string) {
	if p.currentType == nil || len(p.currentType.FieldOrder) == 0 {
		return
	}
	lastField := p.currentType.Fields[p.currentType.FieldOrder[len(p.currentType.FieldOrder)-1]]
	literal := strings.TrimSpace(m[2])
	if literal == `""` || literal == "" {
		lastField.Value = model.EmptyString
	} else {
		lastField.Value = literal
	}
}

func (p *Parser) openMethod(methodLine, descriptor string) {
	if p.currentType == nil {
		return
	}
	mm := methodLineRe.FindStringSubmatch(methodLine)
	if mm == nil {
		return
	}
	access, modifiers, retType, name, params, throwsList := mm[1], mm[2], mm[3], mm[4], mm[5], mm[6]

	shortClassName := p.currentType.Name
	if idx := strings.LastIndex(shortClassName, "."); idx >= 0 {
		shortClassName = shortClassName[idx+1:]
	}

	classID, _ := p.bundle.Names.Lookup(p.currentType.Name)
	method := model.NewMethod(name, classID, descriptor)
	method.Access = parseAccess(access)
	method.Abstract = strings.Contains(modifiers, "abstract")
	method.Final = strings.Contains(modifiers, "final")
	method.Static = strings.Contains(modifiers, "static")
	method.Native = strings.Contains(modifiers, "native")
	method.Synchronized = strings.Contains(modifiers, "synchronized")
	method.Archive = p.archive
	method.Constructor = name == shortClassName

	if !method.Constructor && retType != "void" {
		retID := p.bundle.InternType(stripGenerics(retType), typeKindFor(retType))
		method.Return = retID
		method.HasReturn = true
	} else if !method.Constructor && retType == "void" {
		method.HasReturn = false
	}

	for _, param := range splitParams(params) {
		if param == "" {
			continue
		}
		pid := p.bundle.InternType(stripGenerics(param), typeKindFor(param))
		method.Parameters = append(method.Parameters, model.Parameter{Type: pid})
	}
	for _, exc := range strings.Split(throwsList, ",") {
		exc = strings.TrimSpace(exc)
		if exc == "" {
			continue
		}
		excID := p.bundle.InternType(exc, model.KindClass)
		method.Exceptions[excID] = true
	}

	canonicalID := model.CanonicalID(p.currentType.Name, name, descriptor)
	p.bundle.Methods[canonicalID] = method
	p.currentMethod = method
	p.nextParamSlot = 0
	p.state = stateInMethod
}

func splitParams(params string) []string {
	if strings.TrimSpace(params) == "" {
		return nil
	}
	parts := strings.Split(params, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func (p *Parser) assignNextParamName(_, name string) {
	if p.currentMethod == nil {
		return
	}
	if p.nextParamSlot < len(p.currentMethod.Parameters) {
		p.currentMethod.Parameters[p.nextParamSlot].Name = name
		p.nextParamSlot++
	}
}

// recordInvoke handles a matched //Method or //InterfaceMethod comment,
// populating InvokedBy and, when the target class differs from the class
// being parsed, AddedInvokedByClass. Whether the target class declares the
// invoked method is not checked.
func (p *Parser) recordInvoke(m []string) {
	if p.currentMethod == nil || p.currentType == nil {
		return
	}
	targetClass, methodName, descriptor := m[2], m[3], m[4]
	if ignoredInvokeTargetRe.MatchString(targetClass) || methodName == "<init>" {
		return
	}
	callerID := model.CanonicalID(p.currentType.Name, p.currentMethod.ShortName, p.currentMethod.Descriptor)
	invokedDescriptor := targetClass + "." + methodName + ":" + descriptor
	p.bundle.RecordInvocation(invokedDescriptor, callerID)

	if targetClass != strings.ReplaceAll(p.currentType.Name, ".", "/") {
		p.bundle.RecordAddedInvocation(targetClass, methodName, callerID)
	}
}

func (p *Parser) closeMethod() {
	p.currentMethod = nil
	p.state = stateInType
}

func (p *Parser) closeBlock() {
	switch p.state {
	case stateInMethod, stateInCode:
		p.closeMethod()
	case stateInType:
		p.flushType()
		p.state = stateTop
	}
}

// flushType finalizes the in-progress type, if any; called when a new type
// line is seen or at end of stream.
func (p *Parser) flushType() {
	if p.currentType == nil {
		return
	}
	if isSynthetic(p.currentType.Name) {
		delete(p.bundle.Types, mustLookup(p.bundle, p.currentType.Name))
	}
	p.currentType = nil
	p.currentMethod = nil
}

func mustLookup(b *model.Bundle, name string) intern.ID {
	id, _ := b.Names.Lookup(name)
	return id
}
