package ifc

import (
	"fmt"
	"strings"
)

type Model struct {
	Schema string

	entities  map[int]*Entity
	order     []int
	definedBy map[int][]int
	typedBy   map[int]int
}

type Property struct {
	Name  string
	Value any
}

type PropertySet struct {
	ID         int
	Name       string
	Properties []Property
}

func (ps PropertySet) Get(name string) (any, bool) {
	for _, p := range ps.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Rooted objects that carry placement-like attributes but are not products.
var nonProductTypes = map[string]struct{}{
	"IFCPROJECT": {}, "IFCPROJECTLIBRARY": {},
	"IFCTASK": {}, "IFCPROCEDURE": {}, "IFCEVENT": {},
	"IFCACTOR": {}, "IFCOCCUPANT": {},
	"IFCGROUP": {}, "IFCSYSTEM": {}, "IFCZONE": {}, "IFCASSET": {}, "IFCINVENTORY": {},
	"IFCDISTRIBUTIONSYSTEM": {}, "IFCDISTRIBUTIONCIRCUIT": {}, "IFCELECTRICALCIRCUIT": {},
	"IFCBUILDINGSYSTEM": {}, "IFCBUILTSYSTEM": {},
	"IFCSTRUCTURALANALYSISMODEL": {}, "IFCSTRUCTURALLOADGROUP": {}, "IFCSTRUCTURALLOADCASE": {}, "IFCSTRUCTURALRESULTGROUP": {},
	"IFCCOSTITEM": {}, "IFCCOSTSCHEDULE": {}, "IFCWORKPLAN": {}, "IFCWORKSCHEDULE": {}, "IFCWORKCALENDAR": {},
	"IFCPERMIT": {}, "IFCACTIONREQUEST": {}, "IFCPROJECTORDER": {}, "IFCPERFORMANCEHISTORY": {},
	"IFCSCHEDULETIMECONTROL": {}, "IFCSERVICELIFE": {}, "IFCCONDITION": {}, "IFCCONDITIONCRITERION": {},
	"IFCCREWRESOURCE": {}, "IFCLABORRESOURCE": {}, "IFCSUBCONTRACTRESOURCE": {},
	"IFCCONSTRUCTIONEQUIPMENTRESOURCE": {}, "IFCCONSTRUCTIONMATERIALRESOURCE": {}, "IFCCONSTRUCTIONPRODUCTRESOURCE": {},
	"IFCPROPERTYSET": {}, "IFCELEMENTQUANTITY": {},
}

func newModel() *Model {
	return &Model{
		entities:  map[int]*Entity{},
		definedBy: map[int][]int{},
		typedBy:   map[int]int{},
	}
}

func (m *Model) add(e *Entity) {
	m.entities[e.ID] = e
	m.order = append(m.order, e.ID)
}

func (m *Model) buildRelations() {
	for _, id := range m.order {
		e := m.entities[id]
		switch e.Type {
		case "IFCRELDEFINESBYPROPERTIES":
			defs := e.Refs(5)
			for _, obj := range e.Refs(4) {
				m.definedBy[obj] = append(m.definedBy[obj], defs...)
			}
		case "IFCRELDEFINESBYTYPE":
			typ := e.Refs(5)
			if len(typ) == 0 {
				continue
			}
			for _, obj := range e.Refs(4) {
				if _, ok := m.typedBy[obj]; !ok {
					m.typedBy[obj] = typ[0]
				}
			}
		}
	}
}

func (m *Model) Len() int { return len(m.order) }

func (m *Model) Entity(id int) (*Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// ByType returns the instances of exactly the given entity type, in file
// order. The name is matched case-insensitively.
func (m *Model) ByType(name string) []*Entity {
	name = strings.ToUpper(name)
	out := []*Entity{}
	for _, id := range m.order {
		if e := m.entities[id]; e.Type == name {
			out = append(out, e)
		}
	}
	return out
}

// Products returns the physical and spatial objects of the model, in file
// order: rooted instances with an object placement and product
// representation slot that are not relationships, type objects, property
// definitions or known non-product objects.
func (m *Model) Products() []*Entity {
	out := []*Entity{}
	for _, id := range m.order {
		if e := m.entities[id]; m.isProduct(e) {
			out = append(out, e)
		}
	}
	return out
}

func (m *Model) isProduct(e *Entity) bool {
	t := e.Type
	if !strings.HasPrefix(t, "IFC") || strings.HasPrefix(t, "IFCREL") {
		return false
	}
	for _, suffix := range []string{"TYPE", "STYLE", "PROPERTIES", "TEMPLATE"} {
		if strings.HasSuffix(t, suffix) {
			return false
		}
	}
	if _, skip := nonProductTypes[t]; skip {
		return false
	}
	if len(e.Args) < 7 || !isGlobalID(e.Args[0]) {
		return false
	}
	return m.refOrNull(e.Args[5], "PLACEMENT") && m.refOrNull(e.Args[6], "REPRESENTATION", "SHAPE")
}

func (m *Model) refOrNull(v Value, markers ...string) bool {
	switch v.Kind {
	case KindNull:
		return true
	case KindRef:
		target, ok := m.entities[v.Ref]
		if !ok {
			return true
		}
		for _, marker := range markers {
			if strings.Contains(target.Type, marker) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func isGlobalID(v Value) bool {
	return v.Kind == KindString && len(v.Str) == 22
}

// TypeOf returns the type object assigned to obj through
// IfcRelDefinesByType.
func (m *Model) TypeOf(obj *Entity) (*Entity, bool) {
	id, ok := m.typedBy[obj.ID]
	if !ok {
		return nil, false
	}
	typ, ok := m.entities[id]
	return typ, ok
}

// PropertySets returns the property and quantity sets of obj: those of its
// type object first, then its own, an occurrence set replacing a type set
// of the same name.
func (m *Model) PropertySets(obj *Entity) ([]PropertySet, error) {
	var out []PropertySet
	put := func(ps PropertySet) {
		for i := range out {
			if out[i].Name == ps.Name {
				out[i] = ps
				return
			}
		}
		out = append(out, ps)
	}

	if typ, ok := m.TypeOf(obj); ok {
		for _, id := range typ.Refs(5) {
			ps, ok, err := m.propertyDefinition(id)
			if err != nil {
				return nil, fmt.Errorf("type #%d: %w", typ.ID, err)
			}
			if ok {
				put(ps)
			}
		}
	}
	for _, id := range m.definedBy[obj.ID] {
		ps, ok, err := m.propertyDefinition(id)
		if err != nil {
			return nil, fmt.Errorf("#%d: %w", obj.ID, err)
		}
		if ok {
			put(ps)
		}
	}
	return out, nil
}

func (m *Model) propertyDefinition(id int) (PropertySet, bool, error) {
	def, ok := m.entities[id]
	if !ok {
		return PropertySet{}, false, fmt.Errorf("dangling reference #%d", id)
	}

	var members []int
	switch def.Type {
	case "IFCPROPERTYSET":
		members = def.Refs(4)
	case "IFCELEMENTQUANTITY":
		members = def.Refs(5)
	default:
		return PropertySet{}, false, nil
	}

	ps := PropertySet{ID: def.ID, Name: def.Str(2)}
	for _, pid := range members {
		prop, ok := m.entities[pid]
		if !ok {
			return PropertySet{}, false, fmt.Errorf("dangling reference #%d in %s", pid, ps.Name)
		}
		if p, ok := propertyOf(prop); ok {
			ps.Properties = append(ps.Properties, p)
		}
	}
	return ps, true, nil
}

func propertyOf(e *Entity) (Property, bool) {
	name := e.Str(0)
	switch e.Type {
	case "IFCPROPERTYSINGLEVALUE", "IFCPROPERTYENUMERATEDVALUE", "IFCPROPERTYLISTVALUE":
		return Property{Name: name, Value: Native(e.Arg(2))}, true
	case "IFCQUANTITYLENGTH", "IFCQUANTITYAREA", "IFCQUANTITYVOLUME", "IFCQUANTITYCOUNT",
		"IFCQUANTITYWEIGHT", "IFCQUANTITYTIME", "IFCQUANTITYNUMBER":
		return Property{Name: name, Value: Native(e.Arg(3))}, true
	default:
		return Property{}, false
	}
}
