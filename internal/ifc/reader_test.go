package ifc

import (
	"strings"
	"testing"
)

func loadSample(t *testing.T) *Model {
	t.Helper()
	m, err := Open("testdata/sample.ifc")
	if err != nil {
		t.Fatalf("open sample: %v", err)
	}
	return m
}

func TestParseSample(t *testing.T) {
	m := loadSample(t)
	if m.Schema != "IFC2X3" {
		t.Fatalf("schema = %q", m.Schema)
	}
	if m.Len() != 46 {
		t.Fatalf("expected 46 instances, got %d", m.Len())
	}

	door, ok := m.Entity(20)
	if !ok {
		t.Fatalf("missing #20")
	}
	if door.Type != "IFCDOOR" {
		t.Fatalf("type = %q", door.Type)
	}
	if door.Str(2) != "Puerta 1 hoja" || door.Str(7) != "PA001" {
		t.Fatalf("unexpected door attributes: %q %q", door.Str(2), door.Str(7))
	}
	if got := door.Arg(8); got.Kind != KindReal || got.Real != 2.1 {
		t.Fatalf("height = %+v", got)
	}
	if got := door.Arg(99); got.Kind != KindNull {
		t.Fatalf("out of range arg should be null, got %+v", got)
	}
	if refs := door.Refs(5); len(refs) != 1 || refs[0] != 10 {
		t.Fatalf("placement refs = %v", refs)
	}
}

func TestParseTypedAndListValues(t *testing.T) {
	src := `ISO-10303-21;
HEADER;
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCPROPERTYSINGLEVALUE('Ancho',$,IFCLENGTHMEASURE(-1.5E-2),$);
#2=IFCPROPERTYLISTVALUE('Capas',$,(IFCLABEL('A'),IFCLABEL('B')),$);
#3=IFCPROPERTYENUMERATEDVALUE('Estado',$,(IFCLABEL('NEW')),$);
#4=IFCPROPERTYSINGLEVALUE('Unidades',$,IFCINTEGER(12),$);
#5=IFCPROPERTYSINGLEVALUE('Binario',$,"0AF",*);
#6=(IFCA() IFCB());
ENDSEC;
END-ISO-10303-21;
`
	m, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Schema != "IFC4" {
		t.Fatalf("schema = %q", m.Schema)
	}
	if m.Len() != 5 {
		t.Fatalf("complex instance should be skipped, got %d instances", m.Len())
	}

	e, _ := m.Entity(1)
	v := e.Arg(2)
	if v.Kind != KindTyped || v.Str != "IFCLENGTHMEASURE" || v.Inner.Kind != KindReal || v.Inner.Real != -0.015 {
		t.Fatalf("typed value = %+v", v)
	}

	e, _ = m.Entity(2)
	if got := FormatValue(Native(e.Arg(2))); got != "A, B" {
		t.Fatalf("list value = %q", got)
	}
	e, _ = m.Entity(4)
	if got := Native(e.Arg(2)); got != int64(12) {
		t.Fatalf("integer value = %#v", got)
	}
	e, _ = m.Entity(5)
	if e.Arg(2).Kind != KindBinary || e.Arg(3).Kind != KindDerived {
		t.Fatalf("unexpected kinds %v %v", e.Arg(2).Kind, e.Arg(3).Kind)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"not step":      "hello world",
		"unterminated":  "ISO-10303-21;\nDATA;\n#1=IFCWALL('abc);\nENDSEC;\n",
		"duplicate id":  "ISO-10303-21;\nDATA;\n#1=IFCA();\n#1=IFCB();\nENDSEC;\n",
		"missing equal": "ISO-10303-21;\nDATA;\n#1 IFCA();\nENDSEC;\n",
		"open comment":  "ISO-10303-21;\n/* never closed\nDATA;\n",
		"bad token":     "ISO-10303-21;\nDATA;\n#1=IFCA(@);\nENDSEC;\n",
	}
	for name, src := range cases {
		if _, err := Parse(strings.NewReader(src)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestParseReportsLine(t *testing.T) {
	src := "ISO-10303-21;\nDATA;\n#1=IFCA();\n#2=IFCB(,);\nENDSEC;\n"
	_, err := Parse(strings.NewReader(src))
	if err == nil || !strings.Contains(err.Error(), "line 4") {
		t.Fatalf("expected error on line 4, got %v", err)
	}
}

func TestDecodeString(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`Garc\X\EDa`, "García"},
		{`Tubo a 90\X2\00B0\X0\`, "Tubo a 90°"},
		{`\X2\00C100D1\X0\O`, "ÁÑO"},
		{`\X4\0001F600\X0\`, "😀"},
		{`\S\a`, "á"},
		{`\PA\Texto`, "Texto"},
		{`C:\\ruta`, `C:\ruta`},
		{`sin \X2\cierre`, `sin \X2\cierre`},
		{"latin\xe9", "latiné"},
	}
	for _, tc := range cases {
		if got := decodeString(tc.in); got != tc.want {
			t.Fatalf("decodeString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLexerDoubledQuote(t *testing.T) {
	m := loadSample(t)
	e, _ := m.Entity(52)
	if got := FormatValue(Native(e.Arg(2))); got != "It's load-bearing" {
		t.Fatalf("got %q", got)
	}
}
