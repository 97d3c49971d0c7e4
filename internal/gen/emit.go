package gen

import (
	"bytes"
	"fmt"

	"crepr-generator/internal/plan"
)

// callFunc renders the conversion of one field as the init statement of
// "if <call>; err != nil". src is the native value (input.F or *input.F)
// in the forward direction.
type callFunc func(f *plan.FieldPlan, rt, src string) string

// emitTable maps every (direction, strategy) pair to its conversion call.
// Nullable strategies are wrapped in a nil check by emitField.
var emitTable = map[plan.Direction]map[plan.ConversionStrategy]callFunc{
	plan.Forward: {
		plan.StrategyString:          forwardString,
		plan.StrategyNullableString:  forwardString,
		plan.StrategyConvert:         forwardConvert,
		plan.StrategyNullableConvert: forwardConvert,
	},
	plan.Reverse: {
		plan.StrategyString: func(f *plan.FieldPlan, rt, _ string) string {
			return fmt.Sprintf("err = %s.GoString(&out.%s, c.%s)", rt, f.Name, f.Name)
		},
		plan.StrategyNullableString: func(f *plan.FieldPlan, rt, _ string) string {
			return fmt.Sprintf("err = %s.GoStringPtr(&out.%s, c.%s)", rt, f.Name, f.Name)
		},
		plan.StrategyConvert: func(f *plan.FieldPlan, rt, _ string) string {
			arg := "c." + f.Name
			if f.Class == plan.ClassValue {
				arg = "&c." + f.Name
			}

			return fmt.Sprintf("err = %s.NativeOf(&out.%s, %s)", rt, f.Name, arg)
		},
		plan.StrategyNullableConvert: func(f *plan.FieldPlan, rt, _ string) string {
			return fmt.Sprintf("err = %s.NativeOfPtr(&out.%s, c.%s)", rt, f.Name, f.Name)
		},
	},
}

func forwardString(f *plan.FieldPlan, rt, src string) string {
	return fmt.Sprintf("out.%s, err = %s.CString[%s](%s)", f.Name, rt, f.Elem, src)
}

func forwardConvert(f *plan.FieldPlan, rt, src string) string {
	helper := "ValueOf"
	if f.Class == plan.ClassOpaquePointer {
		helper = "PointerTo"
	}

	return fmt.Sprintf("out.%s, err = %s.%s[%s](%s)", f.Name, rt, helper, f.Elem, src)
}

// method describes the parts of a generated method that depend on the
// direction.
type method struct {
	dir plan.Direction
	p   *plan.StructPlan
	rt  string
}

// source is the variable holding the value being converted.
func (m *method) source() string {
	if m.dir == plan.Forward {
		return "input"
	}

	return "c"
}

func (m *method) signature() string {
	if m.dir == plan.Forward {
		return fmt.Sprintf("func (c *%s) CReprOf(input %s) error", m.p.Receiver(), m.p.Target)
	}

	return fmt.Sprintf("func (c *%s) AsNative() (%s, error)", m.p.Receiver(), m.p.Target)
}

func (m *method) doc() string {
	if m.dir == plan.Forward {
		return fmt.Sprintf("// CReprOf fills c from a native %s.\n// c is left unchanged if any field fails to convert.\n", m.p.Target)
	}

	return fmt.Sprintf("// AsNative converts c to a native %s.\n", m.p.Target)
}

// fail is the return statement for a failed field conversion.
func (m *method) fail(field string) string {
	wrapped := fmt.Sprintf("%s.FieldError(%q, err)", m.rt, field)
	if m.dir == plan.Forward {
		return "return " + wrapped
	}

	return fmt.Sprintf("return %s{}, %s", m.p.Target, wrapped)
}

// render writes the complete method.
func (m *method) render(comments bool) string {
	var buf bytes.Buffer

	if comments {
		buf.WriteString(m.doc())
	}

	fmt.Fprintf(&buf, "%s {\n", m.signature())

	if len(m.p.Fields) == 0 {
		if m.dir == plan.Forward {
			fmt.Fprintf(&buf, "\t*c = %s{}\n\n\treturn nil\n}", m.p.Receiver())
		} else {
			fmt.Fprintf(&buf, "\treturn %s{}, nil\n}", m.p.Target)
		}

		return buf.String()
	}

	if m.dir == plan.Forward {
		fmt.Fprintf(&buf, "\tvar out %s\n", m.p.Receiver())
	} else {
		fmt.Fprintf(&buf, "\tvar out %s\n", m.p.Target)
	}

	buf.WriteString("\tvar err error\n")

	for i := range m.p.Fields {
		buf.WriteString("\n")
		m.emitField(&buf, &m.p.Fields[i])
	}

	if m.dir == plan.Forward {
		buf.WriteString("\n\t*c = out\n\n\treturn nil\n}")
	} else {
		buf.WriteString("\n\treturn out, nil\n}")
	}

	return buf.String()
}

// emitField writes the statement converting one field.
func (m *method) emitField(buf *bytes.Buffer, f *plan.FieldPlan) {
	call := emitTable[m.dir][f.Strategy]
	subject := m.source() + "." + f.Name

	if !f.Strategy.Nullable() {
		fmt.Fprintf(buf, "\tif %s; err != nil {\n\t\t%s\n\t}\n", call(f, m.rt, subject), m.fail(f.Name))
		return
	}

	fmt.Fprintf(buf, "\tif %s != nil {\n", subject)
	fmt.Fprintf(buf, "\t\tif %s; err != nil {\n\t\t\t%s\n\t\t}\n", call(f, m.rt, "*"+subject), m.fail(f.Name))
	fmt.Fprintf(buf, "\t} else {\n\t\tout.%s = nil\n\t}\n", f.Name)
}
