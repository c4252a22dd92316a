package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kilianp07/rcpsp/core/milp"
)

// termsPerLine keeps LP rows well under the 255 character limit of the format.
const termsPerLine = 6

// WriteLP writes m in CPLEX LP format. Two-sided rows with distinct bounds
// are split into a _lo and a _hi row.
//
//gocyclo:ignore
func WriteLP(w io.Writer, m *milp.Model) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(bw, format, args...) }

	p("\\ Problem: %s\n", m.Name)
	if m.Sense == milp.Maximize {
		p("Maximize\n")
	} else {
		p("Minimize\n")
	}
	var obj []milp.Term
	for i, v := range m.Vars {
		if v.Obj != 0 {
			obj = append(obj, milp.Term{Var: milp.VarID(i), Coef: v.Obj})
		}
	}
	if len(obj) == 0 && len(m.Vars) > 0 {
		obj = []milp.Term{{Var: 0, Coef: 0}}
	}
	p(" obj:%s\n", expr(m, obj))

	p("Subject To\n")
	for _, c := range m.Constraints {
		lhs := expr(m, c.Terms)
		if len(c.Terms) == 0 {
			continue
		}
		lo, hi := !math.IsInf(c.Lower, -1), !math.IsInf(c.Upper, 1)
		switch {
		case lo && hi && c.Lower == c.Upper:
			p(" %s:%s = %s\n", c.Name, lhs, num(c.Upper))
		case lo && hi:
			p(" %s_lo:%s >= %s\n", c.Name, lhs, num(c.Lower))
			p(" %s_hi:%s <= %s\n", c.Name, lhs, num(c.Upper))
		case lo:
			p(" %s:%s >= %s\n", c.Name, lhs, num(c.Lower))
		case hi:
			p(" %s:%s <= %s\n", c.Name, lhs, num(c.Upper))
		}
	}

	p("Bounds\n")
	var general, binary []string
	for _, v := range m.Vars {
		switch v.Kind {
		case milp.Binary:
			binary = append(binary, v.Name)
			continue
		case milp.Integer:
			general = append(general, v.Name)
		}
		lo, hi := !math.IsInf(v.Lower, -1), !math.IsInf(v.Upper, 1)
		switch {
		case !lo && !hi:
			p(" %s free\n", v.Name)
		case lo && hi:
			p(" %s <= %s <= %s\n", num(v.Lower), v.Name, num(v.Upper))
		case lo:
			p(" %s >= %s\n", v.Name, num(v.Lower))
		default:
			p(" -inf <= %s <= %s\n", v.Name, num(v.Upper))
		}
	}
	section(bw, "General", general)
	section(bw, "Binary", binary)
	p("End\n")
	return bw.Flush()
}

func section(w io.Writer, title string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", title)
	for i := 0; i < len(names); i += termsPerLine {
		end := min(i+termsPerLine, len(names))
		fmt.Fprintf(w, " %s\n", strings.Join(names[i:end], " "))
	}
}

func expr(m *milp.Model, terms []milp.Term) string {
	var b strings.Builder
	for i, t := range terms {
		if i > 0 && i%termsPerLine == 0 {
			b.WriteString("\n  ")
		}
		coef := t.Coef
		sign := "+"
		if coef < 0 {
			sign, coef = "-", -coef
		}
		b.WriteByte(' ')
		if i > 0 || sign == "-" {
			b.WriteString(sign)
			b.WriteByte(' ')
		}
		if coef != 1 {
			b.WriteString(num(coef))
			b.WriteByte(' ')
		}
		b.WriteString(m.Vars[t.Var].Name)
	}
	return b.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
