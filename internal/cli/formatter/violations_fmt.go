package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/schedtrace/internal/checker"
	"github.com/alexanderramin/schedtrace/internal/domain"
)

var violationOrder = []domain.ViolationType{
	domain.ViolationPrecedence,
	domain.ViolationResource,
	domain.ViolationOverlap,
}

// FormatViolations groups findings by rule. A feasible schedule renders a
// single confirmation line.
func FormatViolations(violations []domain.ConstraintViolation) string {
	if len(violations) == 0 {
		return StyleGreen.Render("✔ No constraint violations") + "\n"
	}

	var b strings.Builder
	grouped := checker.ViolationsByType(violations)
	for _, typ := range violationOrder {
		group := grouped[typ]
		if len(group) == 0 {
			continue
		}
		style := ViolationStyle(typ)
		b.WriteString(style.Bold(true).Render(fmt.Sprintf("%s (%d)", strings.ToUpper(string(typ)), len(group))) + "\n")
		for _, v := range group {
			b.WriteString("  " + style.Render("✖ ") + v.Message + "\n")
		}
	}
	b.WriteString(Dim("Tasks involved: ") + joinIDs(checker.ImplicatedTasks(violations)) + "\n")
	return b.String()
}

// FormatUsage renders a resource profile as one column per time unit with
// over-capacity units in red.
func FormatUsage(r domain.Resource, usage []int) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Resource %s (capacity %d)", r.ID, r.Capacity)) + "\n")

	peak := r.Capacity
	for _, u := range usage {
		peak = max(peak, u)
	}
	for level := peak; level >= 1; level-- {
		label := fmt.Sprintf("%3d ", level)
		if level == r.Capacity {
			label = StyleHeader.Render(fmt.Sprintf("%3d▸", level))
		} else {
			label = Dim(label)
		}
		b.WriteString(label)
		for _, u := range usage {
			switch {
			case u < level:
				b.WriteString(" ")
			case level > r.Capacity:
				b.WriteString(StyleRed.Render(filledBlock))
			default:
				b.WriteString(StyleBlue.Render(filledBlock))
			}
		}
		b.WriteString("\n")
	}

	over := 0
	for _, u := range usage {
		if u > r.Capacity {
			over++
		}
	}
	if over > 0 {
		b.WriteString(StyleRed.Render(fmt.Sprintf("over capacity in %d time unit(s)", over)) + "\n")
	}
	return b.String()
}
