package codegen

import "fmt"

// Label stems are reserved with a sigil ('$') that user identifiers can
// never contain in this surface grammar, so a generated label can never
// collide with a label the user wrote (spec.md §9). If user-defined
// labels are ever supported, a collision here becomes a lowering-time
// rename, not a silent clash.

func breakLabel(stem int) string { return fmt.Sprintf("break$%d", stem) }

func continueLabel(stem int) string { return fmt.Sprintf("continue$%d", stem) }

func caseLabel(stem, index int) string { return fmt.Sprintf("case%d$%d", index, stem) }

func defaultCaseLabel(stem int) string { return fmt.Sprintf("case_default$%d", stem) }
