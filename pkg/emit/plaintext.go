package emit

import (
	"github.com/floke75/soniox-converter/pkg/ir"
	"github.com/floke75/soniox-converter/pkg/kinetic"
)

// PlainText concatenates t's word texts with single spaces, honouring
// punctuation attachment (spec.md §6). It reuses [kinetic.PlainText]'s
// punctuation-merge pass rather than re-implementing it, since both
// need the identical "fold trailing punctuation onto the preceding
// word" transformation.
func PlainText(t *ir.Transcript) string {
	return kinetic.PlainText(t.Words)
}
