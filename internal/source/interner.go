package source

import (
	"golang.org/x/text/cases"
)

type StringID uint32

const NoStringID StringID = 0

// Interner maps strings to compact IDs. Identifiers of the language are
// case-insensitive, so names are interned through InternFold.
type Interner struct {
	byID  []string            // индекс -> строка (byID[0] = "" для NoStringID)
	index map[string]StringID // строка -> ID
	fold  cases.Caser
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
		fold:  cases.Fold(),
	}
}

// Intern вставляет строку и возвращает её ID.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	cpy := string([]byte(s))
	id := StringID(len(i.byID)) // #nosec G115 -- interner never exceeds uint32
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternFold interns the case-folded form of s, so that `Delay`, `delay`
// and `DELAY` share one ID.
func (i *Interner) InternFold(s string) StringID {
	if id, ok := i.index[s]; ok && i.isFolded(id) {
		return id
	}
	return i.Intern(i.Fold(s))
}

// Fold returns the case-folded form of s.
func (i *Interner) Fold(s string) string {
	return i.fold.String(s)
}

func (i *Interner) isFolded(id StringID) bool {
	s := i.byID[id]
	return i.fold.String(s) == s
}

// Lookup возвращает строку по ID.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup возвращает строку по ID и паникует на невалидном ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Has проверяет, валиден ли ID.
func (i *Interner) Has(id StringID) bool {
	return int(id) < len(i.byID)
}

// Len возвращает количество строк, включая NoStringID.
func (i *Interner) Len() int {
	return len(i.byID)
}
