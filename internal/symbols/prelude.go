package symbols

import (
	"acsc/internal/types"
)

type preludeType uint8

const (
	retVoid preludeType = iota
	retInt
	retStr
)

// PreludeFunc describes one engine-provided function.
type PreludeFunc struct {
	Name     string
	Min, Max int
	Return   preludeType
	Impl     FuncImpl
}

// Prelude lists the built-in functions bound into the upmost region.
// Arity of format functions counts the format list or block as one argument.
func Prelude() []PreludeFunc {
	return []PreludeFunc{
		{Name: "Print", Min: 1, Max: 1, Impl: &FormatImpl{}},
		{Name: "PrintBold", Min: 1, Max: 1, Impl: &FormatImpl{}},
		{Name: "Log", Min: 1, Max: 1, Impl: &FormatImpl{}},
		{Name: "HudMessage", Min: 7, Max: 10, Impl: &FormatImpl{}},
		{Name: "StrParam", Min: 1, Max: 1, Return: retStr, Impl: &FormatImpl{}},

		{Name: "Delay", Min: 1, Max: 1, Impl: &DedicatedImpl{Latent: true}},
		{Name: "TagWait", Min: 1, Max: 1, Impl: &DedicatedImpl{Latent: true}},
		{Name: "PolyWait", Min: 1, Max: 1, Impl: &DedicatedImpl{Latent: true}},
		{Name: "Random", Min: 2, Max: 2, Return: retInt, Impl: &DedicatedImpl{}},
		{Name: "Timer", Min: 0, Max: 0, Return: retInt, Impl: &DedicatedImpl{}},

		{Name: "Polyobj_StartLine", Min: 3, Max: 4, Impl: &AspecImpl{ID: 1}},
		{Name: "Door_Open", Min: 2, Max: 3, Return: retInt, Impl: &AspecImpl{ID: 10, ScriptCallable: true}},
		{Name: "Floor_LowerByValue", Min: 3, Max: 3, Return: retInt, Impl: &AspecImpl{ID: 20, ScriptCallable: true}},
		{Name: "ACS_Execute", Min: 2, Max: 5, Return: retInt, Impl: &AspecImpl{ID: 80, ScriptCallable: true}},
		{Name: "Line_SetIdentification", Min: 1, Max: 5, Impl: &AspecImpl{ID: 121}},
		{Name: "Thing_Activate", Min: 1, Max: 1, Return: retInt, Impl: &AspecImpl{ID: 130, ScriptCallable: true}},
	}
}

func (t *Table) installPrelude() {
	b := t.Types.Builtins()
	for _, p := range Prelude() {
		var ret types.TypeID
		switch p.Return {
		case retInt:
			ret = b.Int
		case retStr:
			ret = b.Str
		}
		fn := &Func{
			Header: Header{
				Name:     t.Strings.InternFold(p.Name),
				Text:     t.Strings.Intern(p.Name),
				Resolved: true,
				Builtin:  true,
			},
			MinParam: p.Min,
			MaxParam: p.Max,
			Return:   ret,
			Impl:     p.Impl,
		}
		t.Upmost.Body.Bind(fn.Name, fn)
	}
}
