package msgtemplate

// Params binds variable names to the values substituted at compile time.
type Params map[string]string

// Merge combines binding maps; later maps win.
func Merge(ps ...Params) Params {
	p := Params{}
	for _, x := range ps {
		for k, v := range x {
			p[k] = v
		}
	}

	return p
}

// P builds a single-entry binding map.
func P(k, v string) Params {
	return Params{k: v}
}

func (p Params) get(name string) string {
	return p[name]
}
