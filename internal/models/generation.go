package models

// GeneratedRegistry describes one emitted registry function
type GeneratedRegistry struct {
	FuncName   string      // name of the registry function
	Bindings   BindingList // bindings in emission order
	Expression string      // the emitted collection literal
}

// GeneratedFile represents a generated registry source file
type GeneratedFile struct {
	PackageName string              // name of the package
	FilePath    string              // path where the file should be written
	Content     string              // formatted Go source
	Registries  []GeneratedRegistry // registries in the file, in directive order
}

// RouteCount returns the total number of routes across all registries
func (f *GeneratedFile) RouteCount() int {
	n := 0
	for _, r := range f.Registries {
		n += len(r.Bindings)
	}
	return n
}
