package templates

import (
	"fmt"
	"strings"

	"github.com/toyz/routegen/internal/models"
	"github.com/toyz/routegen/internal/resolver"
)

// EmitCollection renders bindings as a single collection literal whose
// element type is handlerType. Each element constructs its handler through
// the binding's zero-argument entry point and converts it to handlerType.
// Elements keep binding order; nothing is sorted or removed.
func EmitCollection(bindings models.BindingList, handlerType string) string {
	var b strings.Builder
	b.WriteString("[]")
	b.WriteString(handlerType)
	b.WriteString("{")

	if len(bindings) == 0 {
		b.WriteString("}")
		return b.String()
	}

	b.WriteString("\n")
	for _, binding := range bindings {
		b.WriteString("\t")
		b.WriteString(EmitElement(binding, handlerType))
		b.WriteString(",\n")
	}
	b.WriteString("}")
	return b.String()
}

// EmitElement renders one collection element: handlerType(M.H.New())
func EmitElement(binding models.Binding, handlerType string) string {
	return fmt.Sprintf("%s(%s.%s())", handlerType, binding.GoSelector(), resolver.ConstructorFunc)
}
