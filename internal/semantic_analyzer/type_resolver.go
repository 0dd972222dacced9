package semantic_analyzer

import (
	"github.com/kievzenit/nagato/internal/ast"
	types "github.com/kievzenit/nagato/internal/hir/types"
)

type TypeResolver struct {
	builtinTypesMap map[string]types.Type
	arrayTypesMap   map[string]*types.ArrayType
}

func NewTypeResolver() *TypeResolver {
	tr := &TypeResolver{
		builtinTypesMap: make(map[string]types.Type),
		arrayTypesMap:   make(map[string]*types.ArrayType),
	}
	tr.defineBuiltInTypes()
	return tr
}

func (tr *TypeResolver) defineBuiltInTypes() {
	tr.builtinTypesMap["int"] = &types.IntType{
		Signed: true,
		Bits:   32,
	}
	tr.builtinTypesMap["float"] = &types.FloatType{
		Bits: 32,
	}
}

func (tr *TypeResolver) GetBuiltInType(name string) (types.Type, bool) {
	t, ok := tr.builtinTypesMap[name]
	return t, ok
}

// GetType resolves a source type; NoType has no static type and yields nil.
func (tr *TypeResolver) GetType(valueType ast.ValueType) types.Type {
	if valueType == ast.NoType {
		return nil
	}

	t, ok := tr.builtinTypesMap[valueType.String()]
	if !ok {
		panic("type not found: " + valueType.String())
	}
	return t
}

// ArrayOf returns one shared instance per item type and size.
func (tr *TypeResolver) ArrayOf(itemType types.Type, size int) *types.ArrayType {
	arrayType := &types.ArrayType{
		ItemType: itemType,
		Size:     size,
	}

	if t, ok := tr.arrayTypesMap[arrayType.Type()]; ok {
		return t
	}
	tr.arrayTypesMap[arrayType.Type()] = arrayType
	return arrayType
}

func (tr *TypeResolver) IntType() types.Type {
	return tr.builtinTypesMap["int"]
}

func (tr *TypeResolver) FloatType() types.Type {
	return tr.builtinTypesMap["float"]
}

// Signature spells a tuple of scalar types, one letter each.
func (tr *TypeResolver) Signature(argTypes []types.Type) string {
	sig := make([]byte, len(argTypes))
	for i, t := range argTypes {
		if t.SameAs(tr.FloatType()) {
			sig[i] = 'f'
		} else {
			sig[i] = 'i'
		}
	}
	return string(sig)
}
