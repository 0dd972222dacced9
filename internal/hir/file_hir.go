package hir

import (
	types "github.com/kievzenit/nagato/internal/hir/types"
)

// FileHir is a statically typed program. FuncDecls holds one entry per
// function specialization that is reachable from Main.
type FileHir struct {
	FuncPrototypes []*types.FunctionType
	Globals        []*GlobalVarHir

	FuncDecls []*FuncDeclStmtHir
	Main      *ScopeStmtHir
}

type GlobalVarHir struct {
	Name string
	types.Type
}
