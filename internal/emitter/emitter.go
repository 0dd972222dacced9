package emitter

import (
	"fmt"

	"github.com/kievzenit/nagato/internal/hir"
	hir_types "github.com/kievzenit/nagato/internal/hir/types"
	"tinygo.org/x/go-llvm"
)

const DefaultMaxCallDepth = 1000

type Options struct {
	// MaxCallDepth bounds the number of active calls; zero means
	// DefaultMaxCallDepth.
	MaxCallDepth int
}

type Emitter struct {
	fileHir *hir.FileHir
	opts    Options

	typesMap     map[string]llvm.Type
	globalsMap   map[string]llvm.Value
	variablesMap map[string]llvm.Value
	funcsMap     map[string]llvm.Value
	stringsMap   map[string]llvm.Value

	context llvm.Context
	module  llvm.Module
	builder llvm.Builder

	printfFunc  llvm.Value
	dprintfFunc llvm.Value
	exitFunc    llvm.Value
	trapFunc    llvm.Value
	fptosiFunc  llvm.Value
	depthGlobal llvm.Value

	currentFunc            llvm.Value
	currentFuncHir         *hir.FuncDeclStmtHir
	currentAllocBasicBlock llvm.BasicBlock

	controlFlowHappen        bool
	loopsContinueBasicBlocks []llvm.BasicBlock

	loopsBreakBasicBlock []llvm.BasicBlock

	nextBasicBlock llvm.BasicBlock
}

func NewEmitter(fileHir *hir.FileHir, opts Options) *Emitter {
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}

	context := llvm.NewContext()
	return &Emitter{
		fileHir: fileHir,
		opts:    opts,

		typesMap:     make(map[string]llvm.Type),
		globalsMap:   make(map[string]llvm.Value),
		variablesMap: make(map[string]llvm.Value),
		funcsMap:     make(map[string]llvm.Value),
		stringsMap:   make(map[string]llvm.Value),

		context: context,
		module:  context.NewModule("nagato"),
		builder: context.NewBuilder(),

		loopsContinueBasicBlocks: make([]llvm.BasicBlock, 0),

		loopsBreakBasicBlock: make([]llvm.BasicBlock, 0),
	}
}

func (e *Emitter) Emit() llvm.Module {
	e.declareTypes()
	e.declareRuntime()
	e.declareGlobals()
	e.declareFuncPrototypes()

	for _, funcDeclStmtHir := range e.fileHir.FuncDecls {
		e.emitForFuncDeclStmtHir(funcDeclStmtHir)
	}
	e.emitForMain(e.fileHir.Main)

	return e.module
}

// Verify checks the emitted module and returns the first broken invariant.
func (e *Emitter) Verify() error {
	return llvm.VerifyModule(e.module, llvm.ReturnStatusAction)
}

func (e *Emitter) Dispose() {
	e.builder.Dispose()
	e.module.Dispose()
	e.context.Dispose()
}

func (e *Emitter) getLlvmTypeForType(hirType hir_types.Type) llvm.Type {
	if arrayType, ok := hirType.(*hir_types.ArrayType); ok {
		return llvm.ArrayType(e.getLlvmTypeForType(arrayType.ItemType), arrayType.Size)
	}

	if llvmType, ok := e.typesMap[hirType.Type()]; ok {
		return llvmType
	}

	panic("type not found")
}

func (e *Emitter) declareTypes() {
	e.typesMap["bool"] = e.context.Int1Type()
	e.typesMap["i8"] = e.context.Int8Type()
	e.typesMap["i32"] = e.context.Int32Type()
	e.typesMap["f32"] = e.context.FloatType()
	e.typesMap["f64"] = e.context.DoubleType()
	e.typesMap["ptr"] = llvm.PointerType(e.context.Int8Type(), 0)
	e.typesMap["void"] = e.context.VoidType()
}

// declareRuntime declares the libc functions used by prints and traps and
// defines the trap function every runtime check branches to.
func (e *Emitter) declareRuntime() {
	i32 := e.typesMap["i32"]
	ptr := e.typesMap["ptr"]

	e.printfFunc = llvm.AddFunction(e.module, "printf", llvm.FunctionType(i32, []llvm.Type{ptr}, true))
	e.dprintfFunc = llvm.AddFunction(e.module, "dprintf", llvm.FunctionType(i32, []llvm.Type{i32, ptr}, true))
	e.exitFunc = llvm.AddFunction(e.module, "exit", llvm.FunctionType(e.typesMap["void"], []llvm.Type{i32}, false))
	e.fptosiFunc = llvm.AddFunction(
		e.module,
		"llvm.fptosi.sat.i32.f32",
		llvm.FunctionType(i32, []llvm.Type{e.typesMap["f32"]}, false))

	noReturnAttr := e.context.CreateEnumAttribute(llvm.AttributeKindID("noreturn"), 0)
	noUnwindAttr := e.context.CreateEnumAttribute(llvm.AttributeKindID("nounwind"), 0)
	e.exitFunc.AddFunctionAttr(noReturnAttr)

	e.depthGlobal = llvm.AddGlobal(e.module, i32, "nagato.depth")
	e.depthGlobal.SetInitializer(llvm.ConstInt(i32, 0, false))
	e.depthGlobal.SetLinkage(llvm.InternalLinkage)

	e.trapFunc = llvm.AddFunction(
		e.module,
		"nagato.trap",
		llvm.FunctionType(e.typesMap["void"], []llvm.Type{ptr}, false))
	e.trapFunc.SetLinkage(llvm.InternalLinkage)
	e.trapFunc.AddFunctionAttr(noReturnAttr)
	e.trapFunc.AddFunctionAttr(noUnwindAttr)

	entryBasicBlock := e.context.AddBasicBlock(e.trapFunc, "entry")
	e.builder.SetInsertPointAtEnd(entryBasicBlock)
	e.builder.CreateCall(
		e.dprintfFunc.GlobalValueType(),
		e.dprintfFunc,
		[]llvm.Value{llvm.ConstInt(i32, 2, false), e.globalString("%s\n"), e.trapFunc.Param(0)},
		"")
	e.builder.CreateCall(
		e.exitFunc.GlobalValueType(),
		e.exitFunc,
		[]llvm.Value{llvm.ConstInt(i32, 1, false)},
		"")
	e.builder.CreateUnreachable()
}

func (e *Emitter) globalString(str string) llvm.Value {
	if value, ok := e.stringsMap[str]; ok {
		return value
	}

	constValue := e.context.ConstString(str, true)
	global := llvm.AddGlobal(e.module, constValue.Type(), fmt.Sprintf("str.%d", len(e.stringsMap)))
	global.SetInitializer(constValue)
	global.SetGlobalConstant(true)
	global.SetLinkage(llvm.PrivateLinkage)
	global.SetUnnamedAddr(true)

	e.stringsMap[str] = global
	return global
}

func (e *Emitter) declareGlobals() {
	for _, globalVar := range e.fileHir.Globals {
		globalType := e.getLlvmTypeForType(globalVar.Type)
		global := llvm.AddGlobal(e.module, globalType, fmt.Sprintf("global.%s", globalVar.Name))
		global.SetInitializer(llvm.ConstNull(globalType))
		global.SetLinkage(llvm.InternalLinkage)
		e.globalsMap[globalVar.Name] = global
	}
}

func (e *Emitter) declareFuncPrototypes() {
	for _, funcType := range e.fileHir.FuncPrototypes {
		funcName := funcType.Name
		returnType := e.getLlvmTypeForType(funcType.ReturnType)
		argsTypes := make([]llvm.Type, 0)
		for _, arg := range funcType.Args {
			argsTypes = append(argsTypes, e.getLlvmTypeForType(arg.Type))
		}
		funcType := llvm.FunctionType(returnType, argsTypes, false)
		funcValue := llvm.AddFunction(e.module, funcName, funcType)
		funcValue.SetLinkage(llvm.InternalLinkage)
		e.funcsMap[funcName] = funcValue

		framePointerAttr := e.context.CreateStringAttribute("frame-pointer", "all")
		noTrappingMathAttr := e.context.CreateStringAttribute("no-trapping-math", "true")
		stackProtectorBufferSizeAttr := e.context.CreateStringAttribute("stack-protector-buffer-size", "8")
		funcValue.AddFunctionAttr(framePointerAttr)
		funcValue.AddFunctionAttr(noTrappingMathAttr)
		funcValue.AddFunctionAttr(stackProtectorBufferSizeAttr)
	}
}

// beginFunction creates the alloc, entry and unreachable blocks of funcValue
// and leaves the builder at the end of entry.
func (e *Emitter) beginFunction(funcValue llvm.Value) llvm.BasicBlock {
	e.currentFunc = funcValue
	e.variablesMap = make(map[string]llvm.Value)

	allocBasicBlock := e.context.AddBasicBlock(funcValue, "alloc")
	e.currentAllocBasicBlock = allocBasicBlock

	entryBasicBlock := e.context.AddBasicBlock(funcValue, "entry")

	unreachableBasicBlock := e.context.AddBasicBlock(funcValue, "unreachable")
	e.nextBasicBlock = unreachableBasicBlock
	e.builder.SetInsertPointAtEnd(unreachableBasicBlock)
	e.builder.CreateUnreachable()

	e.builder.SetInsertPointAtEnd(entryBasicBlock)
	return entryBasicBlock
}

func (e *Emitter) endFunction(entryBasicBlock llvm.BasicBlock) {
	e.builder.SetInsertPointAtEnd(e.currentAllocBasicBlock)
	e.builder.CreateBr(entryBasicBlock)
	e.currentAllocBasicBlock = llvm.BasicBlock{}
	e.nextBasicBlock = llvm.BasicBlock{}
	e.currentFuncHir = nil
	e.controlFlowHappen = false
	e.loopsContinueBasicBlocks = make([]llvm.BasicBlock, 0)
	e.loopsBreakBasicBlock = make([]llvm.BasicBlock, 0)
}

func (e *Emitter) emitForFuncDeclStmtHir(funcDeclStmtHir *hir.FuncDeclStmtHir) {
	funcValue := e.funcsMap[funcDeclStmtHir.Name]
	e.currentFuncHir = funcDeclStmtHir
	entryBasicBlock := e.beginFunction(funcValue)

	for i, local := range funcDeclStmtHir.Locals {
		localValue := e.allocate(local.Type, local.Name)
		e.variablesMap[local.Name] = localValue
		if i < len(funcDeclStmtHir.Args) {
			e.builder.CreateStore(funcValue.Param(i), localValue)
		} else {
			e.builder.CreateStore(llvm.ConstNull(e.getLlvmTypeForType(local.Type)), localValue)
		}
	}

	e.emitDepthCheck()
	e.emitForScopeStmtHir(funcDeclStmtHir.Body)
	if !e.controlFlowHappen {
		e.emitTrap(fmt.Sprintf("RuntimeError: function '%s' ended without returning a value", funcDeclStmtHir.SourceName))
	}

	e.endFunction(entryBasicBlock)
}

func (e *Emitter) emitForMain(mainHir *hir.ScopeStmtHir) {
	mainFunc := llvm.AddFunction(e.module, "main", llvm.FunctionType(e.typesMap["i32"], []llvm.Type{}, false))
	entryBasicBlock := e.beginFunction(mainFunc)

	e.emitForScopeStmtHir(mainHir)
	if !e.controlFlowHappen {
		e.builder.CreateRet(llvm.ConstInt(e.typesMap["i32"], 0, false))
	}

	e.endFunction(entryBasicBlock)
}

func (e *Emitter) allocate(hirType hir_types.Type, name string) llvm.Value {
	currBasicBlock := e.builder.GetInsertBlock()
	e.builder.SetInsertPointAtEnd(e.currentAllocBasicBlock)
	allocValue := e.builder.CreateAlloca(e.getLlvmTypeForType(hirType), name)
	e.builder.SetInsertPointAtEnd(currBasicBlock)

	return allocValue
}

func (e *Emitter) ptrToIdent(identExprHir *hir.IdentExprHir) llvm.Value {
	if identExprHir.Global {
		return e.globalsMap[identExprHir.Name]
	}
	return e.variablesMap[identExprHir.Name]
}

// addBasicBlock adds a block that is laid out before the block the current
// construct falls through to.
func (e *Emitter) addBasicBlock(name string) llvm.BasicBlock {
	block := e.context.AddBasicBlock(e.currentFunc, name)
	block.MoveBefore(e.nextBasicBlock)
	return block
}

func (e *Emitter) emitTrap(message string) {
	e.builder.CreateCall(
		e.trapFunc.GlobalValueType(),
		e.trapFunc,
		[]llvm.Value{e.globalString(message)},
		"")
	e.builder.CreateUnreachable()
}

// emitCheck traps with message when failed is true and continues in a fresh
// block otherwise.
func (e *Emitter) emitCheck(failed llvm.Value, name, message string) {
	trapBlock := e.addBasicBlock(name + "trap")
	okBlock := e.addBasicBlock(name + "ok")

	e.builder.CreateCondBr(failed, trapBlock, okBlock)

	e.builder.SetInsertPointAtEnd(trapBlock)
	e.emitTrap(message)

	e.builder.SetInsertPointAtEnd(okBlock)
}

func (e *Emitter) emitDepthCheck() {
	i32 := e.typesMap["i32"]

	depth := e.builder.CreateLoad(i32, e.depthGlobal, "depth")
	depth = e.builder.CreateAdd(depth, llvm.ConstInt(i32, 1, false), "depthinc")
	e.builder.CreateStore(depth, e.depthGlobal)

	exceeded := e.builder.CreateICmp(
		llvm.IntSGT,
		depth,
		llvm.ConstInt(i32, uint64(e.opts.MaxCallDepth), false),
		"depthexceeded")
	e.emitCheck(
		exceeded,
		"depth",
		fmt.Sprintf("RuntimeError: maximum recursion depth of %d exceeded", e.opts.MaxCallDepth))
}

func (e *Emitter) emitDepthRelease() {
	i32 := e.typesMap["i32"]

	depth := e.builder.CreateLoad(i32, e.depthGlobal, "depth")
	depth = e.builder.CreateSub(depth, llvm.ConstInt(i32, 1, false), "depthdec")
	e.builder.CreateStore(depth, e.depthGlobal)
}

func (e *Emitter) emitForStmtHir(stmtHir hir.StmtHir) {
	switch stmtHir := stmtHir.(type) {
	case *hir.ScopeStmtHir:
		e.emitForScopeStmtHir(stmtHir)
	case *hir.VarDeclStmtHir:
		e.emitForVarDeclStmtHir(stmtHir)
	case *hir.ArrayDeclStmtHir:
		e.emitForArrayDeclStmtHir(stmtHir)
	case *hir.AssignStmtHir:
		e.emitForAssignStmtHir(stmtHir)
	case *hir.ArrayAssignStmtHir:
		e.emitForArrayAssignStmtHir(stmtHir)
	case *hir.PrintStmtHir:
		e.emitForPrintStmtHir(stmtHir)
	case *hir.IfStmtHir:
		e.emitForIfStmtHir(stmtHir)
	case *hir.WhileStmtHir:
		e.emitForWhileStmtHir(stmtHir)
	case *hir.ForStmtHir:
		e.emitForForStmtHir(stmtHir)
	case *hir.ReturnStmtHir:
		e.emitForReturnStmtHir(stmtHir)
	case *hir.ContinueStmtHir:
		e.emitForContinueStmtHir(stmtHir)
	case *hir.BreakStmtHir:
		e.emitForBreakStmtHir(stmtHir)
	case *hir.ExprStmtHir:
		e.emitForExprStmtHir(stmtHir)
	default:
		panic("not implemented")
	}
}

func (e *Emitter) emitForScopeStmtHir(scopeStmtHir *hir.ScopeStmtHir) {
	for _, stmtHir := range scopeStmtHir.Stmts {
		e.emitForStmtHir(stmtHir)
		if e.controlFlowHappen {
			// the block is terminated, the rest of the scope is dead
			return
		}
	}
}

func (e *Emitter) emitForVarDeclStmtHir(varDeclStmtHir *hir.VarDeclStmtHir) {
	ptrValue := e.ptrToIdent(varDeclStmtHir.Ident)

	if varDeclStmtHir.Value == nil {
		e.builder.CreateStore(llvm.ConstNull(e.getLlvmTypeForType(varDeclStmtHir.Ident.Type)), ptrValue)
		return
	}

	value := e.emitForExprHir(varDeclStmtHir.Value)
	e.builder.CreateStore(value, ptrValue)
}

func (e *Emitter) emitForArrayDeclStmtHir(arrayDeclStmtHir *hir.ArrayDeclStmtHir) {
	ptrValue := e.ptrToIdent(arrayDeclStmtHir.Ident)
	e.builder.CreateStore(llvm.ConstNull(e.getLlvmTypeForType(arrayDeclStmtHir.Ident.Type)), ptrValue)
}

func (e *Emitter) emitForAssignStmtHir(assignStmtHir *hir.AssignStmtHir) {
	value := e.emitForExprHir(assignStmtHir.Value)
	e.builder.CreateStore(value, e.ptrToIdent(assignStmtHir.Ident))
}

func (e *Emitter) emitForArrayAssignStmtHir(arrayAssignStmtHir *hir.ArrayAssignStmtHir) {
	elementPtr := e.ptrToArrayElement(arrayAssignStmtHir.Target)
	value := e.emitForExprHir(arrayAssignStmtHir.Value)
	e.builder.CreateStore(value, elementPtr)
}

func (e *Emitter) emitForPrintStmtHir(printStmtHir *hir.PrintStmtHir) {
	ptrValue := e.ptrToIdent(printStmtHir.Ident)

	arrayType, ok := printStmtHir.Ident.Type.(*hir_types.ArrayType)
	if !ok {
		value := e.builder.CreateLoad(e.getLlvmTypeForType(printStmtHir.Ident.Type), ptrValue, "loadtmp")
		e.emitPrintf(e.scalarFormat(printStmtHir.Ident.Type)+"\n", value)
		return
	}

	i32 := e.typesMap["i32"]
	itemType := e.getLlvmTypeForType(arrayType.ItemType)
	indexPtr := e.allocate(&hir_types.IntType{Signed: true, Bits: 32}, "printindex")

	e.emitPrintf("[")
	e.builder.CreateStore(llvm.ConstInt(i32, 0, false), indexPtr)

	checkBlock := e.addBasicBlock("printcheck")
	sepBlock := e.addBasicBlock("printsep")
	itemBlock := e.addBasicBlock("printitem")
	afterBlock := e.addBasicBlock("printafter")

	e.builder.CreateBr(checkBlock)
	e.builder.SetInsertPointAtEnd(checkBlock)
	index := e.builder.CreateLoad(i32, indexPtr, "index")
	inRange := e.builder.CreateICmp(
		llvm.IntSLT,
		index,
		llvm.ConstInt(i32, uint64(arrayType.Size), false),
		"inrange")
	e.builder.CreateCondBr(inRange, sepBlock, afterBlock)

	e.builder.SetInsertPointAtEnd(sepBlock)
	isFirst := e.builder.CreateICmp(llvm.IntEQ, index, llvm.ConstInt(i32, 0, false), "isfirst")
	sepCallBlock := e.addBasicBlock("printsepcall")
	e.builder.CreateCondBr(isFirst, itemBlock, sepCallBlock)
	e.builder.SetInsertPointAtEnd(sepCallBlock)
	e.emitPrintf(", ")
	e.builder.CreateBr(itemBlock)

	e.builder.SetInsertPointAtEnd(itemBlock)
	elementPtr := e.builder.CreateInBoundsGEP(
		e.getLlvmTypeForType(arrayType),
		ptrValue,
		[]llvm.Value{llvm.ConstInt(i32, 0, false), index},
		"arraygep")
	element := e.builder.CreateLoad(itemType, elementPtr, "loadtmp")
	e.emitPrintf(e.scalarFormat(arrayType.ItemType), element)
	e.builder.CreateStore(e.builder.CreateAdd(index, llvm.ConstInt(i32, 1, false), "indexinc"), indexPtr)
	e.builder.CreateBr(checkBlock)

	e.builder.SetInsertPointAtEnd(afterBlock)
	e.emitPrintf("]\n")
}

func (e *Emitter) scalarFormat(hirType hir_types.Type) string {
	if _, ok := hirType.(*hir_types.FloatType); ok {
		return "%f"
	}
	return "%d"
}

// emitPrintf calls printf; float arguments are promoted to double as C
// varargs require.
func (e *Emitter) emitPrintf(format string, values ...llvm.Value) {
	args := []llvm.Value{e.globalString(format)}
	for _, value := range values {
		if value.Type().TypeKind() == llvm.FloatTypeKind {
			value = e.builder.CreateFPExt(value, e.typesMap["f64"], "fpexttmp")
		}
		args = append(args, value)
	}

	e.builder.CreateCall(e.printfFunc.GlobalValueType(), e.printfFunc, args, "")
}

func (e *Emitter) emitForIfStmtHir(ifStmtHir *hir.IfStmtHir) {
	privNextBasicBlock := e.nextBasicBlock

	checkBlock := e.addBasicBlock("ifcheck")
	ifBody := e.addBasicBlock("ifbody")
	elseBlock := e.addBasicBlock("ifelse")
	afterIfBlock := e.addBasicBlock("ifafter")

	e.builder.CreateBr(checkBlock)
	e.builder.SetInsertPointAtEnd(checkBlock)

	e.nextBasicBlock = ifBody
	condResult := e.emitForCondExprHir(ifStmtHir.Cond)
	e.builder.CreateCondBr(condResult, ifBody, elseBlock)

	e.nextBasicBlock = elseBlock
	e.builder.SetInsertPointAtEnd(ifBody)
	e.emitForScopeStmtHir(ifStmtHir.Body)
	if !e.controlFlowHappen {
		e.builder.CreateBr(afterIfBlock)
	}
	e.controlFlowHappen = false

	e.builder.SetInsertPointAtEnd(elseBlock)
	if ifStmtHir.Else != nil {
		e.nextBasicBlock = afterIfBlock
		e.emitForScopeStmtHir(ifStmtHir.Else)
	}

	if !e.controlFlowHappen {
		e.builder.CreateBr(afterIfBlock)
	}
	e.controlFlowHappen = false

	e.builder.SetInsertPointAtEnd(afterIfBlock)
	e.nextBasicBlock = privNextBasicBlock
}

func (e *Emitter) emitForWhileStmtHir(whileStmtHir *hir.WhileStmtHir) {
	privNextBasicBlock := e.nextBasicBlock

	checkBlock := e.addBasicBlock("whilecheck")
	bodyBlock := e.addBasicBlock("whilebody")
	afterBlock := e.addBasicBlock("whileafter")

	e.loopsContinueBasicBlocks = append(e.loopsContinueBasicBlocks, checkBlock)
	e.loopsBreakBasicBlock = append(e.loopsBreakBasicBlock, afterBlock)

	e.builder.CreateBr(checkBlock)
	e.builder.SetInsertPointAtEnd(checkBlock)

	e.nextBasicBlock = bodyBlock
	condValue := e.emitForCondExprHir(whileStmtHir.Cond)
	e.builder.CreateCondBr(condValue, bodyBlock, afterBlock)

	e.builder.SetInsertPointAtEnd(bodyBlock)
	e.nextBasicBlock = afterBlock
	e.emitForScopeStmtHir(whileStmtHir.Body)
	if !e.controlFlowHappen {
		e.builder.CreateBr(checkBlock)
	}
	e.controlFlowHappen = false

	e.builder.SetInsertPointAtEnd(afterBlock)
	e.nextBasicBlock = privNextBasicBlock
	e.loopsContinueBasicBlocks = e.loopsContinueBasicBlocks[:len(e.loopsContinueBasicBlocks)-1]
	e.loopsBreakBasicBlock = e.loopsBreakBasicBlock[:len(e.loopsBreakBasicBlock)-1]
}

func (e *Emitter) emitForForStmtHir(forStmtHir *hir.ForStmtHir) {
	privNextBasicBlock := e.nextBasicBlock

	initBlock := e.addBasicBlock("forinit")
	checkBlock := e.addBasicBlock("forcheck")
	bodyBlock := e.addBasicBlock("forbody")
	postBlock := e.addBasicBlock("forpost")
	afterBlock := e.addBasicBlock("forafter")

	e.loopsContinueBasicBlocks = append(e.loopsContinueBasicBlocks, postBlock)
	e.loopsBreakBasicBlock = append(e.loopsBreakBasicBlock, afterBlock)

	e.builder.CreateBr(initBlock)
	e.builder.SetInsertPointAtEnd(initBlock)
	e.nextBasicBlock = checkBlock
	if forStmtHir.Init != nil {
		e.emitForStmtHir(forStmtHir.Init)
	}

	e.builder.CreateBr(checkBlock)
	e.builder.SetInsertPointAtEnd(checkBlock)
	e.nextBasicBlock = bodyBlock
	if forStmtHir.Cond != nil {
		condValue := e.emitForCondExprHir(forStmtHir.Cond)
		e.builder.CreateCondBr(condValue, bodyBlock, afterBlock)
	} else {
		e.builder.CreateBr(bodyBlock)
	}

	e.builder.SetInsertPointAtEnd(bodyBlock)
	e.nextBasicBlock = postBlock
	e.emitForScopeStmtHir(forStmtHir.Body)
	if !e.controlFlowHappen {
		e.builder.CreateBr(postBlock)
	}
	e.controlFlowHappen = false

	e.builder.SetInsertPointAtEnd(postBlock)
	e.nextBasicBlock = afterBlock
	if forStmtHir.Post != nil {
		e.emitForStmtHir(forStmtHir.Post)
	}
	e.builder.CreateBr(checkBlock)

	e.builder.SetInsertPointAtEnd(afterBlock)
	e.nextBasicBlock = privNextBasicBlock
	e.loopsContinueBasicBlocks = e.loopsContinueBasicBlocks[:len(e.loopsContinueBasicBlocks)-1]
	e.loopsBreakBasicBlock = e.loopsBreakBasicBlock[:len(e.loopsBreakBasicBlock)-1]
}

func (e *Emitter) emitForReturnStmtHir(returnStmtHir *hir.ReturnStmtHir) {
	if e.currentFuncHir == nil {
		if returnStmtHir.Expr != nil {
			e.emitForExprHir(returnStmtHir.Expr)
		}
		e.builder.CreateRet(llvm.ConstInt(e.typesMap["i32"], 0, false))
		e.controlFlowHappen = true
		return
	}

	value := e.emitForExprHir(returnStmtHir.Expr)
	e.emitDepthRelease()
	e.builder.CreateRet(value)
	e.controlFlowHappen = true
}

func (e *Emitter) emitForContinueStmtHir(_ *hir.ContinueStmtHir) {
	e.controlFlowHappen = true
	e.builder.CreateBr(e.loopsContinueBasicBlocks[len(e.loopsContinueBasicBlocks)-1])
}

func (e *Emitter) emitForBreakStmtHir(_ *hir.BreakStmtHir) {
	e.controlFlowHappen = true
	e.builder.CreateBr(e.loopsBreakBasicBlock[len(e.loopsBreakBasicBlock)-1])
}

func (e *Emitter) emitForExprStmtHir(expStmtHir *hir.ExprStmtHir) {
	e.emitForExprHir(expStmtHir.Expr)
}

// emitForCondExprHir evaluates exprHir as an i1 truth value.
func (e *Emitter) emitForCondExprHir(exprHir hir.ExprHir) llvm.Value {
	value := e.emitForExprHir(exprHir)
	return e.truthValue(value, exprHir.ExprType())
}

func (e *Emitter) truthValue(value llvm.Value, hirType hir_types.Type) llvm.Value {
	if _, ok := hirType.(*hir_types.FloatType); ok {
		return e.builder.CreateFCmp(llvm.FloatUNE, value, llvm.ConstFloat(e.typesMap["f32"], 0), "truthtmp")
	}
	return e.builder.CreateICmp(llvm.IntNE, value, llvm.ConstInt(e.typesMap["i32"], 0, false), "truthtmp")
}

func (e *Emitter) boolToInt(value llvm.Value) llvm.Value {
	return e.builder.CreateZExt(value, e.typesMap["i32"], "booltmp")
}

func (e *Emitter) emitForExprHir(exprHir hir.ExprHir) llvm.Value {
	switch exprHir := exprHir.(type) {
	case *hir.UpCastExprHir:
		return e.emitForUpCastExprHir(exprHir)
	case *hir.DownCastExprHir:
		return e.emitForDownCastExprHir(exprHir)
	case *hir.UnaryExprHir:
		return e.emitForUnaryExprHir(exprHir)
	case *hir.BinaryExprHir:
		return e.emitForBinExprHir(exprHir)
	case *hir.IdentExprHir:
		return e.emitForIdentExprHir(exprHir)
	case *hir.ArraySubscriptExprHir:
		return e.emitForArraySubscriptExprHir(exprHir)
	case *hir.IntExprHir:
		return e.emitForIntExprHir(exprHir)
	case *hir.FloatExprHir:
		return e.emitForFloatExprHir(exprHir)
	case *hir.CallExprHir:
		return e.emitForCallExprHir(exprHir)
	default:
		panic("not implemented")
	}
}

func (e *Emitter) emitForUpCastExprHir(upCastExprHir *hir.UpCastExprHir) llvm.Value {
	value := e.emitForExprHir(upCastExprHir.Expr)
	return e.builder.CreateSIToFP(value, e.getLlvmTypeForType(upCastExprHir.NewType), "upcasttmp")
}

// emitForDownCastExprHir truncates toward zero, saturating at the int range
// and mapping NaN to zero.
func (e *Emitter) emitForDownCastExprHir(downCastExprHir *hir.DownCastExprHir) llvm.Value {
	value := e.emitForExprHir(downCastExprHir.Expr)
	return e.builder.CreateCall(
		e.fptosiFunc.GlobalValueType(),
		e.fptosiFunc,
		[]llvm.Value{value},
		"downcasttmp")
}

func (e *Emitter) emitForUnaryExprHir(unaryExprHir *hir.UnaryExprHir) llvm.Value {
	switch unaryExprHir.Op {
	case hir.Plus:
		return e.emitForExprHir(unaryExprHir.Right)
	case hir.Neg:
		value := e.emitForExprHir(unaryExprHir.Right)
		if _, ok := unaryExprHir.ExprType().(*hir_types.FloatType); ok {
			return e.builder.CreateFNeg(value, "unarynegatetmp")
		}
		return e.builder.CreateSub(
			llvm.ConstInt(e.typesMap["i32"], 0, false),
			value,
			"unarynegatetmp",
		)
	case hir.Not:
		condValue := e.emitForCondExprHir(unaryExprHir.Right)
		notValue := e.builder.CreateXor(
			condValue,
			llvm.ConstInt(e.typesMap["bool"], 1, false),
			"unarynottmp",
		)
		return e.boolToInt(notValue)
	default:
		panic("unreachable")
	}
}

func (e *Emitter) emitForBinExprHir(binExprHir *hir.BinaryExprHir) llvm.Value {
	switch binExprHir.Op {
	case hir.Land:
		return e.emitForLandExprHir(binExprHir)
	case hir.Lor:
		return e.emitForLorExprHir(binExprHir)
	}

	_, isFloat := binExprHir.Left.ExprType().(*hir_types.FloatType)

	leftValue := e.emitForExprHir(binExprHir.Left)
	rightValue := e.emitForExprHir(binExprHir.Right)

	switch binExprHir.Op {
	case hir.Add:
		if isFloat {
			return e.builder.CreateFAdd(leftValue, rightValue, "addtmp")
		}
		return e.builder.CreateAdd(leftValue, rightValue, "addtmp")
	case hir.Sub:
		if isFloat {
			return e.builder.CreateFSub(leftValue, rightValue, "subtmp")
		}
		return e.builder.CreateSub(leftValue, rightValue, "subtmp")
	case hir.Mul:
		if isFloat {
			return e.builder.CreateFMul(leftValue, rightValue, "multmp")
		}
		return e.builder.CreateMul(leftValue, rightValue, "multmp")
	case hir.Div:
		if isFloat {
			isZero := e.builder.CreateFCmp(llvm.FloatOEQ, rightValue, llvm.ConstFloat(e.typesMap["f32"], 0), "iszero")
			e.emitCheck(isZero, "div", "DivisionByZero: float division by zero")
			return e.builder.CreateFDiv(leftValue, rightValue, "divtmp")
		}
		return e.emitIntDivision(leftValue, rightValue, false)
	case hir.Mod:
		return e.emitIntDivision(leftValue, rightValue, true)
	}

	var cmpValue llvm.Value
	if isFloat {
		cmpValue = e.builder.CreateFCmp(floatPredicates[binExprHir.Op], leftValue, rightValue, "cmptmp")
	} else {
		cmpValue = e.builder.CreateICmp(intPredicates[binExprHir.Op], leftValue, rightValue, "cmptmp")
	}
	return e.boolToInt(cmpValue)
}

var intPredicates = map[hir.BinaryOp]llvm.IntPredicate{
	hir.Eq: llvm.IntEQ,
	hir.Ne: llvm.IntNE,
	hir.Lt: llvm.IntSLT,
	hir.Gt: llvm.IntSGT,
	hir.Le: llvm.IntSLE,
	hir.Ge: llvm.IntSGE,
}

// != is the only unordered predicate: NaN compares unequal to everything.
var floatPredicates = map[hir.BinaryOp]llvm.FloatPredicate{
	hir.Eq: llvm.FloatOEQ,
	hir.Ne: llvm.FloatUNE,
	hir.Lt: llvm.FloatOLT,
	hir.Gt: llvm.FloatOGT,
	hir.Le: llvm.FloatOLE,
	hir.Ge: llvm.FloatOGE,
}

// emitIntDivision traps on a zero divisor and wraps MinInt32 / -1 instead of
// letting sdiv overflow.
func (e *Emitter) emitIntDivision(leftValue, rightValue llvm.Value, remainder bool) llvm.Value {
	i32 := e.typesMap["i32"]
	zero := llvm.ConstInt(i32, 0, false)
	minusOne := llvm.ConstInt(i32, ^uint64(0), true)

	isZero := e.builder.CreateICmp(llvm.IntEQ, rightValue, zero, "iszero")
	if remainder {
		e.emitCheck(isZero, "mod", "DivisionByZero: modulo by zero")
	} else {
		e.emitCheck(isZero, "div", "DivisionByZero: integer division by zero")
	}

	isMinusOne := e.builder.CreateICmp(llvm.IntEQ, rightValue, minusOne, "isminusone")
	safeRight := e.builder.CreateSelect(isMinusOne, llvm.ConstInt(i32, 1, false), rightValue, "safedivisor")

	if remainder {
		modValue := e.builder.CreateSRem(leftValue, safeRight, "modtmp")
		return e.builder.CreateSelect(isMinusOne, zero, modValue, "modtmp")
	}

	divValue := e.builder.CreateSDiv(leftValue, safeRight, "divtmp")
	negValue := e.builder.CreateSub(zero, leftValue, "negtmp")
	return e.builder.CreateSelect(isMinusOne, negValue, divValue, "divtmp")
}

func (e *Emitter) emitForLandExprHir(binExprHir *hir.BinaryExprHir) llvm.Value {
	privNextBasicBlock := e.nextBasicBlock

	checkBlock := e.addBasicBlock("andcheck")
	trueBlock := e.addBasicBlock("andtrue")
	mergeBlock := e.addBasicBlock("andmerge")

	e.builder.CreateBr(checkBlock)
	e.builder.SetInsertPointAtEnd(checkBlock)

	e.nextBasicBlock = trueBlock
	leftValue := e.emitForCondExprHir(binExprHir.Left)
	lastBlockInCheck := e.builder.GetInsertBlock()
	e.builder.CreateCondBr(leftValue, trueBlock, mergeBlock)

	e.builder.SetInsertPointAtEnd(trueBlock)

	e.nextBasicBlock = mergeBlock
	rightValue := e.emitForCondExprHir(binExprHir.Right)
	lastBlockInTrue := e.builder.GetInsertBlock()
	e.builder.CreateBr(mergeBlock)

	e.builder.SetInsertPointAtEnd(mergeBlock)

	phi := e.builder.CreatePHI(e.typesMap["bool"], "andphi")
	phi.AddIncoming(
		[]llvm.Value{
			llvm.ConstInt(e.typesMap["bool"], 0, false),
		},
		[]llvm.BasicBlock{lastBlockInCheck},
	)
	phi.AddIncoming([]llvm.Value{rightValue}, []llvm.BasicBlock{lastBlockInTrue})

	e.nextBasicBlock = privNextBasicBlock

	return e.boolToInt(phi)
}

func (e *Emitter) emitForLorExprHir(binExprHir *hir.BinaryExprHir) llvm.Value {
	privNextBasicBlock := e.nextBasicBlock

	checkBlock := e.addBasicBlock("orcheck")
	falseBlock := e.addBasicBlock("orfalse")
	mergeBlock := e.addBasicBlock("ormerge")

	e.builder.CreateBr(checkBlock)
	e.builder.SetInsertPointAtEnd(checkBlock)

	e.nextBasicBlock = falseBlock
	leftValue := e.emitForCondExprHir(binExprHir.Left)
	lastBlockInCheck := e.builder.GetInsertBlock()
	e.builder.CreateCondBr(leftValue, mergeBlock, falseBlock)

	e.builder.SetInsertPointAtEnd(falseBlock)

	e.nextBasicBlock = mergeBlock
	rightValue := e.emitForCondExprHir(binExprHir.Right)
	lastBlockInFalse := e.builder.GetInsertBlock()
	e.builder.CreateBr(mergeBlock)

	e.builder.SetInsertPointAtEnd(mergeBlock)

	phi := e.builder.CreatePHI(e.typesMap["bool"], "orphi")
	phi.AddIncoming(
		[]llvm.Value{
			llvm.ConstInt(e.typesMap["bool"], 1, false),
		},
		[]llvm.BasicBlock{lastBlockInCheck},
	)
	phi.AddIncoming([]llvm.Value{rightValue}, []llvm.BasicBlock{lastBlockInFalse})

	e.nextBasicBlock = privNextBasicBlock

	return e.boolToInt(phi)
}

func (e *Emitter) emitForIdentExprHir(identExprHir *hir.IdentExprHir) llvm.Value {
	identType := e.getLlvmTypeForType(identExprHir.ExprType())
	return e.builder.CreateLoad(identType, e.ptrToIdent(identExprHir), "loadtmp")
}

// ptrToArrayElement bounds-checks the index before computing the address.
func (e *Emitter) ptrToArrayElement(subscriptExprHir *hir.ArraySubscriptExprHir) llvm.Value {
	i32 := e.typesMap["i32"]
	arrayType := subscriptExprHir.Array.Type.(*hir_types.ArrayType)

	index := e.emitForExprHir(subscriptExprHir.Index)
	outOfBounds := e.builder.CreateICmp(
		llvm.IntUGE,
		index,
		llvm.ConstInt(i32, uint64(arrayType.Size), false),
		"outofbounds")
	e.emitCheck(
		outOfBounds,
		"bounds",
		fmt.Sprintf("RuntimeError: index out of bounds for array '%s' of size %d",
			subscriptExprHir.Array.Name, arrayType.Size))

	return e.builder.CreateInBoundsGEP(
		e.getLlvmTypeForType(arrayType),
		e.ptrToIdent(subscriptExprHir.Array),
		[]llvm.Value{llvm.ConstInt(i32, 0, false), index},
		"arraygep",
	)
}

func (e *Emitter) emitForArraySubscriptExprHir(subscriptExprHir *hir.ArraySubscriptExprHir) llvm.Value {
	elementPtr := e.ptrToArrayElement(subscriptExprHir)
	return e.builder.CreateLoad(e.getLlvmTypeForType(subscriptExprHir.Type), elementPtr, "loadtmp")
}

func (e *Emitter) emitForCallExprHir(callExprHir *hir.CallExprHir) llvm.Value {
	funcValue := e.funcsMap[callExprHir.Name]
	args := make([]llvm.Value, 0)
	for _, arg := range callExprHir.Args {
		args = append(args, e.emitForExprHir(arg))
	}
	return e.builder.CreateCall(funcValue.GlobalValueType(), funcValue, args, "calltmp")
}

func (e *Emitter) emitForIntExprHir(intExprHir *hir.IntExprHir) llvm.Value {
	return llvm.ConstInt(e.typesMap[intExprHir.ExprType().Type()], uint64(int64(intExprHir.Value)), true)
}

func (e *Emitter) emitForFloatExprHir(floatExprHir *hir.FloatExprHir) llvm.Value {
	return llvm.ConstFloat(e.typesMap[floatExprHir.ExprType().Type()], float64(floatExprHir.Value))
}
