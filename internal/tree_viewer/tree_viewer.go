package tree_viewer

import (
	"fmt"
	"strings"

	"github.com/emicklei/dot"
	"github.com/kievzenit/nagato/internal/ast"
)

// TreeViewer renders a parsed program as a Graphviz digraph. Node labels are
// prefixed with their visiting order so that equal labels stay distinct.
type TreeViewer struct {
	graph     *dot.Graph
	nodeIndex int
}

func NewTreeViewer() *TreeViewer {
	return &TreeViewer{
		graph: dot.NewGraph(dot.Directed),
	}
}

func (tv *TreeViewer) MakeTree(program *ast.Program) *dot.Graph {
	tv.nodeIndex = 0
	tv.graph = dot.NewGraph(dot.Directed)
	tv.graph.Attr("ordering", "out")

	root := tv.createNode("Program")
	for _, stmt := range program.Stmts {
		tv.graph.Edge(root, tv.addStmt(stmt))
	}

	return tv.graph
}

func (tv *TreeViewer) String() string {
	return tv.graph.String()
}

func (tv *TreeViewer) createNode(label string) dot.Node {
	node := tv.graph.Node(fmt.Sprintf("n%d", tv.nodeIndex)).Label(fmt.Sprintf("%d: %s", tv.nodeIndex, label))
	tv.nodeIndex++
	return node
}

func (tv *TreeViewer) edge(from, to dot.Node, label string) {
	if label == "" {
		tv.graph.Edge(from, to)
		return
	}
	tv.graph.Edge(from, to, label)
}

func (tv *TreeViewer) addScope(parent dot.Node, label string, scope *ast.ScopeStmt) {
	tv.edge(parent, tv.addStmt(scope), label)
}

func (tv *TreeViewer) addStmt(stmt ast.Stmt) dot.Node {
	switch stmt := stmt.(type) {
	case *ast.ScopeStmt:
		node := tv.createNode("Scope")
		for _, inner := range stmt.Stmts {
			tv.graph.Edge(node, tv.addStmt(inner))
		}
		return node
	case *ast.FuncDeclStmt:
		args := make([]string, len(stmt.Args))
		for i, arg := range stmt.Args {
			if arg.Type == ast.NoType {
				args[i] = arg.Name
			} else {
				args[i] = arg.Type.String() + " " + arg.Name
			}
		}
		node := tv.createNode(fmt.Sprintf("Function %s(%s)", stmt.Name, strings.Join(args, ", ")))
		tv.addScope(node, "body", stmt.Body)
		return node
	case *ast.VarDeclStmt:
		node := tv.createNode(fmt.Sprintf("Declare %s %s", stmt.ExplicitType, stmt.Name))
		if stmt.Value != nil {
			tv.graph.Edge(node, tv.addExpr(stmt.Value))
		}
		return node
	case *ast.ArrayDeclStmt:
		return tv.createNode(fmt.Sprintf("Declare %s %s[%d]", stmt.ItemType, stmt.Name, stmt.Size))
	case *ast.AssignStmt:
		node := tv.createNode(fmt.Sprintf("Assign %s", stmt.Name))
		tv.graph.Edge(node, tv.addExpr(stmt.Value))
		return node
	case *ast.ArrayAssignStmt:
		node := tv.createNode(fmt.Sprintf("Assign %s[]", stmt.Name))
		tv.edge(node, tv.addExpr(stmt.Index), "index")
		tv.edge(node, tv.addExpr(stmt.Value), "value")
		return node
	case *ast.ExprStmt:
		return tv.addExpr(stmt.Expr)
	case *ast.IfStmt:
		node := tv.createNode("If")
		tv.edge(node, tv.addExpr(stmt.Cond), "cond")
		tv.addScope(node, "then", stmt.Body)
		if stmt.Else != nil {
			tv.addScope(node, "else", stmt.Else)
		}
		return node
	case *ast.WhileStmt:
		node := tv.createNode("While")
		tv.edge(node, tv.addExpr(stmt.Cond), "cond")
		tv.addScope(node, "body", stmt.Body)
		return node
	case *ast.ForStmt:
		node := tv.createNode("For")
		if stmt.Init != nil {
			tv.edge(node, tv.addStmt(stmt.Init), "init")
		}
		if stmt.Cond != nil {
			tv.edge(node, tv.addExpr(stmt.Cond), "cond")
		}
		if stmt.Post != nil {
			tv.edge(node, tv.addStmt(stmt.Post), "post")
		}
		tv.addScope(node, "body", stmt.Body)
		return node
	case *ast.ReturnStmt:
		node := tv.createNode("Return")
		if stmt.Expr != nil {
			tv.graph.Edge(node, tv.addExpr(stmt.Expr))
		}
		return node
	case *ast.BreakStmt:
		return tv.createNode("Break")
	case *ast.ContinueStmt:
		return tv.createNode("Continue")
	}

	panic("not implemented")
}

func (tv *TreeViewer) addExpr(expr ast.Expr) dot.Node {
	switch expr := expr.(type) {
	case *ast.IntExpr:
		return tv.createNode(fmt.Sprintf("Int(%d)", expr.Value))
	case *ast.FloatExpr:
		return tv.createNode(fmt.Sprintf("Float(%v)", expr.Value))
	case *ast.IdentExpr:
		return tv.createNode(fmt.Sprintf("Ident(%s)", expr.Value))
	case *ast.CallExpr:
		node := tv.createNode(fmt.Sprintf("Function Call [%s]", expr.Name))
		for _, arg := range expr.Args {
			tv.graph.Edge(node, tv.addExpr(arg))
		}
		return node
	case *ast.ArraySubscriptExpr:
		node := tv.createNode(fmt.Sprintf("Index %s", expr.Name))
		tv.graph.Edge(node, tv.addExpr(expr.Index))
		return node
	case *ast.UnaryExpr:
		node := tv.createNode(fmt.Sprintf("Unary(%s)", expr.Op.Value))
		tv.graph.Edge(node, tv.addExpr(expr.Right))
		return node
	case *ast.BinaryExpr:
		node := tv.createNode(fmt.Sprintf("Binary(%s)", expr.Op.Value))
		tv.graph.Edge(node, tv.addExpr(expr.Left))
		tv.graph.Edge(node, tv.addExpr(expr.Right))
		return node
	}

	panic("not implemented")
}
