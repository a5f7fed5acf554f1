// Package check implements the spincheck analyzer, which flags misuse of
// spincell cells that the library itself cannot detect at runtime without
// giving up lock-free reads.
//
// The analysis is intraprocedural and syntactic: it tracks cells held in
// simple local variables through one function body in source order. It does
// not follow cells across calls, fields, or channels, it treats all branches
// as taken, and it stops tracking a cell the moment a closure captures it.
// That makes it a hazard flagger in the spirit of vet, not a verifier: a
// clean report is not a proof, and a diagnostic deserves a look rather than
// blind suppression.
//
// Reported hazards:
//
//   - forceafterread: ForceInit on a cell after a Get whose pointer may
//     still be live. Forcing overwrites the pointed-to value in place.
//   - readuninit: Get on a cell constructed empty (Uninit or zero value)
//     with no initialization in between. This panics at runtime.
//   - readafterclose: Get after Close with no reinitialization. Also panics.
//   - nilinit: a nil initializer where the cell cannot have a stored one
//     (Lazy(nil), or TryInit(nil)/ForceInit(nil) on a cell built by Uninit
//     or New).
package check

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// cellPathSuffix identifies the cell package by import path suffix, so
// forks and vendored copies are still recognized.
const cellPathSuffix = "spincell/cell"

// Analyzer implements the spincheck analyzer.
var Analyzer = &analysis.Analyzer{
	Name: "spincheck",
	Doc:  "flags spincell usage hazards: reads of empty cells, forced reinitialization behind live pointers, nil initializers",
	Run:  run,
}

// cellState is what the walk knows about one local cell variable at the
// current point in the function body.
type cellState struct {
	// empty is true when the cell is known to hold neither a value nor a
	// pending initializer.
	empty bool

	// closed is true after a Close with no transition since.
	closed bool

	// read is true after a Get whose result may still be referenced.
	read bool

	// stored is true when the cell may hold a pending initializer, so a
	// nil-supplier transition is legitimate.
	stored bool
}

func run(pass *analysis.Pass) (any, error) {
	for _, f := range pass.Files {
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Body == nil {
				continue
			}
			checkFunc(pass, fn.Body)
		}
	}
	return nil, nil
}

// checkFunc walks one function body in source order, tracking cell-typed
// locals and reporting hazards as they form.
func checkFunc(pass *analysis.Pass, body *ast.BlockStmt) {
	cells := make(map[types.Object]*cellState)

	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.AssignStmt:
			trackAssign(pass, cells, n)
		case *ast.DeclStmt:
			trackDecl(pass, cells, n)
		case *ast.CallExpr:
			checkCall(pass, cells, n)
		case *ast.FuncLit:
			// A closure may capture a cell and transition it from anywhere,
			// including another goroutine. Whatever it references is beyond
			// this walk from here on.
			invalidateCaptured(pass, cells, n)
		}
		return true
	})
}

// trackAssign records cells created by constructor calls on the right-hand
// side of an assignment, and forgets cells that are reassigned from
// anything else.
func trackAssign(pass *analysis.Pass, cells map[types.Object]*cellState, assign *ast.AssignStmt) {
	if len(assign.Lhs) != len(assign.Rhs) {
		return
	}
	for i, lhs := range assign.Lhs {
		ident, ok := lhs.(*ast.Ident)
		if !ok || ident.Name == "_" {
			continue
		}
		obj := pass.TypesInfo.Defs[ident]
		if obj == nil {
			obj = pass.TypesInfo.Uses[ident]
		}
		if obj == nil || !isCellType(obj.Type()) {
			continue
		}

		if ctor, ok := constructorName(pass, assign.Rhs[i]); ok {
			switch ctor {
			case "Uninit":
				cells[obj] = &cellState{empty: true}
			case "New":
				cells[obj] = &cellState{}
			case "Lazy":
				cells[obj] = &cellState{stored: true}
			}
			continue
		}
		// Assigned from something this walk cannot see through.
		delete(cells, obj)
	}
}

// trackDecl records zero-value cell declarations: var c cell.Cell[T] is an
// empty cell.
func trackDecl(pass *analysis.Pass, cells map[types.Object]*cellState, decl *ast.DeclStmt) {
	gen, ok := decl.Decl.(*ast.GenDecl)
	if !ok {
		return
	}
	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok || len(vs.Values) != 0 {
			continue
		}
		for _, name := range vs.Names {
			obj := pass.TypesInfo.Defs[name]
			if obj == nil {
				continue
			}
			// Only a value-typed cell is its own zero value; a *Cell is nil.
			if _, isPtr := obj.Type().(*types.Pointer); isPtr {
				continue
			}
			if isCellType(obj.Type()) {
				cells[obj] = &cellState{empty: true}
			}
		}
	}
}

// checkCall inspects one call expression: constructor misuse and method
// calls on tracked cells.
func checkCall(pass *analysis.Pass, cells map[types.Object]*cellState, call *ast.CallExpr) {
	// Lazy(nil) is always wrong, tracked variable or not.
	if ctor, ok := constructorCall(pass, call); ok && ctor == "Lazy" {
		if len(call.Args) > 0 && isNilExpr(pass, call.Args[0]) {
			pass.Reportf(call.Lparen, "Lazy requires a non-nil initializer")
		}
		return
	}

	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return
	}
	recv, ok := sel.X.(*ast.Ident)
	if !ok {
		return
	}
	obj := pass.TypesInfo.Uses[recv]
	if obj == nil || !isCellType(obj.Type()) {
		return
	}
	st := cells[obj]

	switch sel.Sel.Name {
	case "Get":
		if st != nil {
			if st.closed {
				pass.Reportf(call.Lparen, "Get on %q after Close will panic unless the cell is reinitialized", recv.Name)
			} else if st.empty {
				pass.Reportf(call.Lparen, "Get on %q before initialization: the cell is empty and Get will panic", recv.Name)
			}
			st.read = true
		}

	case "Load", "Initialized":
		// Non-panicking observers: nothing to flag, nothing retained.

	case "TryInit":
		if st != nil {
			if nilSupplier(pass, call) && !st.stored {
				pass.Reportf(call.Lparen, "TryInit(nil) on %q: the cell has no stored initializer and the transition will panic", recv.Name)
			}
			st.empty = false
			st.closed = false
			st.stored = false
		}

	case "ForceInit":
		if st != nil {
			if st.read {
				pass.Reportf(call.Lparen, "ForceInit on %q after Get: a previously returned pointer may still alias the slot (data race on the contained value)", recv.Name)
			}
			if nilSupplier(pass, call) && !st.stored {
				pass.Reportf(call.Lparen, "ForceInit(nil) on %q: the cell has no stored initializer and the transition will panic", recv.Name)
			}
			st.empty = false
			st.closed = false
			st.stored = false
			st.read = false
		}

	case "Close":
		if st != nil {
			st.closed = true
			st.empty = true
			st.stored = false
			st.read = false
		}
	}
}

// invalidateCaptured forgets tracked cells that a function literal
// references. Initializer suppliers rarely mention the cell they fill, so
// tracking usually survives them; a closure that does capture the cell ends
// its tracking.
func invalidateCaptured(pass *analysis.Pass, cells map[types.Object]*cellState, lit *ast.FuncLit) {
	if len(cells) == 0 {
		return
	}
	ast.Inspect(lit.Body, func(n ast.Node) bool {
		ident, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		if obj := pass.TypesInfo.Uses[ident]; obj != nil {
			delete(cells, obj)
		}
		return true
	})
}

// constructorCall reports whether call invokes a cell constructor and which
// one.
func constructorCall(pass *analysis.Pass, call *ast.CallExpr) (string, bool) {
	fun := call.Fun
	// Generic instantiation: cell.Uninit[int](...) parses as an IndexExpr.
	switch f := fun.(type) {
	case *ast.IndexExpr:
		fun = f.X
	case *ast.IndexListExpr:
		fun = f.X
	}
	sel, ok := fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil || !strings.HasSuffix(fn.Pkg().Path(), cellPathSuffix) {
		return "", false
	}
	switch fn.Name() {
	case "New", "Uninit", "Lazy":
		return fn.Name(), true
	}
	return "", false
}

// constructorName is constructorCall applied to an arbitrary expression.
func constructorName(pass *analysis.Pass, expr ast.Expr) (string, bool) {
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return "", false
	}
	return constructorCall(pass, call)
}

// nilSupplier reports whether the call's first argument is a literal nil.
func nilSupplier(pass *analysis.Pass, call *ast.CallExpr) bool {
	return len(call.Args) > 0 && isNilExpr(pass, call.Args[0])
}

// isNilExpr reports whether expr is the predeclared nil.
func isNilExpr(pass *analysis.Pass, expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	if !ok {
		return false
	}
	_, isNil := pass.TypesInfo.Uses[ident].(*types.Nil)
	return isNil
}

// isCellType reports whether t is spincell's Cell (possibly behind a
// pointer), matched by package path suffix and type name.
func isCellType(t types.Type) bool {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	if obj == nil || obj.Name() != "Cell" {
		return false
	}
	pkg := obj.Pkg()
	return pkg != nil && strings.HasSuffix(pkg.Path(), cellPathSuffix)
}
