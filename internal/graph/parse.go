package graph

import (
	_ "embed"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

//go:embed schema.graphql
var schemaSDL string

// Params is the body of a GraphQL-over-HTTP request.
type Params struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`

	// ReadOnly rejects mutations; set for requests arriving over GET.
	ReadOnly bool `json:"-"`
}

// Document is a parsed operation reduced to one Request per root field.
type Document struct {
	Requests []Request
}

// Parser validates documents against the product schema.
type Parser struct {
	schema *ast.Schema
}

func NewParser() (*Parser, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})
	if err != nil {
		return nil, fmt.Errorf("load product schema: %w", err)
	}
	return &Parser{schema: schema}, nil
}

// Parse validates the document and resolves the selected operation. Variables should be decoded
// with json.Decoder.UseNumber. Any error means the document as a whole is rejected.
func (p *Parser) Parse(params Params) (*Document, gqlerror.List) {
	doc, errs := gqlparser.LoadQuery(p.schema, params.Query)
	if len(errs) > 0 {
		return nil, withCode(errs, CodeBadUserInput)
	}

	op := doc.Operations.ForName(params.OperationName)
	if op == nil {
		if params.OperationName == "" {
			return nil, badInput("operationName is required when the document has several operations")
		}
		return nil, badInput(fmt.Sprintf("unknown operation %q", params.OperationName))
	}
	if op.Operation == ast.Subscription {
		return nil, badInput("subscriptions are not supported")
	}
	if op.Operation == ast.Mutation && params.ReadOnly {
		return nil, badInput("mutations must be sent with POST")
	}

	if _, err := validator.VariableValues(p.schema, op, params.Variables); err != nil {
		if gqlErr, ok := err.(*gqlerror.Error); ok {
			return nil, withCode(gqlerror.List{gqlErr}, CodeBadUserInput)
		}
		return nil, badInput(err.Error())
	}
	vars, err := variables(op, params.Variables)
	if err != nil {
		return nil, badInput(err.Error())
	}

	out := &Document{}
	for _, group := range collectFields(op.SelectionSet, vars) {
		req, err := p.request(group, vars)
		if err != nil {
			return nil, badInput(err.Error())
		}
		out.Requests = append(out.Requests, req)
	}
	return out, nil
}

// request builds the Request for one response key. Validation guarantees that every field in
// the group names the same root field with the same arguments, so the first one supplies them
// and the sub-selections of all of them are merged.
func (p *Parser) request(group fieldGroup, vars map[string]any) (Request, error) {
	field := group.fields[0]
	operation, ok := rootFields[field.Name]
	if !ok {
		return Request{}, requestErrorf(field.Name, "unsupported root field")
	}
	req := Request{
		Operation:   operation,
		ResponseKey: group.key,
		Args:        make(map[string]Value, len(field.Arguments)),
	}
	for _, arg := range field.Arguments {
		v, err := FromAST(arg.Value, vars)
		if err != nil {
			return Request{}, requestErrorf(arg.Name, "%v", err)
		}
		req.Args[arg.Name] = v
	}
	var merged ast.SelectionSet
	for _, f := range group.fields {
		merged = append(merged, f.SelectionSet...)
	}
	for _, sub := range collectFields(merged, vars) {
		req.Selection = append(req.Selection, Field{Alias: sub.fields[0].Alias, Name: sub.fields[0].Name})
	}
	return req, nil
}

// variables keeps caller values as decoded and fills declared defaults for the rest.
func variables(op *ast.OperationDefinition, provided map[string]any) (map[string]any, error) {
	vars := make(map[string]any, len(op.VariableDefinitions))
	for _, def := range op.VariableDefinitions {
		if raw, ok := provided[def.Variable]; ok {
			vars[def.Variable] = raw
			continue
		}
		if def.DefaultValue == nil {
			continue
		}
		if def.DefaultValue.Kind == ast.BooleanValue {
			vars[def.Variable] = def.DefaultValue.Raw == "true"
			continue
		}
		v, err := FromAST(def.DefaultValue, nil)
		if err != nil {
			return nil, fmt.Errorf("$%s: %w", def.Variable, err)
		}
		vars[def.Variable] = v
	}
	return vars, nil
}

// fieldGroup holds every field rendered under one response key, in document order.
type fieldGroup struct {
	key    string
	fields []*ast.Field
}

// collectFields flattens fragments into response-key groups ordered by first occurrence,
// honouring @skip and @include.
func collectFields(set ast.SelectionSet, vars map[string]any) []fieldGroup {
	var (
		groups []fieldGroup
		index  = map[string]int{}
	)
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				if !included(s.Directives, vars) {
					continue
				}
				key := responseKey(s)
				if i, ok := index[key]; ok {
					groups[i].fields = append(groups[i].fields, s)
					continue
				}
				index[key] = len(groups)
				groups = append(groups, fieldGroup{key: key, fields: []*ast.Field{s}})
			case *ast.InlineFragment:
				if included(s.Directives, vars) {
					walk(s.SelectionSet)
				}
			case *ast.FragmentSpread:
				if s.Definition != nil && included(s.Directives, vars) {
					walk(s.Definition.SelectionSet)
				}
			}
		}
	}
	walk(set)
	return groups
}

func responseKey(field *ast.Field) string {
	if field.Alias != "" {
		return field.Alias
	}
	return field.Name
}

func included(directives ast.DirectiveList, vars map[string]any) bool {
	if d := directives.ForName("skip"); d != nil && condition(d, vars) {
		return false
	}
	if d := directives.ForName("include"); d != nil && !condition(d, vars) {
		return false
	}
	return true
}

func condition(d *ast.Directive, vars map[string]any) bool {
	arg := d.Arguments.ForName("if")
	if arg == nil || arg.Value == nil {
		return false
	}
	switch arg.Value.Kind {
	case ast.BooleanValue:
		return arg.Value.Raw == "true"
	case ast.Variable:
		b, _ := vars[arg.Value.Raw].(bool)
		return b
	default:
		return false
	}
}

func badInput(message string) gqlerror.List {
	return gqlerror.List{{Message: message, Extensions: map[string]interface{}{"code": CodeBadUserInput}}}
}

func withCode(errs gqlerror.List, code string) gqlerror.List {
	for _, err := range errs {
		if err.Extensions == nil {
			err.Extensions = map[string]interface{}{}
		}
		if _, ok := err.Extensions["code"]; !ok {
			err.Extensions["code"] = code
		}
	}
	return errs
}
