// Copyright 2026 The Shopcore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

// Op is a comparison operator understood by the store translator.
type Op string

const (
	OpEq   Op = "="
	OpNe   Op = "<>"
	OpGt   Op = ">"
	OpGte  Op = ">="
	OpLt   Op = "<"
	OpLte  Op = "<="
	OpLike Op = "LIKE"
)

// Predicate is a boolean expression over registered entity fields. Predicates
// are plain data so every node can be translated into a parameterized store
// query; arbitrary in-process match functions are deliberately not supported.
type Predicate interface {
	isPredicate()
}

// Compare matches entities whose field relates to Value under Op.
type Compare struct {
	Field string
	Op    Op
	Value any
}

// Membership matches entities whose field equals any of Values.
type Membership struct {
	Field  string
	Values []any
}

// Conj joins Group children.
type Conj string

const (
	ConjAnd Conj = "AND"
	ConjOr  Conj = "OR"
)

// Group combines child predicates with a single conjunction.
type Group struct {
	Conj  Conj
	Preds []Predicate
}

// Not negates a child predicate.
type Not struct {
	Pred Predicate
}

func (Compare) isPredicate()    {}
func (Membership) isPredicate() {}
func (Group) isPredicate()      {}
func (Not) isPredicate()        {}

// Constructors. Field names are normalized by the registry when translated.

func Eq(field string, v any) Predicate  { return Compare{Field: field, Op: OpEq, Value: v} }
func Ne(field string, v any) Predicate  { return Compare{Field: field, Op: OpNe, Value: v} }
func Gt(field string, v any) Predicate  { return Compare{Field: field, Op: OpGt, Value: v} }
func Gte(field string, v any) Predicate { return Compare{Field: field, Op: OpGte, Value: v} }
func Lt(field string, v any) Predicate  { return Compare{Field: field, Op: OpLt, Value: v} }
func Lte(field string, v any) Predicate { return Compare{Field: field, Op: OpLte, Value: v} }

// Like matches with SQL LIKE semantics; the pattern is passed as a bound
// parameter, never interpolated.
func Like(field, pattern string) Predicate {
	return Compare{Field: field, Op: OpLike, Value: pattern}
}

// In matches when the field equals any of the given values.
func In(field string, values ...any) Predicate {
	return Membership{Field: field, Values: values}
}

// And combines predicates so all must hold.
func And(preds ...Predicate) Predicate { return Group{Conj: ConjAnd, Preds: preds} }

// Or combines predicates so at least one must hold.
func Or(preds ...Predicate) Predicate { return Group{Conj: ConjOr, Preds: preds} }

// Negate inverts a predicate.
func Negate(p Predicate) Predicate { return Not{Pred: p} }
