package semtype

import "fmt"

// Hierarchy answers subtype queries over a static parent adjacency.
//
// The graph is a DAG: a tag may declare multiple parents, and every tag other
// than the root must (transitively) reach the root. Cycles are configuration
// errors surfaced by Validate, not runtime faults; IsA guards against them
// with a visited set so a miswired table degrades instead of hanging.
type Hierarchy struct {
	parents map[Type][]Type
}

// defaultHierarchy is the process-wide hierarchy. It is built once at init
// and never mutated, so it is safe for concurrent use without locking.
var defaultHierarchy = &Hierarchy{parents: map[Type][]Type{
	Any: nil,

	// Storage types.
	Number:   {Any},
	Integer:  {Number},
	Float:    {Number},
	Decimal:  {Number},
	Text:     {Any},
	Boolean:  {Any},
	Temporal: {Any},
	Date:     {Temporal},
	Time:     {Temporal},
	DateTime: {Temporal},

	// Semantic types.
	PrimaryKey: {Any},
	ForeignKey: {Any},

	Coordinate: {Any},
	Latitude:   {Coordinate},
	Longitude:  {Coordinate},

	URL:       {Any},
	ImageURL:  {URL},
	AvatarURL: {ImageURL},

	Email:       {Any},
	Name:        {Any},
	Title:       {Any},
	Description: {Any},
	Comment:     {Description},
	Category:    {Any},
	Source:      {Any},
	Owner:       {Any},
	Author:      {Any},
	Company:     {Any},
	Product:     {Any},

	City:    {Category},
	State:   {Category},
	Country: {Category},
	ZipCode: {Any},

	Income:   {Any},
	Price:    {Any},
	Cost:     {Any},
	Discount: {Any},
	Quantity: {Any},
	Score:    {Any},
	Share:    {Any},
	Duration: {Any},

	Birthdate:         {Any},
	JoinTimestamp:     {Any},
	CreationTimestamp: {Any},
	UpdateTimestamp:   {Any},

	// Entity kinds.
	GenericTable:      {Any},
	TransactionTable:  {GenericTable},
	EventTable:        {GenericTable},
	AnalyticsTable:    {GenericTable},
	UserTable:         {GenericTable},
	CompanyTable:      {GenericTable},
	ProductTable:      {GenericTable},
	SubscriptionTable: {GenericTable},
}}

// Default returns the process-wide hierarchy.
func Default() *Hierarchy { return defaultHierarchy }

// IsA reports whether a equals b or is a transitive descendant of b.
//
// The relation is reflexive (IsA(t, t) is true even for unregistered t) and
// transitive. Unregistered tags have no ancestors, so IsA(a, b) with
// unregistered a is false unless a == b.
func (h *Hierarchy) IsA(a, b Type) bool {
	if a == b {
		return true
	}

	// Bounded upward walk. The visited set makes the walk terminate even if
	// the adjacency were miswired into a cycle.
	visited := make(map[Type]bool, 8)
	stack := append([]Type(nil), h.parents[a]...)
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[t] {
			continue
		}
		visited[t] = true
		if t == b {
			return true
		}
		stack = append(stack, h.parents[t]...)
	}
	return false
}

// Registered reports whether t is a known tag in the hierarchy.
func (h *Hierarchy) Registered(t Type) bool {
	_, ok := h.parents[t]
	return ok
}

// Validate checks structural invariants of the hierarchy and returns a list
// of human-readable violations (empty when the hierarchy is well formed).
//
// Checks:
//   - every declared parent is itself a registered tag
//   - every tag except the root reaches the root (no orphan subgraphs)
//   - no cycles
//
// Validate is intended for the startup self-check in non-production builds;
// the caller decides whether violations are fatal.
func (h *Hierarchy) Validate() []string {
	var violations []string

	for t, parents := range h.parents {
		for _, p := range parents {
			if !h.Registered(p) {
				violations = append(violations,
					fmt.Sprintf("semtype: %q declares unregistered parent %q", t, p))
			}
		}
	}

	for t := range h.parents {
		if t == Any {
			continue
		}
		if h.inCycle(t) {
			violations = append(violations, fmt.Sprintf("semtype: %q participates in a cycle", t))
			continue
		}
		if !h.IsA(t, Any) {
			violations = append(violations, fmt.Sprintf("semtype: %q does not reach root %q", t, Any))
		}
	}

	return violations
}

// inCycle reports whether t can reach itself by walking parents.
func (h *Hierarchy) inCycle(t Type) bool {
	visited := make(map[Type]bool, 8)
	stack := append([]Type(nil), h.parents[t]...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p == t {
			return true
		}
		if visited[p] {
			continue
		}
		visited[p] = true
		stack = append(stack, h.parents[p]...)
	}
	return false
}
