package batis

import (
	"github.com/go-batisdev/batis/node"
)

// Mapper is one parsed mapper document: a namespace plus the statements,
// reusable SQL fragments and result maps declared in it. A Mapper is
// immutable after parsing and safe to share across concurrent generations.
type Mapper struct {
	namespace  string
	statements map[string]*Statement
	fragments  map[string]node.NodeGroup
	resultMaps map[string]*ResultMap
}

func newMapper() *Mapper {
	return &Mapper{
		statements: make(map[string]*Statement),
		fragments:  make(map[string]node.NodeGroup),
		resultMaps: make(map[string]*ResultMap),
	}
}

// Namespace returns the namespace of the mapper.
func (m *Mapper) Namespace() string {
	return m.namespace
}

// Statement returns the mapped statement with the given id.
func (m *Mapper) Statement(id string) (*Statement, bool) {
	statement, exists := m.statements[id]
	return statement, exists
}

// Statements returns the ids of all mapped statements, in no particular
// order.
func (m *Mapper) Statements() []string {
	ids := make([]string, 0, len(m.statements))
	for id := range m.statements {
		ids = append(ids, id)
	}
	return ids
}

// Fragment returns the reusable SQL fragment registered under refid.
// It implements node.FragmentResolver so a Mapper can be handed directly to
// the rendering context.
func (m *Mapper) Fragment(refid string) (node.NodeGroup, bool) {
	fragment, exists := m.fragments[refid]
	return fragment, exists
}

// ResultMap returns the result map with the given id.
func (m *Mapper) ResultMap(id string) (*ResultMap, bool) {
	resultMap, exists := m.resultMaps[id]
	return resultMap, exists
}

func (m *Mapper) setStatement(statement *Statement) error {
	if _, exists := m.statements[statement.id]; exists {
		return errDuplicateID(string(statement.action), statement.id)
	}
	m.statements[statement.id] = statement
	return nil
}

func (m *Mapper) setFragment(id string, fragment node.NodeGroup) error {
	if _, exists := m.fragments[id]; exists {
		return errDuplicateID("sql", id)
	}
	m.fragments[id] = fragment
	return nil
}

func (m *Mapper) setResultMap(resultMap *ResultMap) error {
	if _, exists := m.resultMaps[resultMap.id]; exists {
		return errDuplicateID("resultMap", resultMap.id)
	}
	m.resultMaps[resultMap.id] = resultMap
	return nil
}

var _ node.FragmentResolver = (*Mapper)(nil)
