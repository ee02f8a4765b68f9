/*
Copyright 2023 eatmoreapple

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package batis

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/go-batisdev/batis/node"
)

// paramNameRegexp matches #{...} placeholders during parameter discovery.
var paramNameRegexp = regexp.MustCompile(`#\{([^}]*)\}`)

// ParseMapper parses one mapper document from raw bytes into a Mapper.
// The document root must be <mapper> (or its legacy alias <sqlmap>); the
// recognized children are the four statement elements, <sql> fragments and
// <resultMap>. All failures surface as *ParseError.
func ParseMapper(data []byte) (*Mapper, error) {
	if !utf8.Valid(data) {
		return nil, &ParseError{Kind: EncodingError, Detail: "input is not valid UTF-8"}
	}
	return NewXMLParser(bytes.NewReader(data)).Parse()
}

// XMLParser consumes the XML event stream of a single mapper document.
// A parser holds a read cursor and is not reentrant across one Parse call;
// construct one per document or reuse it sequentially.
type XMLParser struct {
	decoder *xml.Decoder
	mapper  *Mapper
}

// NewXMLParser creates a parser reading from r.
func NewXMLParser(r io.Reader) *XMLParser {
	return &XMLParser{decoder: xml.NewDecoder(r)}
}

// Parse runs the event loop over the document and returns the Mapper.
func (p *XMLParser) Parse() (*Mapper, error) {
	p.mapper = newMapper()
	inMapper := false
	for {
		token, err := p.decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, wrapDecodeError(err)
		}
		switch token := token.(type) {
		case xml.StartElement:
			name := token.Name.Local
			switch {
			case name == "mapper" || name == "sqlmap":
				inMapper = true
				for _, attr := range token.Attr {
					if attr.Name.Local == "namespace" {
						p.mapper.namespace = attr.Value
					}
				}
			case !inMapper:
				// elements outside the mapper root are ignored
			default:
				if err := p.parseMapperChild(token); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if token.Name.Local == "mapper" || token.Name.Local == "sqlmap" {
				return p.mapper, nil
			}
		}
	}
	return p.mapper, nil
}

func (p *XMLParser) parseMapperChild(start xml.StartElement) error {
	name := start.Name.Local
	if action, ok := actionOf(name); ok {
		statement := &Statement{mapper: p.mapper, action: action}
		if err := p.parseStatement(statement, start); err != nil {
			return err
		}
		return p.mapper.setStatement(statement)
	}
	switch name {
	case "sql":
		return p.parseFragment(start)
	case "resultMap":
		return p.parseResultMap(start)
	default:
		// unknown mapper-level elements are skipped wholesale
		return p.skipElement()
	}
}

func (p *XMLParser) parseStatement(statement *Statement, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "id":
			statement.id = attr.Value
		case "parameterType":
			statement.parameterType = attr.Value
		case "resultType":
			statement.resultType = attr.Value
		case "resultMap":
			statement.resultMap = attr.Value
		}
	}
	if statement.id == "" {
		return errMissingAttribute(string(statement.action), "id")
	}

	var sqlBuf strings.Builder
	nodes, err := p.parseBody(start.Name.Local, &sqlBuf)
	if err != nil {
		return err
	}
	statement.sql = sqlBuf.String()
	statement.parameters = extractParameters(statement.sql)
	statement.dynamicSQL = wrapNodes(nodes)
	return nil
}

// wrapNodes gives the generator a single entry point: a lone node is used
// directly, multiple nodes are grouped under a neutral trim.
func wrapNodes(nodes node.NodeGroup) node.Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	default:
		return &node.TrimNode{Nodes: nodes}
	}
}

// parseBody is the shared recursive descent over a dynamic-SQL body. It
// consumes events until the end tag named by end arrives, dispatching child
// elements to parseTag and collecting text runs both as nodes and into the
// accumulator that feeds parameter discovery.
func (p *XMLParser) parseBody(end string, sqlBuf *strings.Builder) (node.NodeGroup, error) {
	var nodes node.NodeGroup
	for {
		token, err := p.decoder.Token()
		if err != nil {
			if err == io.EOF {
				return nil, errUnclosed(end)
			}
			return nil, wrapDecodeError(err)
		}
		switch token := token.(type) {
		case xml.StartElement:
			child, err := p.parseTag(token, sqlBuf)
			if err != nil {
				return nil, err
			}
			if child != nil {
				nodes = append(nodes, child)
			}
		case xml.CharData:
			text := string(token)
			sqlBuf.WriteString(text)
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				nodes = append(nodes, node.NewTextNode(trimmed))
			}
		case xml.EndElement:
			if token.Name.Local == end {
				return nodes, nil
			}
			return nil, &ParseError{
				Kind:    MalformedXML,
				Element: token.Name.Local,
				Detail:  "unexpected end element",
			}
		}
	}
}

// parseTag dispatches one dynamic-SQL element. Unknown elements survive as a
// literal <tagname/> token in the text accumulator; their content is skipped
// with depth tracking so a stray end tag cannot cut the body short.
func (p *XMLParser) parseTag(start xml.StartElement, sqlBuf *strings.Builder) (node.Node, error) {
	switch start.Name.Local {
	case "if":
		return p.parseIf(start, sqlBuf)
	case "choose":
		return p.parseChoose(start, sqlBuf)
	case "foreach":
		return p.parseForeach(start, sqlBuf)
	case "trim":
		return p.parseTrim(start, sqlBuf)
	case "where":
		return p.parseWhere(start, sqlBuf)
	case "set":
		return p.parseSet(start, sqlBuf)
	case "bind":
		return p.parseBind(start)
	case "include":
		return p.parseInclude(start)
	default:
		fmt.Fprintf(sqlBuf, "<%s/>", start.Name.Local)
		return nil, p.skipElement()
	}
}

func (p *XMLParser) parseIf(start xml.StartElement, sqlBuf *strings.Builder) (node.Node, error) {
	condition, err := p.parseConditionBody("if", start, sqlBuf)
	if err != nil {
		return nil, err
	}
	return condition, nil
}

func (p *XMLParser) parseWhen(start xml.StartElement, sqlBuf *strings.Builder) (*node.WhenNode, error) {
	return p.parseConditionBody("when", start, sqlBuf)
}

func (p *XMLParser) parseConditionBody(name string, start xml.StartElement, sqlBuf *strings.Builder) (*node.ConditionNode, error) {
	var test string
	for _, attr := range start.Attr {
		if attr.Name.Local == "test" {
			test = attr.Value
			break
		}
	}
	if test == "" {
		return nil, errMissingAttribute(name, "test")
	}
	condition := &node.ConditionNode{}
	condition.Parse(strings.TrimSpace(test))

	nodes, err := p.parseBody(name, sqlBuf)
	if err != nil {
		return nil, err
	}
	condition.Nodes = nodes
	return condition, nil
}

func (p *XMLParser) parseChoose(start xml.StartElement, sqlBuf *strings.Builder) (node.Node, error) {
	chooseNode := &node.ChooseNode{}
	for {
		token, err := p.decoder.Token()
		if err != nil {
			if err == io.EOF {
				return nil, errUnclosed("choose")
			}
			return nil, wrapDecodeError(err)
		}
		switch token := token.(type) {
		case xml.StartElement:
			switch token.Name.Local {
			case "when":
				when, err := p.parseWhen(token, sqlBuf)
				if err != nil {
					return nil, err
				}
				chooseNode.WhenNodes = append(chooseNode.WhenNodes, when)
			case "otherwise":
				if chooseNode.OtherwiseNode != nil {
					return nil, &ParseError{
						Kind:    MalformedXML,
						Element: "otherwise",
						Detail:  "declared more than once",
					}
				}
				nodes, err := p.parseBody("otherwise", sqlBuf)
				if err != nil {
					return nil, err
				}
				chooseNode.OtherwiseNode = node.OtherwiseNode{Nodes: nodes}
			default:
				// same unknown-element treatment as parseTag: a literal
				// token in the text accumulator, content skipped
				fmt.Fprintf(sqlBuf, "<%s/>", token.Name.Local)
				if err := p.skipElement(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if token.Name.Local == "choose" {
				return chooseNode, nil
			}
		}
	}
}

func (p *XMLParser) parseForeach(start xml.StartElement, sqlBuf *strings.Builder) (node.Node, error) {
	foreachNode := &node.ForeachNode{}
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "collection":
			foreachNode.Collection = attr.Value
		case "item":
			foreachNode.Item = attr.Value
		case "index":
			foreachNode.Index = attr.Value
		case "open":
			foreachNode.Open = attr.Value
		case "separator":
			foreachNode.Separator = attr.Value
		case "close":
			foreachNode.Close = attr.Value
		}
	}
	if foreachNode.Collection == "" {
		return nil, errMissingAttribute("foreach", "collection")
	}

	nodes, err := p.parseBody("foreach", sqlBuf)
	if err != nil {
		return nil, err
	}
	foreachNode.Nodes = nodes
	return foreachNode, nil
}

func (p *XMLParser) parseTrim(start xml.StartElement, sqlBuf *strings.Builder) (node.Node, error) {
	trimNode := &node.TrimNode{}
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "prefix":
			trimNode.Prefix = attr.Value
		case "prefixOverrides":
			trimNode.PrefixOverrides = splitOverrides(attr.Value)
		case "suffix":
			trimNode.Suffix = attr.Value
		case "suffixOverrides":
			trimNode.SuffixOverrides = splitOverrides(attr.Value)
		}
	}

	nodes, err := p.parseBody("trim", sqlBuf)
	if err != nil {
		return nil, err
	}
	trimNode.Nodes = nodes
	return trimNode, nil
}

// splitOverrides tokenizes a trim override attribute: comma-separated, each
// token trimmed.
func splitOverrides(value string) []string {
	overrides := strings.Split(value, ",")
	for i := range overrides {
		overrides[i] = strings.TrimSpace(overrides[i])
	}
	return overrides
}

func (p *XMLParser) parseWhere(start xml.StartElement, sqlBuf *strings.Builder) (node.Node, error) {
	whereNode := &node.WhereNode{}
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "prefixOverrides":
			whereNode.PrefixOverrides = strings.Split(attr.Value, "|")
		case "suffixOverrides":
			whereNode.SuffixOverrides = strings.Split(attr.Value, "|")
		}
	}

	nodes, err := p.parseBody("where", sqlBuf)
	if err != nil {
		return nil, err
	}
	whereNode.Nodes = nodes
	return whereNode, nil
}

func (p *XMLParser) parseSet(start xml.StartElement, sqlBuf *strings.Builder) (node.Node, error) {
	setNode := &node.SetNode{}
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "prefixOverrides":
			setNode.PrefixOverrides = strings.Split(attr.Value, "|")
		case "suffixOverrides":
			setNode.SuffixOverrides = strings.Split(attr.Value, "|")
		}
	}

	nodes, err := p.parseBody("set", sqlBuf)
	if err != nil {
		return nil, err
	}
	setNode.Nodes = nodes
	return setNode, nil
}

func (p *XMLParser) parseBind(start xml.StartElement) (node.Node, error) {
	bindNode := &node.BindNode{}
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "name":
			bindNode.Name = attr.Value
		case "value":
			bindNode.Value = attr.Value
		}
	}
	if bindNode.Name == "" {
		return nil, errMissingAttribute("bind", "name")
	}
	if bindNode.Value == "" {
		return nil, errMissingAttribute("bind", "value")
	}
	if err := p.consumeEnd("bind"); err != nil {
		return nil, err
	}
	return bindNode, nil
}

func (p *XMLParser) parseInclude(start xml.StartElement) (node.Node, error) {
	var refid string
	for _, attr := range start.Attr {
		if attr.Name.Local == "refid" {
			refid = attr.Value
			break
		}
	}
	if refid == "" {
		return nil, errMissingAttribute("include", "refid")
	}
	if err := p.consumeEnd("include"); err != nil {
		return nil, err
	}
	return node.IncludeNode{RefID: refid}, nil
}

func (p *XMLParser) parseFragment(start xml.StartElement) error {
	var id string
	for _, attr := range start.Attr {
		if attr.Name.Local == "id" {
			id = attr.Value
			break
		}
	}
	if id == "" {
		return errMissingAttribute("sql", "id")
	}

	// fragment text feeds no statement, so the accumulator is throwaway
	var sqlBuf strings.Builder
	nodes, err := p.parseBody("sql", &sqlBuf)
	if err != nil {
		return err
	}
	return p.mapper.setFragment(id, nodes)
}

func (p *XMLParser) parseResultMap(start xml.StartElement) error {
	resultMap := &ResultMap{}
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "id":
			resultMap.id = attr.Value
		case "type":
			resultMap.typeName = attr.Value
		}
	}
	for {
		token, err := p.decoder.Token()
		if err != nil {
			if err == io.EOF {
				return errUnclosed("resultMap")
			}
			return wrapDecodeError(err)
		}
		switch token := token.(type) {
		case xml.StartElement:
			if token.Name.Local != "result" {
				if err := p.skipElement(); err != nil {
					return err
				}
				continue
			}
			var column ResultColumn
			for _, attr := range token.Attr {
				switch attr.Name.Local {
				case "property":
					column.Property = attr.Value
				case "column":
					column.Column = attr.Value
				case "javaType":
					column.JavaType = attr.Value
				case "jdbcType":
					column.JDBCType = attr.Value
				}
			}
			resultMap.columns = append(resultMap.columns, column)
			if err := p.consumeEnd("result"); err != nil {
				return err
			}
		case xml.EndElement:
			if token.Name.Local == "resultMap" {
				return p.mapper.setResultMap(resultMap)
			}
		}
	}
}

// consumeEnd reads events until the end tag of the named element, dropping
// anything in between. Self-closing elements yield their end tag
// immediately.
func (p *XMLParser) consumeEnd(name string) error {
	for {
		token, err := p.decoder.Token()
		if err != nil {
			if err == io.EOF {
				return errUnclosed(name)
			}
			return wrapDecodeError(err)
		}
		if end, ok := token.(xml.EndElement); ok && end.Name.Local == name {
			return nil
		}
	}
}

// skipElement discards the content of the element whose start tag was just
// read, including nested elements.
func (p *XMLParser) skipElement() error {
	if err := p.decoder.Skip(); err != nil {
		return wrapDecodeError(err)
	}
	return nil
}

// wrapDecodeError converts a low-level decoder failure into a ParseError.
// A document that ends inside an open element surfaces as an unclosed
// element, character-set complaints as encoding errors, everything else as
// malformed XML.
func wrapDecodeError(err error) error {
	kind := MalformedXML
	if syntaxErr, ok := err.(*xml.SyntaxError); ok && syntaxErr.Msg == "unexpected EOF" {
		kind = UnclosedElement
	} else if strings.Contains(err.Error(), "encoding") || strings.Contains(err.Error(), "charset") {
		kind = EncodingError
	}
	return &ParseError{
		Kind: kind,
		Err:  errors.Wrap(err, "failed to get token from xml decoder"),
	}
}
