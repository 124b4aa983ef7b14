// Package xmlhelper edits keyed XML nodes of the form
//
//	<Container>
//	  <Item Key="name">
//	    <Value>text</Value>
//	  </Item>
//	</Container>
//
// on top of an etree document, and reads and writes such documents on disk.
package xmlhelper

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/beevik/etree"
	"github.com/google/renameio/v2"
)

// KeyAttr is the attribute that identifies an item under its container.
const KeyAttr = "Key"

// XValuePair is one child element written under an item.
type XValuePair struct {
	Key   string
	Value string
}

// NewDocument returns an empty document with an XML declaration and the
// given root element.
func NewDocument(rootTag string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateElement(rootTag)
	return doc
}

// ReadFile loads a document from path. A missing file yields a fresh
// document rooted at rootTag and no error.
func ReadFile(path, rootTag string) (*etree.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDocument(rootTag), nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Parse(data, rootTag)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

// Parse builds a document from raw XML, adding a rootTag root when the
// input has none.
func Parse(data []byte, rootTag string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		doc.CreateElement(rootTag)
	}
	return doc, nil
}

// WriteFile indents doc and replaces path atomically. It returns the bytes
// written.
func WriteFile(doc *etree.Document, path string) ([]byte, error) {
	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return nil, fmt.Errorf("create pending %s: %w", path, err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return nil, fmt.Errorf("commit %s: %w", path, err)
	}
	return data, nil
}

// SaveXMLNode inserts or updates the item identified by key under the
// container element, setting one child element per pair. The container is
// the root itself when the root carries containerTag, otherwise a direct
// child of the root, created on demand.
func SaveXMLNode(doc *etree.Document, containerTag, itemTag, key string, pairs []XValuePair) *etree.Element {
	container := Container(doc, containerTag)

	item := FindItem(container, itemTag, key)
	if item == nil {
		item = container.CreateElement(itemTag)
		item.CreateAttr(KeyAttr, key)
	}

	for _, pair := range pairs {
		child := item.SelectElement(pair.Key)
		if child == nil {
			child = item.CreateElement(pair.Key)
		}
		child.SetText(pair.Value)
	}
	return item
}

// Container returns the element holding items, creating it (and a root
// named after it) when missing.
func Container(doc *etree.Document, containerTag string) *etree.Element {
	root := doc.Root()
	if root == nil {
		return doc.CreateElement(containerTag)
	}
	if root.Tag == containerTag {
		return root
	}
	if c := root.SelectElement(containerTag); c != nil {
		return c
	}
	return root.CreateElement(containerTag)
}

// FindItem returns the itemTag child of container whose Key attribute
// equals key, or nil.
func FindItem(container *etree.Element, itemTag, key string) *etree.Element {
	for _, el := range container.SelectElements(itemTag) {
		if el.SelectAttrValue(KeyAttr, "") == key {
			return el
		}
	}
	return nil
}

// RemoveItem deletes the keyed item, reporting whether one was found.
func RemoveItem(container *etree.Element, itemTag, key string) bool {
	el := FindItem(container, itemTag, key)
	if el == nil {
		return false
	}
	container.RemoveChild(el)
	return true
}

// ChildText returns the text of item's child element, and whether the
// child exists.
func ChildText(item *etree.Element, child string) (string, bool) {
	el := item.SelectElement(child)
	if el == nil {
		return "", false
	}
	return el.Text(), true
}
