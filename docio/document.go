// Package docio reads and writes scene documents.
//
// A document is an XML file holding one node subtree, as produced by
// scene.Tree.StoreSubtree. The root element carries a document id and
// a BLAKE3 checksum of its content, verified on load. Files ending in
// .gz or .zst are compressed with gzip or zstd.
package docio

import (
	"bytes"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/benoitkugler/okscene/scene"
	"github.com/google/uuid"
	"golang.org/x/net/html/charset"
	"lukechampine.com/blake3"
)

// Version is the version of the format written by Write.
const Version = 1

var (
	// ErrChecksum is returned when the content of a document doesn't match
	// its checksum.
	ErrChecksum = errors.New("document checksum mismatch")
	// ErrVersion is returned for documents written by a newer version.
	ErrVersion = errors.New("unsupported document version")
)

// Document is a persisted scene (or any subtree).
type Document struct {
	ID   uuid.UUID
	Root scene.Record
}

// New stores the subtree rooted at root in a new document,
// with a random id.
func New(tree *scene.Tree, root scene.NodeID) (Document, error) {
	rec, err := tree.StoreSubtree(root)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: uuid.New(), Root: rec}, nil
}

// Restore creates the nodes of the document in tree and returns
// the (detached) root.
func (d Document) Restore(tree *scene.Tree) (scene.NodeID, error) {
	return tree.RestoreSubtree(d.Root)
}

type xmlDocument struct {
	XMLName  xml.Name `xml:"okscene"`
	Version  int      `xml:"version,attr"`
	ID       string   `xml:"id,attr"`
	Checksum string   `xml:"checksum,attr"`
	Content  []byte   `xml:",innerxml"`
}

type xmlNode struct {
	XMLName  xml.Name  `xml:"node"`
	Kind     string    `xml:"kind,attr"`
	Props    []xmlProp `xml:"p"`
	Children []xmlNode `xml:"node"`
}

type xmlProp struct {
	Key   string `xml:"k,attr"`
	Type  string `xml:"t,attr"` // b, n or s
	Value string `xml:",chardata"`
}

func checksum(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func toXML(rec scene.Record) (xmlNode, error) {
	out := xmlNode{Kind: rec.Kind}
	// sorted keys keep the checksum stable
	for _, key := range sortedKeys(rec.Properties) {
		prop := xmlProp{Key: key}
		switch v := rec.Properties[key].(type) {
		case bool:
			prop.Type, prop.Value = "b", strconv.FormatBool(v)
		case float64:
			prop.Type, prop.Value = "n", strconv.FormatFloat(v, 'g', -1, 64)
		case string:
			prop.Type, prop.Value = "s", v
		default:
			return xmlNode{}, fmt.Errorf("property %q: unexpected persisted value %T", key, v)
		}
		out.Props = append(out.Props, prop)
	}
	for _, c := range rec.Children {
		xc, err := toXML(c)
		if err != nil {
			return xmlNode{}, err
		}
		out.Children = append(out.Children, xc)
	}
	return out, nil
}

func (n xmlNode) record() (scene.Record, error) {
	rec := scene.Record{Kind: n.Kind, Properties: make(scene.Blob, len(n.Props))}
	for _, prop := range n.Props {
		var (
			v   any
			err error
		)
		switch prop.Type {
		case "b":
			v, err = strconv.ParseBool(prop.Value)
		case "n":
			v, err = strconv.ParseFloat(prop.Value, 64)
		case "s":
			v = prop.Value
		default:
			err = fmt.Errorf("unknown type %q", prop.Type)
		}
		if err != nil {
			return scene.Record{}, fmt.Errorf("property %q of %s: %w", prop.Key, n.Kind, err)
		}
		rec.Properties[prop.Key] = v
	}
	for _, c := range n.Children {
		crec, err := c.record()
		if err != nil {
			return scene.Record{}, err
		}
		rec.Children = append(rec.Children, crec)
	}
	return rec, nil
}

// Write encodes d as XML.
func Write(w io.Writer, d Document) error {
	root, err := toXML(d.Root)
	if err != nil {
		return err
	}
	content, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return err
	}
	content = append(append([]byte("\n"), content...), '\n')
	out, err := xml.Marshal(xmlDocument{
		Version:  Version,
		ID:       d.ID.String(),
		Checksum: checksum(content),
		Content:  content,
	})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Read decodes a document written by Write, checking its version
// and checksum.
func Read(r io.Reader) (Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	var doc xmlDocument
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("reading document: %w", err)
	}
	if doc.Version > Version {
		return Document{}, fmt.Errorf("%w: %d", ErrVersion, doc.Version)
	}
	if got := checksum(doc.Content); got != doc.Checksum {
		return Document{}, fmt.Errorf("%w: expected %s, got %s", ErrChecksum, doc.Checksum, got)
	}
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return Document{}, fmt.Errorf("reading document id: %w", err)
	}
	var root xmlNode
	if err := xml.Unmarshal(bytes.TrimSpace(doc.Content), &root); err != nil {
		return Document{}, fmt.Errorf("reading document content: %w", err)
	}
	rec, err := root.record()
	if err != nil {
		return Document{}, err
	}
	scene.Logger().Debug("document read", "id", id)
	return Document{ID: id, Root: rec}, nil
}

// sortedKeys returns the keys of m in increasing order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
