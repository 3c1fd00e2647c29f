package marcxml

import "github.com/beevik/etree"

// treeRenderer builds an etree document from events. Text is stored raw;
// etree escapes it when the document is written out.
type treeRenderer struct {
	doc   *etree.Document
	stack []*etree.Element
}

func newTreeRenderer(doc *etree.Document) *treeRenderer {
	return &treeRenderer{doc: doc}
}

func (t *treeRenderer) emit(ev Event) error {
	switch ev.Kind {
	case StartElement:
		var el *etree.Element
		if len(t.stack) == 0 {
			t.doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
			el = t.doc.CreateElement(ev.Name)
		} else {
			el = t.stack[len(t.stack)-1].CreateElement(ev.Name)
		}
		for _, a := range ev.Attrs {
			el.CreateAttr(a.Name, a.Value)
		}
		t.stack = append(t.stack, el)

	case Text:
		top := t.stack[len(t.stack)-1]
		top.SetText(top.Text() + ev.Text)

	case EndElement:
		t.stack = t.stack[:len(t.stack)-1]
	}
	return nil
}

func (t *treeRenderer) flush() error { return nil }
