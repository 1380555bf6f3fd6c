package loader

import "xccdfeval/internal/refengine"

// BuildRefEngine constructs a refengine.Engine from the Document's facts and
// content sections, ready to Register with a policy.Registry.
func (d *Document) BuildRefEngine() *refengine.Engine {
	e := refengine.New(d.Facts)
	for href, defs := range d.Content {
		e.LoadContent(href, defs)
	}
	return e
}
