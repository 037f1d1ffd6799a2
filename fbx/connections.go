package fbx

// ConnectionType distinguishes an object-object link from an
// object-property link (spec.md §5: "OO"/"OP" Connections records).
type ConnectionType int

const (
	ConnObjectObject ConnectionType = iota
	ConnObjectProperty
)

// Connection is one Connections/C record, preserved in file order.
type Connection struct {
	Type ConnectionType
	From int64
	To   int64
	Prop string // populated only for ConnObjectProperty
}

// connectionIndex answers the scene's link-resolution queries using the
// same linear, file-order semantics as the reference parser's
// resolveObjectLink/resolveObjectLinkReverse/getParent (original_source
// ofbx.cpp): no sorting, no dedup, ties broken by first occurrence.
type connectionIndex struct {
	all []Connection
}

func (c *connectionIndex) add(conn Connection) {
	c.all = append(c.all, conn)
}

// outLinks returns, in file order, every object ID that id points to via
// an OO connection (id is the "from" side).
func (c *connectionIndex) outLinks(id int64) []int64 {
	var out []int64
	for _, conn := range c.all {
		if conn.Type == ConnObjectObject && conn.From == id && conn.To != RootID {
			out = append(out, conn.To)
		}
	}
	return out
}

// inLinks returns, in file order, every object ID that points at id via an
// OO connection (id is the "to" side).
func (c *connectionIndex) inLinks(id int64) []int64 {
	var out []int64
	for _, conn := range c.all {
		if conn.Type == ConnObjectObject && conn.To == id && conn.From != RootID {
			out = append(out, conn.From)
		}
	}
	return out
}

// outLinksAll is outLinks without excluding RootID, used by parentOf to see
// every candidate parent including an explicit link to the scene root.
func (c *connectionIndex) outLinksAll(id int64) []int64 {
	var out []int64
	for _, conn := range c.all {
		if conn.Type == ConnObjectObject && conn.From == id {
			out = append(out, conn.To)
		}
	}
	return out
}

// propertyLinksIn returns, in file order, the OP connections targeting id,
// alongside the destination property name on id.
func (c *connectionIndex) propertyLinksIn(id int64) []Connection {
	var out []Connection
	for _, conn := range c.all {
		if conn.Type == ConnObjectProperty && conn.To == id {
			out = append(out, conn)
		}
	}
	return out
}
