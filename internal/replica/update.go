package replica

// UpdateKind distinguishes a value write from a tombstone.
type UpdateKind int

const (
	// Set carries a new value for a key.
	Set UpdateKind = iota
	// Delete is a tombstone: the key should be removed.
	Delete
)

// Update is what the reader hands to an UpdateReceiver for one decoded
// log record. Payload is nil for Delete.
type Update struct {
	Kind    UpdateKind
	Key     []byte
	Payload []byte
}

// UpdateReceiver is the dispatch target for decoded log records: the
// cache aggregate implements this by demultiplexing on cacheName.
type UpdateReceiver interface {
	ReceiveUpdate(cacheName string, update Update) error
}
