package domain

// KeyMapping is the whole persisted state of the signer: the key records
// indexed by address, plus the version token used for optimistic
// concurrency control by the key stores.
type KeyMapping struct {
	Keys    map[string]KeyRecord `json:"keys"`
	Version uint64               `json:"version"`
}

// NewKeyMapping returns an empty mapping, as found before the first ever
// record is stored.
func NewKeyMapping() *KeyMapping {
	return &KeyMapping{
		Keys: make(map[string]KeyRecord),
	}
}

// Get returns the record for the given address, if any.
func (m *KeyMapping) Get(address string) (*KeyRecord, bool) {
	if m == nil || m.Keys == nil {
		return nil, false
	}
	record, ok := m.Keys[address]
	if !ok {
		return nil, false
	}
	return &record, true
}

// Add stores the record for an address that has none yet. Records are
// immutable once stored.
func (m *KeyMapping) Add(address string, record KeyRecord) error {
	if len(address) <= 0 {
		return ErrNullAddress
	}
	if m.Keys == nil {
		m.Keys = make(map[string]KeyRecord)
	}
	if _, ok := m.Keys[address]; ok {
		return ErrKeyRecordExists
	}
	m.Keys[address] = record
	return nil
}

// Len returns the number of stored records.
func (m *KeyMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Keys)
}

// Clone returns a deep copy of the mapping.
func (m *KeyMapping) Clone() *KeyMapping {
	clone := NewKeyMapping()
	if m == nil {
		return clone
	}
	clone.Version = m.Version
	for addr, record := range m.Keys {
		clone.Keys[addr] = record
	}
	return clone
}
