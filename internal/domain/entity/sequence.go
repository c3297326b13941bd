package entity

// SequenceLength is the number of timesteps every sequence is padded or truncated to.
const SequenceLength = 30

// Sequence is the ordered history of one client, before padding.
type Sequence []Features

// SequenceSet groups sequences by client while remembering the order in which
// clients were first seen. It also keeps the first label seen for each client.
type SequenceSet struct {
	order     []ClientID
	sequences map[ClientID]Sequence
	labels    map[ClientID]*int
}

// NewSequenceSet creates an empty SequenceSet.
func NewSequenceSet() *SequenceSet {
	return &SequenceSet{
		sequences: make(map[ClientID]Sequence),
		labels:    make(map[ClientID]*int),
	}
}

// Append adds the record's features to its client's sequence.
func (s *SequenceSet) Append(r Record) {
	if _, ok := s.sequences[r.ClientID]; !ok {
		s.order = append(s.order, r.ClientID)
		s.labels[r.ClientID] = r.Label
	}
	s.sequences[r.ClientID] = append(s.sequences[r.ClientID], r.Features)
}

// Len returns the number of distinct clients.
func (s *SequenceSet) Len() int {
	return len(s.order)
}

// ClientIDs returns the client ids in first-seen order.
func (s *SequenceSet) ClientIDs() []ClientID {
	ids := make([]ClientID, len(s.order))
	copy(ids, s.order)
	return ids
}

// Sequence returns the sequence of a client.
func (s *SequenceSet) Sequence(id ClientID) Sequence {
	return s.sequences[id]
}

// Label returns the first label seen for a client, nil when unknown.
func (s *SequenceSet) Label(id ClientID) *int {
	return s.labels[id]
}

// Subset returns a new set holding only the given client, or nil if it is unknown.
func (s *SequenceSet) Subset(id ClientID) *SequenceSet {
	seq, ok := s.sequences[id]
	if !ok {
		return nil
	}
	sub := NewSequenceSet()
	sub.order = []ClientID{id}
	sub.sequences[id] = seq
	sub.labels[id] = s.labels[id]
	return sub
}

// ClassBalance counts clients per first-seen label. Clients without a label are
// counted under "unknown".
func (s *SequenceSet) ClassBalance() map[string]int {
	balance := make(map[string]int)
	for _, id := range s.order {
		switch l := s.labels[id]; {
		case l == nil:
			balance["unknown"]++
		case *l == 1:
			balance["1"]++
		default:
			balance["0"]++
		}
	}
	return balance
}
