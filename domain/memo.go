package domain

import (
	"encoding/json"
	"time"
)

// Snapshot is the persisted JSON value of one store slot.
type Snapshot struct {
	Slot       string          `json:"slot"`
	Value      json.RawMessage `json:"value"`
	UpdateTime time.Time       `json:"update_time"`
}

func NewSnapshot(slot string, value interface{}) (*Snapshot, error) {
	jstr, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Slot: slot, Value: jstr}, nil
}

func (obj *Snapshot) Decode(target interface{}) error {
	return json.Unmarshal(obj.Value, target)
}
