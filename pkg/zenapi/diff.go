package zenapi

import (
	"encoding/json"
)

// Diff is both the request and the response shape of the sync endpoint:
// the client sends locally changed entities keyed by kind, the server
// answers with everything that changed since ServerTimestamp.
//
// ServerTimestamp is omitted from a request when zero, which asks the
// server for a full pull; in a response it is the watermark to persist
// and send back on the next incremental sync.
type Diff struct {
	ServerTimestamp        int64 `json:"serverTimestamp,omitempty"`
	CurrentClientTimestamp int64 `json:"currentClientTimestamp"`

	Instrument     []Instrument     `json:"instrument,omitempty"`
	Company        []Company        `json:"company,omitempty"`
	User           []User           `json:"user,omitempty"`
	Account        []Account        `json:"account,omitempty"`
	Tag            []Tag            `json:"tag,omitempty"`
	Merchant       []Merchant       `json:"merchant,omitempty"`
	Reminder       []Reminder       `json:"reminder,omitempty"`
	ReminderMarker []ReminderMarker `json:"reminderMarker,omitempty"`
	Transaction    []Transaction    `json:"transaction,omitempty"`
	Budget         []Budget         `json:"budget,omitempty"`
	Deletion       []Deletion       `json:"deletion,omitempty"`

	// Extra carries entity kinds this client does not know about. They
	// pass through opaquely: preserved on decode, re-emitted on encode,
	// never silently dropped.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownDiffKeys are the wire keys the typed fields above already cover.
var knownDiffKeys = map[string]struct{}{
	"serverTimestamp":        {},
	"currentClientTimestamp": {},
	"instrument":             {},
	"company":                {},
	"user":                   {},
	"account":                {},
	"tag":                    {},
	"merchant":               {},
	"reminder":               {},
	"reminderMarker":         {},
	"transaction":            {},
	"budget":                 {},
	"deletion":               {},
}

func (d *Diff) UnmarshalJSON(data []byte) error {
	type alias Diff
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range raw {
		if _, known := knownDiffKeys[key]; known {
			delete(raw, key)
		}
	}
	if len(raw) > 0 {
		a.Extra = raw
	}

	*d = Diff(a)
	return nil
}

func (d Diff) MarshalJSON() ([]byte, error) {
	type alias Diff
	data, err := json.Marshal(alias(d))
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range d.Extra {
		if _, taken := merged[key]; !taken {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}
