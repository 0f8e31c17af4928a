package actionstore

import (
	"bytes"
	"encoding/json"

	"tasksync/internal/service"
)

// Flag is a completion value as echoed by the store. It decodes from the
// JSON boolean true or the string "true"; every other value is false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*f = true
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = s == "true"
	default:
		*f = false
	}
	return nil
}

type wireTask struct {
	Task     string `json:"task"`
	Name     string `json:"name"`
	Complete Flag   `json:"complete"`
}

// listResponse is the only part of a store reply the client relies on.
type listResponse struct {
	Items []wireTask `json:"items"`
}

func (r listResponse) tasks() []service.Task {
	out := make([]service.Task, 0, len(r.Items))
	for _, item := range r.Items {
		name := item.Task
		if name == "" {
			name = item.Name
		}
		out = append(out, service.Task{Name: name, Complete: bool(item.Complete)})
	}
	return out
}
