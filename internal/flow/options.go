package flow

import (
	"encoding/json"
	"fmt"
)

// Option is one quick reply offered alongside a prompt. Plain replies carry
// only a label and marshal as bare strings; link options also carry a URL
// and marshal as {label, url} objects. Both shapes are first-class on the
// wire and must survive a round trip unchanged.
type Option struct {
	Label string
	URL   string
}

// Text builds a plain quick-reply option.
func Text(label string) Option {
	return Option{Label: label}
}

// Link builds an external-link option, e.g. a messaging deep link.
func Link(label, url string) Option {
	return Option{Label: label, URL: url}
}

func texts(labels ...string) []Option {
	out := make([]Option, 0, len(labels))
	for _, l := range labels {
		out = append(out, Text(l))
	}
	return out
}

type optionObject struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// MarshalJSON keeps the two wire shapes distinct.
func (o Option) MarshalJSON() ([]byte, error) {
	if o.URL == "" {
		return json.Marshal(o.Label)
	}
	return json.Marshal(optionObject{Label: o.Label, URL: o.URL})
}

// UnmarshalJSON accepts either a bare string or a {label, url} object.
func (o *Option) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		o.Label = label
		o.URL = ""
		return nil
	}
	var obj optionObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("flow: option must be a string or {label, url}: %w", err)
	}
	o.Label = obj.Label
	o.URL = obj.URL
	return nil
}
