package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// DeliveryAddress is either a free-text line or a structured address.
type DeliveryAddress struct {
	Text string

	Structured bool
	Street     string
	City       string
	ZipCode    string
	Phone      string
}

type structuredAddress struct {
	Street  string `json:"street"`
	City    string `json:"city,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

func TextAddress(text string) DeliveryAddress {
	return DeliveryAddress{Text: text}
}

func (a DeliveryAddress) IsZero() bool {
	return !a.Structured && a.Text == ""
}

// String renders the address on one line.
func (a DeliveryAddress) String() string {
	if !a.Structured {
		return a.Text
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.City, a.ZipCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (a DeliveryAddress) MarshalJSON() ([]byte, error) {
	if !a.Structured {
		return json.Marshal(a.Text)
	}
	return json.Marshal(structuredAddress{
		Street:  a.Street,
		City:    a.City,
		ZipCode: a.ZipCode,
		Phone:   a.Phone,
	})
}

// UnmarshalJSON accepts a JSON string or an object; zipCode is accepted as an
// alias of zip_code.
func (a *DeliveryAddress) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = DeliveryAddress{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = DeliveryAddress{Text: s}
		return nil
	case '{':
		var raw struct {
			structuredAddress
			ZipCodeCamel string `json:"zipCode"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		zip := raw.ZipCode
		if zip == "" {
			zip = raw.ZipCodeCamel
		}
		*a = DeliveryAddress{
			Structured: true,
			Street:     raw.Street,
			City:       raw.City,
			ZipCode:    zip,
			Phone:      raw.Phone,
		}
		return nil
	default:
		return errors.New("delivery address must be a string or an object")
	}
}
