package models

// Prefill is a partially populated record produced by mapping a catalog
// provider's detail response. Nil pointers mean "not specified": applying a
// Prefill to an entry form overwrites exactly the fields that are set and
// leaves the rest alone.
type Prefill struct {
	Type       MediaType `json:"media_type"`
	ProviderID string    `json:"provider_id,omitempty"`

	Title    *string `json:"title,omitempty"`
	Year     *int    `json:"year,omitempty"`
	Genre    *string `json:"genre,omitempty"`
	Rating   *int    `json:"rating,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`

	Director *string `json:"director,omitempty"`
	Platform *string `json:"platform,omitempty"`
	Author   *string `json:"author,omitempty"`
	Pages    *int    `json:"pages,omitempty"`
	Artist   *string `json:"artist,omitempty"`
	Tracks   *int    `json:"tracks,omitempty"`
}

func StringPtr(s string) *string { return &s }
func IntPtr(i int) *int          { return &i }
