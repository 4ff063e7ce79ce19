package models

// Client is a record in the flat-file client store. Every persisted client has
// a non-empty ID and Name; the remaining fields default to the empty string
// rather than being absent. Copies handed to callers are snapshots, not live
// references into the store.
type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ClientPatch carries the mutable fields of a client update. Nil fields are
// left untouched; non-nil fields overwrite.
type ClientPatch struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}
