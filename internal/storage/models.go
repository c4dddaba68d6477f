package storage

// Mapping is a curated override pinning a raw institution name to a
// standard name. RawKey is the normalized form of RawName and is the
// lookup key; RawName preserves the original spelling for operators.
type Mapping struct {
	RawKey       string `json:"raw_key"`
	RawName      string `json:"raw_name"`
	StandardName string `json:"standard_name"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}
