package models

// Stats is the per-identity summary computed by the remote store.
type Stats struct {
	TotalCards  int64 `json:"total_cards"`
	PublicCards int64 `json:"public_cards"`
	Heroes      int64 `json:"heroes"`
	Villains    int64 `json:"villains"`
	TotalSaves  int64 `json:"total_saves"`
	SavedByMe   int64 `json:"saved_by_me"`
}
