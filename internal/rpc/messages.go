package rpc

// User is the wire form of a profile record.
type User struct {
	Identity          string   `json:"identity"`
	DisplayName       string   `json:"display_name"`
	PortraitReference string   `json:"portrait_reference,omitempty"`
	Strengths         []string `json:"strengths,omitempty"`
	Story             string   `json:"story,omitempty"`
}

// Card is the wire form of a card. CreatedAt is RFC 3339 with nanoseconds.
type Card struct {
	Id             string `json:"id"`
	OwnerIdentity  string `json:"owner_identity"`
	CreatedAt      string `json:"created_at"`
	ImageReference string `json:"image_reference,omitempty"`
	Theme          string `json:"theme"`
	Alignment      string `json:"alignment"`
	DisplayName    string `json:"display_name"`
	IsPublic       bool   `json:"is_public"`
	IsActive       bool   `json:"is_active"`
	SaveCount      int64  `json:"save_count"`
}

type Stats struct {
	TotalCards  int64 `json:"total_cards"`
	PublicCards int64 `json:"public_cards"`
	Heroes      int64 `json:"heroes"`
	Villains    int64 `json:"villains"`
	TotalSaves  int64 `json:"total_saves"`
	SavedByMe   int64 `json:"saved_by_me"`
}

type Empty struct{}

type GetUserRequest struct {
	Identity string `json:"identity"`
}

type GetUserResponse struct {
	User *User `json:"user,omitempty"`
}

type SaveUserRequest struct {
	User *User `json:"user"`
}

type GetCardsRequest struct {
	OwnerIdentity string `json:"owner_identity"`
}

type CardsResponse struct {
	Cards []*Card `json:"cards,omitempty"`
}

type GetCardRequest struct {
	Id             string `json:"id"`
	ViewerIdentity string `json:"viewer_identity,omitempty"`
}

type GetCardResponse struct {
	Card *Card `json:"card,omitempty"`
}

type SaveCardRequest struct {
	Card *Card `json:"card"`
}

type DeleteCardRequest struct {
	OwnerIdentity string `json:"owner_identity"`
	Id            string `json:"id"`
}

type SetCardVisibilityRequest struct {
	OwnerIdentity string `json:"owner_identity"`
	Id            string `json:"id"`
	IsPublic      bool   `json:"is_public"`
}

// CollectionRequest addresses one (identity, card) membership.
type CollectionRequest struct {
	Identity string `json:"identity"`
	CardId   string `json:"card_id"`
}

type IsCardSavedResponse struct {
	Saved bool `json:"saved"`
}

type GetSavedCardsRequest struct {
	Identity string `json:"identity"`
}

type GetStatsRequest struct {
	Identity string `json:"identity"`
}

type GetStatsResponse struct {
	Stats *Stats `json:"stats"`
}
