package models

import "time"

type Favorite struct {
	ID        string    `json:"_id"`
	ClientID  string    `json:"client"`
	ListingID string    `json:"annonce"`
	DateAdded time.Time `json:"dateAjout"`
}

// FavoriteView is a favorite with its listing populated. Listing is nil when
// the referenced listing no longer exists.
type FavoriteView struct {
	ID        string       `json:"_id"`
	ClientID  string       `json:"client"`
	Listing   *ListingView `json:"annonce"`
	DateAdded time.Time    `json:"dateAjout"`
}
