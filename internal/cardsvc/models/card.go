package models

// Card is the persisted entity. Id is assigned by the store on the
// first save and never changes afterwards.
type Card struct {
	Id      int     `json:"Id"`
	Title   string  `json:"Title"`
	Content string  `json:"Content"`
	List    *string `json:"List"` // optional free-form serialized string
}

// NewCard builds a card with no id assigned yet.
func NewCard(title, content string, list *string) *Card {
	return &Card{
		Title:   title,
		Content: content,
		List:    list,
	}
}

// Token is the login response. Never persisted, regenerated per login.
type Token struct {
	Username    string `json:"Username"`
	AccessToken string `json:"AccessToken"`
	ExpiresIn   int64  `json:"ExpiresIn"` // milliseconds until expiry
}
