package model

// Theme categorises astronomy shows.  Theme names are unique across
// the catalog and a show may carry any number of themes.
//
// Fields:
//  ID   – primary key identifier.
//  Name – unique theme name.
type Theme struct {
	ID   uint64 `json:"id"`   // show_themes.id
	Name string `json:"name"` // show_themes.name
}
