package model

import "time"

// Show represents an astronomy show in the catalog.  A show may be
// scheduled into many sessions across different domes.  The optional
// Image field stores the relative path of uploaded artwork.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – show title.
//  Description – long form description.
//  Image       – relative artwork path (nil when no artwork uploaded).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Show struct {
	ID          uint64    // astronomy_shows.id
	Title       string    // astronomy_shows.title
	Description string    // astronomy_shows.description
	Image       *string   // astronomy_shows.image (nullable)
	CreatedAt   time.Time // astronomy_shows.created_at
	UpdatedAt   time.Time // astronomy_shows.updated_at
}
