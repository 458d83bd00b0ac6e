package types

// Movie represents a title in the catalog.
type Movie struct {
	// ID is the unique identifier of the movie.
	ID string `json:"id"`

	// Title is the unique, human-readable name of the movie.
	Title string `json:"title"`

	// Description is a short synopsis.
	Description string `json:"description"`

	// Genre classifies the movie.
	Genre Genre `json:"genre"`

	// Director is the person who directed the movie.
	Director Director `json:"director"`

	// Actors lists the cast by name.
	Actors []string `json:"actors"`

	// ImagePath points at the movie poster. When object storage is
	// configured this is the object key of the uploaded poster.
	ImagePath string `json:"image_path"`

	// Featured marks movies highlighted by the catalog.
	Featured bool `json:"featured"`
}

// Genre is a named movie category.
type Genre struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Director describes a movie director.
type Director struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Birth string `json:"birth,omitempty"`
}
