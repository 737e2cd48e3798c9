package models

// Image is a reference to an uploaded file held in object storage. Key is what the
// storage backend needs to delete it later.
type Image struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// ImageKeys returns the storage keys of images, skipping blanks.
func ImageKeys(images []Image) []string {
	keys := make([]string, 0, len(images))
	for _, img := range images {
		if img.Key != "" {
			keys = append(keys, img.Key)
		}
	}
	return keys
}
