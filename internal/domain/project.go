package domain

import "fmt"

// ImageSource describes where a project's cover image came from
type ImageSource string

const (
	ImageSourceReadme ImageSource = "readme"
	ImageSourceSocial ImageSource = "social"
	ImageSourceNone   ImageSource = "none"
)

// Project is one entry of the generated manifest.
//
// Optional fields are pointers so that an absent value is written as JSON
// null rather than an empty string.
type Project struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Homepage    string   `json:"homepage"`
	Topics      []string `json:"topics"`
	ReadmeText  string   `json:"readme_text"`
	ReadmeImage *string  `json:"readme_image"`
	Image       *string  `json:"image"`
	Color       *string  `json:"color"`
	URL         string   `json:"url"`
}

// ImageSource reports which strategy produced Image
func (p *Project) ImageSource() ImageSource {
	switch {
	case p.Image == nil:
		return ImageSourceNone
	case p.ReadmeImage != nil && *p.ReadmeImage == *p.Image:
		return ImageSourceReadme
	default:
		return ImageSourceSocial
	}
}

// DefaultHomepage returns the GitHub Pages address used when a repository
// has no homepage configured
func DefaultHomepage(owner, repo string) string {
	return fmt.Sprintf("https://%s.github.io/%s/", owner, repo)
}
