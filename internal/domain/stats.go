package domain

// TopicCount is the number of projects tagged with a topic
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// ManifestStats summarizes a set of projects
type ManifestStats struct {
	Owner          string       `json:"owner"`
	TotalProjects  int          `json:"total_projects"`
	WithReadme     int          `json:"with_readme"`
	ReadmeImages   int          `json:"readme_images"`
	SocialImages   int          `json:"social_images"`
	WithoutImage   int          `json:"without_image"`
	CustomHomepage int          `json:"custom_homepage"`
	Topics         []TopicCount `json:"topics"`
}
