package domain

// Repository represents a repository as returned by the GitHub listing call
type Repository struct {
	Owner       string
	Name        string
	FullName    string
	Description *string
	Homepage    *string
	HTMLURL     string
	Fork        bool
}

// GetDescription returns the description or an empty string
func (r *Repository) GetDescription() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// GetHomepage returns the homepage or an empty string when unset
func (r *Repository) GetHomepage() string {
	if r.Homepage == nil {
		return ""
	}
	return *r.Homepage
}
