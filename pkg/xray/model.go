package xray

// SeverityHigh is the only severity counted towards an image's issue count.
// Matching is exact and case-sensitive.
const SeverityHigh = "High"

type SummaryRequest struct {
	Checksums []string `json:"checksums"`
}

type SummaryResponse struct {
	Artifacts []Artifact `json:"artifacts"`
	Errors    []Error    `json:"errors,omitempty"`
}

type Artifact struct {
	General  General   `json:"general"`
	Issues   []Issue   `json:"issues"`
	Licenses []License `json:"licenses,omitempty"`
}

type General struct {
	ComponentID string `json:"component_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Path        string `json:"path,omitempty"`
	PkgType     string `json:"pkg_type,omitempty"`
	SHA256      string `json:"sha256,omitempty"`
}

type Issue struct {
	IssueID     string   `json:"issue_id,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	IssueType   string   `json:"issue_type,omitempty"`
	Severity    string   `json:"severity"`
	Provider    string   `json:"provider,omitempty"`
	Created     string   `json:"created,omitempty"`
	ImpactPath  []string `json:"impact_path,omitempty"`
}

type License struct {
	Name       string   `json:"name"`
	FullName   string   `json:"full_name,omitempty"`
	MoreInfo   string   `json:"more_info_url,omitempty"`
	Components []string `json:"components,omitempty"`
}

type Error struct {
	Identifier string `json:"identifier"`
	Error      string `json:"error"`
}
