package domain

// EligibilityInput is the fact set handed to the reviewer-eligibility
// policy when a corresponding author solicits a review. The flows gather
// the facts; the policy only decides.
type EligibilityInput struct {
	ArticleID           string `json:"article_id"`
	Reviewer            string `json:"reviewer"`
	CorrespondingAuthor string `json:"corresponding_author"`
	Recommended         bool   `json:"recommended"`
	HasLiveRequest      bool   `json:"has_live_request"`
}

type EligibilityDenial struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type EligibilityResult struct {
	Allow bool                `json:"allow"`
	Deny  []EligibilityDenial `json:"deny"`
}
